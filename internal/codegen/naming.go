package codegen

import (
	"strings"
	"unicode"
)

// UpperCamel converts a snake_case identifier to UpperCamelCase:
// "author_id" → "AuthorId", "user_posts" → "UserPosts".
// The letter after each underscore is upper-cased and the underscore dropped.
// Letters not following an underscore keep their case.
func UpperCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LowerCamel converts a snake_case identifier to lowerCamelCase:
// "author_id" → "authorId".
func LowerCamel(s string) string {
	u := UpperCamel(s)
	if u == "" {
		return ""
	}
	runes := []rune(u)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// IsIdentifier reports whether s is an ASCII identifier ([A-Za-z_][A-Za-z0-9_]*).
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
