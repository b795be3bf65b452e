package codegen

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/sync/singleflight"
)

// DefaultFuncs are available to every template compiled by a TemplateCache.
var DefaultFuncs = template.FuncMap{
	"upperCamel": UpperCamel,
	"lowerCamel": LowerCamel,
	"lower":      strings.ToLower,
	"upper":      strings.ToUpper,
	"join":       strings.Join,
	"quote":      func(s string) string { return "'" + strings.ReplaceAll(s, "'", "\\'") + "'" },
}

// TemplateCache is a read-through cache of compiled templates keyed by name.
// Entries are compiled on first use from src and shared afterwards; compiled
// templates are safe for concurrent execution.
type TemplateCache struct {
	src   fs.FS
	funcs template.FuncMap

	mu      sync.RWMutex
	entries map[string]*template.Template
	group   singleflight.Group
}

// NewTemplateCache creates a cache reading templates from src. extra funcs are
// added on top of DefaultFuncs.
func NewTemplateCache(src fs.FS, extra template.FuncMap) *TemplateCache {
	funcs := make(template.FuncMap, len(DefaultFuncs)+len(extra))
	for k, v := range DefaultFuncs {
		funcs[k] = v
	}
	for k, v := range extra {
		funcs[k] = v
	}
	return &TemplateCache{
		src:     src,
		funcs:   funcs,
		entries: make(map[string]*template.Template),
	}
}

// Get returns the compiled template, compiling it on a miss.
func (c *TemplateCache) Get(name string) (*template.Template, error) {
	c.mu.RLock()
	t, ok := c.entries[name]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		t, err := c.compile(name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[name] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// Len returns the number of compiled templates held by the cache.
func (c *TemplateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Render executes the named template with data.
func (c *TemplateCache) Render(name string, data any) (string, error) {
	t, err := c.Get(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (c *TemplateCache) compile(name string) (*template.Template, error) {
	raw, err := fs.ReadFile(c.src, name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	t, err := template.New(path.Base(name)).Funcs(c.funcs).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return t, nil
}
