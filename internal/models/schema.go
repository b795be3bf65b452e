package models

import "strings"

// ColumnType is the scalar kind of a diagram column.
type ColumnType string

const (
	ColumnTypeInteger   ColumnType = "integer"
	ColumnTypeBigInt    ColumnType = "bigint"
	ColumnTypeSmallInt  ColumnType = "smallint"
	ColumnTypeDecimal   ColumnType = "decimal"
	ColumnTypeFloat     ColumnType = "float"
	ColumnTypeBoolean   ColumnType = "boolean"
	ColumnTypeString    ColumnType = "string"
	ColumnTypeText      ColumnType = "text"
	ColumnTypeDate      ColumnType = "date"
	ColumnTypeDateTime  ColumnType = "datetime"
	ColumnTypeTimestamp ColumnType = "timestamp"
	ColumnTypeTime      ColumnType = "time"
	ColumnTypeJSON      ColumnType = "json"
	ColumnTypeUUID      ColumnType = "uuid"
	ColumnTypeBinary    ColumnType = "binary"
)

// columnTypeAliases maps the spellings found in canvas documents onto the enum.
var columnTypeAliases = map[string]ColumnType{
	"integer":           ColumnTypeInteger,
	"int":               ColumnTypeInteger,
	"int4":              ColumnTypeInteger,
	"serial":            ColumnTypeInteger,
	"mediumint":         ColumnTypeInteger,
	"bigint":            ColumnTypeBigInt,
	"int8":              ColumnTypeBigInt,
	"bigserial":         ColumnTypeBigInt,
	"smallint":          ColumnTypeSmallInt,
	"int2":              ColumnTypeSmallInt,
	"tinyint":           ColumnTypeSmallInt,
	"decimal":           ColumnTypeDecimal,
	"numeric":           ColumnTypeDecimal,
	"money":             ColumnTypeDecimal,
	"float":             ColumnTypeFloat,
	"double":            ColumnTypeFloat,
	"double precision":  ColumnTypeFloat,
	"real":              ColumnTypeFloat,
	"boolean":           ColumnTypeBoolean,
	"bool":              ColumnTypeBoolean,
	"string":            ColumnTypeString,
	"varchar":           ColumnTypeString,
	"character varying": ColumnTypeString,
	"char":              ColumnTypeString,
	"character":         ColumnTypeString,
	"text":              ColumnTypeText,
	"longtext":          ColumnTypeText,
	"mediumtext":        ColumnTypeText,
	"date":              ColumnTypeDate,
	"datetime":          ColumnTypeDateTime,
	"timestamp":         ColumnTypeTimestamp,
	"timestamptz":       ColumnTypeTimestamp,
	"time":              ColumnTypeTime,
	"json":              ColumnTypeJSON,
	"jsonb":             ColumnTypeJSON,
	"uuid":              ColumnTypeUUID,
	"binary":            ColumnTypeBinary,
	"blob":              ColumnTypeBinary,
	"bytea":             ColumnTypeBinary,
}

// ParseColumnType maps a declared type onto the enum. Length/precision suffixes
// such as "varchar(255)" are ignored. Unknown types fall back to string.
func ParseColumnType(raw string) ColumnType {
	t := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if ct, ok := columnTypeAliases[t]; ok {
		return ct
	}
	return ColumnTypeString
}

type Column struct {
	Name         string     `json:"name"`
	Type         ColumnType `json:"type"`
	IsNullable   bool       `json:"isNullable"`
	IsPrimaryKey bool       `json:"isPrimaryKey"`
	IsForeignKey bool       `json:"isForeignKey"`
	DefaultValue *string    `json:"defaultValue,omitempty"`
	Comment      string     `json:"comment,omitempty"`
}

// IsAutoGenerated reports whether the database fills the column on insert.
func (c Column) IsAutoGenerated() bool {
	if c.IsPrimaryKey {
		return true
	}
	switch c.Name {
	case "created_at", "updated_at":
		return true
	}
	if c.DefaultValue != nil {
		switch strings.ToUpper(strings.TrimSpace(*c.DefaultValue)) {
		case "CURRENT_TIMESTAMP", "NOW()", "CURRENT_TIMESTAMP()":
			return true
		}
	}
	return false
}

// Cardinality is the kind of a relationship edge.
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToOne  Cardinality = "many-to-one"
	ManyToMany Cardinality = "many-to-many"
)

// ParseCardinality accepts "one_to_many", "one-to-many", "oneToMany" and
// similar spellings. Anything unrecognised is one-to-many.
func ParseCardinality(raw string) Cardinality {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '_' || r == '-' || r == ' ':
			continue
		default:
			b.WriteRune(r)
		}
	}
	switch strings.ToLower(b.String()) {
	case "onetoone", "1:1":
		return OneToOne
	case "manytoone", "n:1":
		return ManyToOne
	case "manytomany", "n:m", "m:n":
		return ManyToMany
	default:
		return OneToMany
	}
}

// DefaultReferentialAction is used when a relationship does not specify
// onDelete/onUpdate.
const DefaultReferentialAction = "CASCADE"

var referentialActions = map[string]bool{
	"CASCADE":     true,
	"RESTRICT":    true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"NO ACTION":   true,
}

// IsReferentialAction reports whether a is an ON DELETE/ON UPDATE action.
// Empty means the default action.
func IsReferentialAction(a string) bool {
	return a == "" || referentialActions[a]
}

type Relationship struct {
	FromTable  string      `json:"fromTable"`
	FromColumn string      `json:"fromColumn"`
	ToTable    string      `json:"toTable"`
	ToColumn   string      `json:"toColumn"`
	Type       Cardinality `json:"type"`
	OnDelete   string      `json:"onDelete"`
	OnUpdate   string      `json:"onUpdate"`
}

type Table struct {
	Name          string         `json:"name"`
	Columns       []Column       `json:"columns"`
	Relationships []Relationship `json:"relationships"`
	Comment       string         `json:"comment,omitempty"`
}

// Column returns the column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKeys returns the names of the primary key columns in declaration order.
func (t Table) PrimaryKeys() []string {
	var pks []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	return pks
}

// FindTable looks a table up by name.
func FindTable(tables []Table, name string) (Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
