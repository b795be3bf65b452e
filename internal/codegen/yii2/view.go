package yii2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/jinzhu/inflection"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// entityView is the data handed to the per-table templates.
type entityView struct {
	Namespace      string
	DB             string
	Table          string
	TableRef       string
	Class          string
	Comment        string
	MigrationClass string
	PrimaryKeys    []string
	AddPrimaryKey  bool
	Columns        []columnView
	DTOFields      []columnView
	RequiredFields []string
	Imports        []string
	Rules          []ruleView
	Relations      []relationView
	ForeignKeys    []foreignKeyView
}

type columnView struct {
	Name      string
	Property  string
	Method    string
	PHPType   string
	Label     string
	Schema    string
	Required  bool
	Nullable  bool
	Comment   string
	IsPrimary bool
}

type ruleView struct {
	Attributes []string
	Validator  string
	Params     string
}

type relationView struct {
	Method      string
	TargetClass string
	Many        bool
	Link        string
	ViaTable    string
	ViaLink     string
}

type foreignKeyView struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
	OnUpdate  string
}

type readmeView struct {
	DisplayName string
	Version     string
	Namespace   string
	Entities    []*entityView
}

func newEntityView(t models.Table, index int, all []models.Table, cfg codegen.Config) *entityView {
	prefix := cfg.String("tablePrefix", "")
	v := &entityView{
		Namespace: cfg.String(codegen.ConfigNamespace, "app"),
		DB:        cfg.String("db", "db"),
		Table:     prefix + t.Name,
		TableRef:  "{{%" + prefix + t.Name + "}}",
		Class:     codegen.UpperCamel(t.Name),
		Comment:   t.Comment,
		MigrationClass: fmt.Sprintf("m%s_%06d_create_%s_table",
			cfg.String("migrationDate", "000000"), index+1, t.Name),
		PrimaryKeys: t.PrimaryKeys(),
	}

	autoPK := len(v.PrimaryKeys) == 1 && isAutoIncrement(t.Columns, v.PrimaryKeys[0])
	v.AddPrimaryKey = len(v.PrimaryKeys) > 0 && !autoPK

	for _, c := range t.Columns {
		cv := columnView{
			Name:      c.Name,
			Property:  codegen.LowerCamel(c.Name),
			Method:    codegen.UpperCamel(c.Name),
			PHPType:   phpType(c.Type),
			Label:     inflect.Humanize(c.Name),
			Schema:    migrationSchema(c, autoPK),
			Required:  !c.IsNullable,
			Nullable:  c.IsNullable,
			Comment:   c.Comment,
			IsPrimary: c.IsPrimaryKey,
		}
		v.Columns = append(v.Columns, cv)
		if !c.IsPrimaryKey && !c.IsAutoGenerated() {
			v.DTOFields = append(v.DTOFields, cv)
			if cv.Required {
				v.RequiredFields = append(v.RequiredFields, c.Name)
			}
		}
	}

	v.Rules = buildRules(t.Columns)
	v.Relations = buildRelations(t, all)
	seen := map[string]bool{v.Class: true}
	for _, r := range v.Relations {
		if !seen[r.TargetClass] {
			seen[r.TargetClass] = true
			v.Imports = append(v.Imports, r.TargetClass)
		}
	}
	for _, r := range t.Relationships {
		v.ForeignKeys = append(v.ForeignKeys, foreignKeyView{
			Name:      fmt.Sprintf("fk-%s-%s", t.Name, r.FromColumn),
			Column:    r.FromColumn,
			RefTable:  "{{%" + prefix + r.ToTable + "}}",
			RefColumn: r.ToColumn,
			OnDelete:  orDefault(r.OnDelete),
			OnUpdate:  orDefault(r.OnUpdate),
		})
	}
	return v
}

func orDefault(action string) string {
	if action == "" {
		return models.DefaultReferentialAction
	}
	return action
}

func isAutoIncrement(cols []models.Column, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return c.Type == models.ColumnTypeInteger || c.Type == models.ColumnTypeBigInt
		}
	}
	return false
}

func phpType(t models.ColumnType) string {
	switch t {
	case models.ColumnTypeInteger, models.ColumnTypeBigInt, models.ColumnTypeSmallInt:
		return "int"
	case models.ColumnTypeFloat:
		return "float"
	case models.ColumnTypeBoolean:
		return "bool"
	case models.ColumnTypeJSON:
		return "array"
	default:
		return "string"
	}
}

var schemaBuilders = map[models.ColumnType]string{
	models.ColumnTypeInteger:   "integer()",
	models.ColumnTypeBigInt:    "bigInteger()",
	models.ColumnTypeSmallInt:  "smallInteger()",
	models.ColumnTypeDecimal:   "decimal(10, 2)",
	models.ColumnTypeFloat:     "float()",
	models.ColumnTypeBoolean:   "boolean()",
	models.ColumnTypeString:    "string()",
	models.ColumnTypeText:      "text()",
	models.ColumnTypeDate:      "date()",
	models.ColumnTypeDateTime:  "dateTime()",
	models.ColumnTypeTimestamp: "timestamp()",
	models.ColumnTypeTime:      "time()",
	models.ColumnTypeJSON:      "json()",
	models.ColumnTypeUUID:      "string(36)",
	models.ColumnTypeBinary:    "binary()",
}

// migrationSchema renders the schema builder chain for one column.
func migrationSchema(c models.Column, autoPK bool) string {
	if c.IsPrimaryKey && autoPK {
		if c.Type == models.ColumnTypeBigInt {
			return "$this->bigPrimaryKey()"
		}
		return "$this->primaryKey()"
	}

	builder, ok := schemaBuilders[c.Type]
	if !ok {
		builder = "string()"
	}
	var b strings.Builder
	b.WriteString("$this->")
	b.WriteString(builder)
	if !c.IsNullable || c.IsPrimaryKey {
		b.WriteString("->notNull()")
	}
	if c.DefaultValue != nil {
		b.WriteString(defaultClause(c.Type, *c.DefaultValue))
	}
	if c.Comment != "" {
		b.WriteString("->comment(")
		b.WriteString(phpString(c.Comment))
		b.WriteString(")")
	}
	return b.String()
}

func defaultClause(t models.ColumnType, value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "CURRENT_TIMESTAMP", "NOW()", "CURRENT_TIMESTAMP()":
		return "->defaultExpression('CURRENT_TIMESTAMP')"
	case "NULL":
		return "->defaultValue(null)"
	}
	switch t {
	case models.ColumnTypeInteger, models.ColumnTypeBigInt, models.ColumnTypeSmallInt,
		models.ColumnTypeDecimal, models.ColumnTypeFloat:
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return "->defaultValue(" + value + ")"
		}
	case models.ColumnTypeBoolean:
		if b, err := strconv.ParseBool(value); err == nil {
			return "->defaultValue(" + strconv.FormatBool(b) + ")"
		}
	}
	return "->defaultValue(" + phpString(value) + ")"
}

func phpString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// buildRules groups attributes by the ActiveRecord validator they need.
func buildRules(cols []models.Column) []ruleView {
	var required, integer, number, boolean, str, safe []string
	for _, c := range cols {
		if c.IsAutoGenerated() {
			continue
		}
		if !c.IsNullable {
			required = append(required, c.Name)
		}
		switch c.Type {
		case models.ColumnTypeInteger, models.ColumnTypeBigInt, models.ColumnTypeSmallInt:
			integer = append(integer, c.Name)
		case models.ColumnTypeDecimal, models.ColumnTypeFloat:
			number = append(number, c.Name)
		case models.ColumnTypeBoolean:
			boolean = append(boolean, c.Name)
		case models.ColumnTypeString, models.ColumnTypeUUID:
			str = append(str, c.Name)
		default:
			safe = append(safe, c.Name)
		}
	}

	var rules []ruleView
	add := func(attrs []string, validator, params string) {
		if len(attrs) > 0 {
			rules = append(rules, ruleView{Attributes: attrs, Validator: validator, Params: params})
		}
	}
	add(required, "required", "")
	add(integer, "integer", "")
	add(number, "number", "")
	add(boolean, "boolean", "")
	add(str, "string", "'max' => 255")
	add(safe, "safe", "")
	return rules
}

// buildRelations derives one accessor per outgoing relationship of t.
func buildRelations(t models.Table, all []models.Table) []relationView {
	used := make(map[string]bool, len(reservedAccessors)+len(t.Columns)+len(t.Relationships))
	for name := range reservedAccessors {
		used[name] = true
	}
	for _, c := range t.Columns {
		used[codegen.UpperCamel(c.Name)] = true
	}

	rels := make([]relationView, 0, len(t.Relationships))
	for _, r := range t.Relationships {
		target := codegen.UpperCamel(r.ToTable)
		many := isCollection(t, r)

		var method string
		if many {
			method = inflection.Plural(target)
		} else {
			method = inflection.Singular(target)
		}
		if used[method] {
			method = codegen.UpperCamel(strings.TrimSuffix(r.FromColumn, "_id"))
			if !many {
				method = inflection.Singular(method)
			}
		}
		for base, n := method, 2; used[method]; n++ {
			method = base + strconv.Itoa(n)
		}
		used[method] = true

		rv := relationView{
			Method:      method,
			TargetClass: target,
			Many:        many,
			Link:        fmt.Sprintf("%s => %s", phpString(r.ToColumn), phpString(r.FromColumn)),
		}
		if r.Type == models.ManyToMany {
			if j, fromKey, toKey, ok := findJunction(r, all); ok {
				rv.Link = fmt.Sprintf("%s => %s", phpString(r.ToColumn), phpString(toKey))
				rv.ViaTable = "{{%" + j + "}}"
				rv.ViaLink = fmt.Sprintf("%s => %s", phpString(fromKey), phpString(r.FromColumn))
			}
		}
		rels = append(rels, rv)
	}
	return rels
}

// isCollection resolves the accessor shape of a relationship seen from t.
// A one-to-many edge leaving a foreign key column (not t's primary key) is the
// owning side and points at a single parent row.
func isCollection(t models.Table, r models.Relationship) bool {
	switch r.Type {
	case models.OneToOne, models.ManyToOne:
		return false
	case models.ManyToMany:
		return true
	}
	if col, ok := t.Column(r.FromColumn); ok && !col.IsPrimaryKey {
		return false
	}
	return true
}

// findJunction looks for a table other than both ends whose relationships point
// at both of them. It returns the junction name and its key columns referencing
// the source and target tables.
func findJunction(r models.Relationship, all []models.Table) (string, string, string, bool) {
	for _, j := range all {
		if j.Name == r.FromTable || j.Name == r.ToTable {
			continue
		}
		var fromKey, toKey string
		for _, jr := range j.Relationships {
			switch jr.ToTable {
			case r.FromTable:
				fromKey = jr.FromColumn
			case r.ToTable:
				toKey = jr.FromColumn
			}
		}
		if fromKey != "" && toKey != "" {
			return j.Name, fromKey, toKey, true
		}
	}
	return "", "", "", false
}
