package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// Normalize converts a loosely structured canvas document into canonical
// tables. Only a missing or non-sequence "tables" field is fatal; every other
// malformed field is coerced to its default.
func Normalize(doc map[string]any) ([]models.Table, error) {
	raw, ok := doc["tables"]
	if !ok || raw == nil {
		return nil, NewValidationError("diagram document has no tables field")
	}
	items, ok := asSlice(raw)
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("diagram tables must be a list, got %T", raw))
	}

	refs := newReferenceIndex(items)
	tables := make([]models.Table, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tables = append(tables, normalizeTable(obj, refs))
	}
	return tables, nil
}

func normalizeTable(obj map[string]any, refs *referenceIndex) models.Table {
	t := models.Table{
		Name:    stringField(obj, "name", stringField(obj, "id", "")),
		Comment: stringField(obj, "comment", ""),
	}

	if cols, ok := asSlice(obj["columns"]); ok {
		t.Columns = make([]models.Column, 0, len(cols))
		for _, c := range cols {
			if cobj, ok := c.(map[string]any); ok {
				t.Columns = append(t.Columns, normalizeColumn(cobj))
			}
		}
	}

	t.Relationships = []models.Relationship{}
	if rels, ok := asSlice(obj["relationships"]); ok {
		for _, r := range rels {
			if robj, ok := r.(map[string]any); ok {
				t.Relationships = append(t.Relationships, normalizeRelationship(robj, t.Name, refs))
			}
		}
	}
	return t
}

func normalizeColumn(obj map[string]any) models.Column {
	col := models.Column{
		Name:         stringField(obj, "name", stringField(obj, "id", "")),
		Type:         models.ParseColumnType(stringField(obj, "type", string(models.ColumnTypeString))),
		IsNullable:   boolField(obj, "isNullable", true),
		IsPrimaryKey: boolField(obj, "isPrimaryKey", false),
		IsForeignKey: boolField(obj, "isForeignKey", false),
		Comment:      stringField(obj, "comment", ""),
	}
	if v, ok := obj["defaultValue"]; ok && v != nil {
		s := flexibleString(v)
		col.DefaultValue = &s
	}
	return col
}

func normalizeRelationship(obj map[string]any, owner string, refs *referenceIndex) models.Relationship {
	from := refs.table(stringField(obj, "fromTable", owner))
	to := refs.table(stringField(obj, "toTable", ""))
	return models.Relationship{
		FromTable:  from,
		FromColumn: refs.column(from, stringField(obj, "fromColumn", "")),
		ToTable:    to,
		ToColumn:   refs.column(to, stringField(obj, "toColumn", "")),
		Type:       models.ParseCardinality(stringField(obj, "type", string(models.OneToMany))),
		OnDelete:   referentialAction(stringField(obj, "onDelete", models.DefaultReferentialAction)),
		OnUpdate:   referentialAction(stringField(obj, "onUpdate", models.DefaultReferentialAction)),
	}
}

// referentialAction upper-cases an action and accepts "set_null" style spellings.
// Unknown actions are kept for the validators to report.
func referentialAction(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(s, "_", " "))), " ")
}

// referenceIndex resolves table and column ids used by relationships to names.
type referenceIndex struct {
	tables  map[string]string
	columns map[string]map[string]string
}

func newReferenceIndex(items []any) *referenceIndex {
	idx := &referenceIndex{
		tables:  make(map[string]string),
		columns: make(map[string]map[string]string),
	}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(obj, "name", stringField(obj, "id", ""))
		if id := stringField(obj, "id", ""); id != "" && id != name {
			idx.tables[id] = name
		}
		cols, _ := asSlice(obj["columns"])
		colIDs := make(map[string]string)
		for _, c := range cols {
			cobj, ok := c.(map[string]any)
			if !ok {
				continue
			}
			cname := stringField(cobj, "name", stringField(cobj, "id", ""))
			if id := stringField(cobj, "id", ""); id != "" && id != cname {
				colIDs[id] = cname
			}
		}
		idx.columns[name] = colIDs
	}
	return idx
}

func (idx *referenceIndex) table(ref string) string {
	if name, ok := idx.tables[ref]; ok {
		return name
	}
	return ref
}

func (idx *referenceIndex) column(table, ref string) string {
	if name, ok := idx.columns[table][ref]; ok {
		return name
	}
	return ref
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func stringField(obj map[string]any, key, fallback string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return fallback
	}
	return flexibleString(v)
}

// flexibleString renders scalars the way they appear in the source document:
// whole numbers without a decimal point, booleans as true/false.
func flexibleString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func boolField(obj map[string]any, key string, fallback bool) bool {
	v, ok := obj[key]
	if !ok || v == nil {
		return fallback
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return b
		}
	case float64:
		return x != 0
	case int:
		return x != 0
	}
	return fallback
}
