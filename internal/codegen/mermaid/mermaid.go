// Package mermaid renders a diagram as a Mermaid erDiagram document.
package mermaid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

const Name = "mermaid"

type Convention struct{}

func New() *Convention {
	return &Convention{}
}

func (c *Convention) Info() codegen.Info {
	return codegen.Info{
		Name:        Name,
		Version:     "10",
		Description: "Mermaid erDiagram of the whole diagram",
		FileKinds:   []codegen.FileKind{codegen.FileKindDiagram},
		AlwaysEmits: []string{"schema.mmd"},
	}
}

func (c *Convention) DefaultConfig() codegen.Config {
	return codegen.Config{
		codegen.ConfigDisplayName: "Mermaid",
		"filename":                "schema.mmd",
		"uppercase":               true,
	}
}

func (c *Convention) Validate(tables []models.Table) codegen.ValidationResult {
	var errs []string
	for i, t := range tables {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Sprintf("table #%d: name is required", i+1))
			continue
		}
		if strings.ContainsAny(t.Name, " \t\n{}\"") {
			errs = append(errs, fmt.Sprintf("table %s: name cannot contain whitespace, braces or quotes", t.Name))
		}
		for _, r := range t.Relationships {
			errs = append(errs, codegen.RelationshipErrors(tables, t.Name, r)...)
		}
	}
	return codegen.NewValidationResult(errs)
}

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// ValidateConfig keeps the output file at the archive root.
func (c *Convention) ValidateConfig(cfg codegen.Config) []string {
	if v := cfg.String("filename", ""); !filenamePattern.MatchString(v) {
		return []string{fmt.Sprintf("config filename: %q must be a plain file name", v)}
	}
	return nil
}

func (c *Convention) GenerateFiles(tables []models.Table, cfg codegen.Config) ([]codegen.GeneratedFile, error) {
	upper := cfg.String("uppercase", "true") == "true"
	return []codegen.GeneratedFile{{
		Filename: cfg.String("filename", "schema.mmd"),
		Content:  render(tables, upper),
		Kind:     codegen.FileKindDiagram,
	}}, nil
}

// edges maps a cardinality onto Mermaid crow's-foot notation.
var edges = map[models.Cardinality]string{
	models.OneToOne:   "||--||",
	models.OneToMany:  "||--o{",
	models.ManyToOne:  "}o--||",
	models.ManyToMany: "}o--o{",
}

func render(tables []models.Table, upper bool) string {
	ident := func(s string) string {
		if upper {
			return strings.ToUpper(s)
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString("erDiagram\n")

	seen := make(map[string]bool)
	wrote := false
	for _, t := range tables {
		for _, r := range t.Relationships {
			edge := edges[r.Type]
			key := fmt.Sprintf("%s:%s:%s", r.FromTable, edge, r.ToTable)
			if seen[key] {
				continue
			}
			seen[key] = true
			wrote = true
			// Mermaid requires a label, an empty one hides it.
			fmt.Fprintf(&sb, "    %s %s %s : \"%s\"\n", ident(r.FromTable), edge, ident(r.ToTable), r.FromColumn)
		}
	}
	if wrote {
		sb.WriteString("\n")
	}

	for _, t := range tables {
		fmt.Fprintf(&sb, "    %s {\n", ident(t.Name))
		for _, col := range t.Columns {
			annotations := ""
			if col.IsPrimaryKey {
				annotations = " PK"
			}
			if col.IsForeignKey || isRelationshipSource(t, col.Name) {
				annotations += " FK"
			}
			fmt.Fprintf(&sb, "        %s %s%s\n", simplifyDataType(col.Type), col.Name, annotations)
		}
		sb.WriteString("    }\n\n")
	}
	return sb.String()
}

func isRelationshipSource(t models.Table, column string) bool {
	for _, r := range t.Relationships {
		if r.FromColumn == column {
			return true
		}
	}
	return false
}

func simplifyDataType(t models.ColumnType) string {
	switch t {
	case models.ColumnTypeInteger:
		return "int"
	case models.ColumnTypeString:
		return "varchar"
	case models.ColumnTypeDateTime:
		return "datetime"
	case models.ColumnTypeFloat:
		return "double"
	default:
		return string(t)
	}
}

var _ codegen.Convention = (*Convention)(nil)
