// Package postgres emits PostgreSQL DDL for a diagram.
package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

const Name = "postgres"

// maxIdentifierLength is PostgreSQL's NAMEDATALEN - 1.
const maxIdentifierLength = 63

type Convention struct{}

func New() *Convention {
	return &Convention{}
}

func (c *Convention) Info() codegen.Info {
	return codegen.Info{
		Name:        Name,
		Version:     "16",
		Description: "PostgreSQL CREATE TABLE script with foreign key constraints",
		FileKinds:   []codegen.FileKind{codegen.FileKindMigration},
		AlwaysEmits: []string{"schema.sql"},
	}
}

func (c *Convention) DefaultConfig() codegen.Config {
	return codegen.Config{
		codegen.ConfigDisplayName: "PostgreSQL",
		"schema":                  "public",
	}
}

func validIdentifier(name string) bool {
	return len(name) <= maxIdentifierLength && codegen.IsIdentifier(name)
}

func (c *Convention) Validate(tables []models.Table) codegen.ValidationResult {
	var errs []string
	seen := make(map[string]bool, len(tables))
	for i, t := range tables {
		if !validIdentifier(t.Name) {
			errs = append(errs, fmt.Sprintf("table #%d: invalid table name %q", i+1, t.Name))
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Sprintf("table %s: duplicate table name", t.Name))
		}
		seen[t.Name] = true

		if len(t.Columns) == 0 {
			errs = append(errs, fmt.Sprintf("table %s: at least one column is required", t.Name))
			continue
		}
		cols := make(map[string]bool, len(t.Columns))
		for j, col := range t.Columns {
			if !validIdentifier(col.Name) {
				errs = append(errs, fmt.Sprintf("table %s: invalid column name at index %d: %q", t.Name, j, col.Name))
				continue
			}
			if cols[col.Name] {
				errs = append(errs, fmt.Sprintf("table %s: duplicate column %s", t.Name, col.Name))
			}
			cols[col.Name] = true
		}
		for _, r := range t.Relationships {
			errs = append(errs, codegen.RelationshipErrors(tables, t.Name, r)...)
		}
	}
	return codegen.NewValidationResult(errs)
}

func (c *Convention) ValidateConfig(cfg codegen.Config) []string {
	if v := cfg.String("schema", ""); !validIdentifier(v) {
		return []string{fmt.Sprintf("config schema: invalid schema name %q", v)}
	}
	return nil
}

func (c *Convention) GenerateFiles(tables []models.Table, cfg codegen.Config) ([]codegen.GeneratedFile, error) {
	if errs := c.ValidateConfig(cfg); len(errs) > 0 {
		return nil, codegen.NewValidationError("Invalid configuration", errs...)
	}
	schema := cfg.String("schema", "public")

	var b strings.Builder
	fmt.Fprintf(&b, "-- %s schema\n\n", cfg.String(codegen.ConfigDisplayName, "PostgreSQL"))
	fmt.Fprintf(&b, "CREATE SCHEMA IF NOT EXISTS %s;\n", quote(schema))
	for _, t := range tables {
		b.WriteString("\n")
		writeCreateTable(&b, schema, t)
	}
	for _, t := range tables {
		for _, r := range t.Relationships {
			b.WriteString("\n")
			writeForeignKey(&b, schema, t.Name, r)
		}
	}

	return []codegen.GeneratedFile{{
		Filename: "schema.sql",
		Content:  b.String(),
		Kind:     codegen.FileKindMigration,
	}}, nil
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

func qualified(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

func writeCreateTable(b *strings.Builder, schema string, t models.Table) {
	pks := t.PrimaryKeys()
	identity := len(pks) == 1 && isIntegral(t.Columns, pks[0])

	defs := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		def := fmt.Sprintf("  %s %s", quote(col.Name), sqlType(col.Type))
		if col.IsPrimaryKey && identity {
			def += " GENERATED BY DEFAULT AS IDENTITY"
		}
		if col.IsPrimaryKey && len(pks) == 1 {
			def += " PRIMARY KEY"
		}
		if !col.IsNullable && !col.IsPrimaryKey {
			def += " NOT NULL"
		}
		if col.DefaultValue != nil && *col.DefaultValue != "" && !(col.IsPrimaryKey && identity) {
			def += " DEFAULT " + defaultLiteral(col.Type, *col.DefaultValue)
		}
		defs = append(defs, def)
	}
	if len(pks) > 1 {
		quoted := make([]string, len(pks))
		for i, pk := range pks {
			quoted[i] = quote(pk)
		}
		defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	fmt.Fprintf(b, "CREATE TABLE %s (\n%s\n);\n", qualified(schema, t.Name), strings.Join(defs, ",\n"))
	if t.Comment != "" {
		fmt.Fprintf(b, "COMMENT ON TABLE %s IS %s;\n", qualified(schema, t.Name), literal(t.Comment))
	}
}

func writeForeignKey(b *strings.Builder, schema, table string, r models.Relationship) {
	fmt.Fprintf(b, "ALTER TABLE %s\n  ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		qualified(schema, table),
		quote(fmt.Sprintf("fk_%s_%s", table, r.FromColumn)),
		quote(r.FromColumn),
		qualified(schema, r.ToTable),
		quote(r.ToColumn),
	)
	fmt.Fprintf(b, " ON DELETE %s ON UPDATE %s;\n", action(r.OnDelete), action(r.OnUpdate))
}

func action(a string) string {
	if a == "" {
		return models.DefaultReferentialAction
	}
	return strings.ToUpper(a)
}

func isIntegral(cols []models.Column, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			switch c.Type {
			case models.ColumnTypeInteger, models.ColumnTypeBigInt, models.ColumnTypeSmallInt:
				return true
			}
		}
	}
	return false
}

var sqlTypes = map[models.ColumnType]string{
	models.ColumnTypeInteger:   "INTEGER",
	models.ColumnTypeBigInt:    "BIGINT",
	models.ColumnTypeSmallInt:  "SMALLINT",
	models.ColumnTypeDecimal:   "NUMERIC(10, 2)",
	models.ColumnTypeFloat:     "DOUBLE PRECISION",
	models.ColumnTypeBoolean:   "BOOLEAN",
	models.ColumnTypeString:    "VARCHAR(255)",
	models.ColumnTypeText:      "TEXT",
	models.ColumnTypeDate:      "DATE",
	models.ColumnTypeDateTime:  "TIMESTAMP",
	models.ColumnTypeTimestamp: "TIMESTAMPTZ",
	models.ColumnTypeTime:      "TIME",
	models.ColumnTypeJSON:      "JSONB",
	models.ColumnTypeUUID:      "UUID",
	models.ColumnTypeBinary:    "BYTEA",
}

func sqlType(t models.ColumnType) string {
	if s, ok := sqlTypes[t]; ok {
		return s
	}
	return "TEXT"
}

func defaultLiteral(t models.ColumnType, value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP()", "NOW()":
		return "CURRENT_TIMESTAMP"
	case "NULL":
		return "NULL"
	}
	switch t {
	case models.ColumnTypeInteger, models.ColumnTypeBigInt, models.ColumnTypeSmallInt,
		models.ColumnTypeDecimal, models.ColumnTypeFloat:
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return value
		}
	case models.ColumnTypeBoolean:
		if b, err := strconv.ParseBool(value); err == nil {
			return strings.ToUpper(strconv.FormatBool(b))
		}
	}
	return literal(value)
}

func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var _ codegen.Convention = (*Convention)(nil)
