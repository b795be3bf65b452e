package yii2

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// phpReserved holds words PHP rejects as class names.
var phpReserved = map[string]bool{
	"abstract": true, "and": true, "array": true, "as": true, "break": true,
	"callable": true, "case": true, "catch": true, "class": true, "clone": true,
	"const": true, "continue": true, "declare": true, "default": true, "do": true,
	"echo": true, "else": true, "elseif": true, "empty": true, "enum": true,
	"extends": true, "final": true, "finally": true, "fn": true, "for": true,
	"foreach": true, "function": true, "global": true, "goto": true, "if": true,
	"implements": true, "include": true, "instanceof": true, "insteadof": true,
	"interface": true, "isset": true, "list": true, "match": true, "namespace": true,
	"new": true, "or": true, "print": true, "private": true, "protected": true,
	"public": true, "readonly": true, "require": true, "return": true, "static": true,
	"switch": true, "throw": true, "trait": true, "try": true, "unset": true,
	"use": true, "var": true, "while": true, "xor": true, "yield": true,
	"int": true, "float": true, "bool": true, "string": true, "true": true,
	"false": true, "null": true, "void": true, "iterable": true, "object": true,
	"mixed": true, "never": true,
}

// reservedAccessors holds the get/set suffixes the model template or
// yii\db\ActiveRecord already declares.
var reservedAccessors = map[string]bool{
	"Db": true, "TableSchema": true, "Attribute": true, "Attributes": true,
	"OldAttribute": true, "OldAttributes": true, "DirtyAttributes": true,
	"AttributeLabel": true, "AttributeHint": true, "Errors": true,
	"FirstError": true, "FirstErrors": true, "ErrorSummary": true,
	"Scenario": true, "PrimaryKey": true, "OldPrimaryKey": true,
	"IsNewRecord": true, "RelatedRecords": true, "Relation": true,
	"Behavior": true, "Behaviors": true, "Validators": true,
	"ActiveValidators": true, "Iterator": true,
}

// Validate checks the tables against what the Yii2 templates can render.
// Errors are reported in table order, then column order, then relationship order.
func (c *Convention) Validate(tables []models.Table) codegen.ValidationResult {
	var errs []string
	tableNames := make(map[string]bool, len(tables))
	classNames := make(map[string]string, len(tables))

	for i, t := range tables {
		label := t.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		switch {
		case t.Name == "":
			errs = append(errs, fmt.Sprintf("table %s: name is required", label))
		case !codegen.IsIdentifier(t.Name):
			errs = append(errs, fmt.Sprintf("table %s: name is not a valid identifier", label))
		case tableNames[t.Name]:
			errs = append(errs, fmt.Sprintf("table %s: duplicate table name", label))
		default:
			class := codegen.UpperCamel(t.Name)
			if phpReserved[strings.ToLower(class)] {
				errs = append(errs, fmt.Sprintf("table %s: class name %s is a reserved word", label, class))
			}
			if other, ok := classNames[class]; ok {
				errs = append(errs, fmt.Sprintf("table %s: class name %s collides with table %s", label, class, other))
			}
			classNames[class] = t.Name
		}
		tableNames[t.Name] = true

		if len(t.Columns) == 0 {
			errs = append(errs, fmt.Sprintf("table %s: must have at least one column", label))
			continue
		}
		if len(t.PrimaryKeys()) == 0 {
			errs = append(errs, fmt.Sprintf("table %s: must have a primary key column", label))
		}

		columnNames := make(map[string]bool, len(t.Columns))
		accessors := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			switch {
			case col.Name == "":
				errs = append(errs, fmt.Sprintf("table %s: column #%d has no name", label, j+1))
			case !codegen.IsIdentifier(col.Name):
				errs = append(errs, fmt.Sprintf("table %s: column %s is not a valid identifier", label, col.Name))
			case columnNames[col.Name]:
				errs = append(errs, fmt.Sprintf("table %s: duplicate column %s", label, col.Name))
			default:
				method := codegen.UpperCamel(col.Name)
				if reservedAccessors[method] {
					errs = append(errs, fmt.Sprintf("table %s: column %s accessor get%s is reserved by ActiveRecord", label, col.Name, method))
				} else if other, ok := accessors[method]; ok {
					errs = append(errs, fmt.Sprintf("table %s: column %s accessor get%s collides with column %s", label, col.Name, method, other))
				}
				accessors[method] = col.Name
			}
			columnNames[col.Name] = true
		}
	}

	for _, t := range tables {
		for _, r := range t.Relationships {
			errs = append(errs, codegen.RelationshipErrors(tables, t.Name, r)...)
		}
	}

	return codegen.NewValidationResult(errs)
}

var (
	migrationDatePattern = regexp.MustCompile(`^[0-9]{6}(_[0-9]{6})?$`)
	namespacePattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\\[A-Za-z_][A-Za-z0-9_]*)*$`)
	tablePrefixPattern   = regexp.MustCompile(`^[A-Za-z0-9_]*$`)
)

// ValidateConfig rejects option values that end up in file names or PHP code.
func (c *Convention) ValidateConfig(cfg codegen.Config) []string {
	var errs []string
	if v := cfg.String("migrationDate", ""); !migrationDatePattern.MatchString(v) {
		errs = append(errs, fmt.Sprintf("config migrationDate: %q must be yymmdd or yymmdd_hhmmss", v))
	}
	if v := cfg.String(codegen.ConfigNamespace, ""); !namespacePattern.MatchString(v) {
		errs = append(errs, fmt.Sprintf("config namespace: %q is not a PHP namespace", v))
	}
	if v := cfg.String("db", ""); !codegen.IsIdentifier(v) {
		errs = append(errs, fmt.Sprintf("config db: %q is not a valid component id", v))
	}
	if v := cfg.String("tablePrefix", ""); !tablePrefixPattern.MatchString(v) {
		errs = append(errs, fmt.Sprintf("config tablePrefix: %q may only contain letters, digits and underscores", v))
	}
	return errs
}
