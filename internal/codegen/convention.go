// Package codegen turns a diagram's tables into framework-specific source files
// and packages them into a zip archive.
package codegen

import (
	"fmt"
	"path"

	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// FileKind names one category of generated file.
type FileKind string

const (
	FileKindModel     FileKind = "model"
	FileKindMigration FileKind = "migration"
	FileKindCreateDTO FileKind = "dto_create"
	FileKindUpdateDTO FileKind = "dto_update"
	FileKindService   FileKind = "service"
	FileKindQuery     FileKind = "query"
	FileKindRelation  FileKind = "relation"
	FileKindDiagram   FileKind = "diagram"
	FileKindReadme    FileKind = "readme"
)

// GeneratedFile is one output unit of a convention.
type GeneratedFile struct {
	Path     string   `json:"path"`
	Filename string   `json:"filename"`
	Content  string   `json:"content"`
	Kind     FileKind `json:"kind"`
}

// Name returns the archive entry name of the file.
func (f GeneratedFile) Name() string {
	if f.Path == "" || f.Path == "." {
		return f.Filename
	}
	return path.Join(f.Path, f.Filename)
}

// Recognised Config keys. Any other key is convention specific.
const (
	ConfigNamespace   = "namespace"
	ConfigDisplayName = "displayName"
	ConfigVersion     = "version"
)

// Config is a convention's option set.
type Config map[string]any

// Merge returns a copy of c with every key present in override replacing the
// default verbatim. Keys missing from override keep their default.
func (c Config) Merge(override Config) Config {
	out := make(Config, len(c)+len(override))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// String returns the value under key formatted as a string, or fallback when
// the key is absent or nil.
func (c Config) String(key, fallback string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Info describes a registered convention.
type Info struct {
	Name        string     `json:"name" yaml:"name"`
	Version     string     `json:"version" yaml:"version"`
	Description string     `json:"description" yaml:"description"`
	FileKinds   []FileKind `json:"file_kinds" yaml:"file_kinds"`
	AlwaysEmits []string   `json:"always_emits,omitempty" yaml:"always_emits"`
}

// ValidationResult is the outcome of Convention.Validate.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// NewValidationResult builds a result from an error list; no errors means valid.
func NewValidationResult(errs []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Convention maps a canonical diagram model onto one target ecosystem's files.
type Convention interface {
	Info() Info
	DefaultConfig() Config
	Validate(tables []models.Table) ValidationResult
	GenerateFiles(tables []models.Table, cfg Config) ([]GeneratedFile, error)
}

// ConfigValidator is implemented by conventions whose options reach file names
// or generated code. Registry.Generate rejects the effective config when it
// reports any error.
type ConfigValidator interface {
	ValidateConfig(cfg Config) []string
}
