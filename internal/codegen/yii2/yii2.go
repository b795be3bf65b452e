// Package yii2 generates Yii2 ActiveRecord scaffolding from diagram tables.
package yii2

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// Name is the registry key of this convention.
const Name = "yii2"

//go:embed convention.yaml
var manifestYAML []byte

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

type manifest struct {
	codegen.Info `yaml:",inline"`
	Defaults     map[string]any `yaml:"defaults"`
}

// Convention implements codegen.Convention for Yii2.
type Convention struct {
	info      codegen.Info
	defaults  codegen.Config
	templates *codegen.TemplateCache
}

// New creates the convention with its built-in templates.
func New() (*Convention, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("yii2: open embedded templates: %w", err)
	}
	return NewWithTemplates(sub)
}

// NewWithTemplates creates the convention reading templates from src, which must
// contain the same file names as the embedded set.
func NewWithTemplates(src fs.FS) (*Convention, error) {
	var m manifest
	if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
		return nil, fmt.Errorf("yii2: parse manifest: %w", err)
	}
	return &Convention{
		info:      m.Info,
		defaults:  codegen.Config(m.Defaults),
		templates: codegen.NewTemplateCache(src, nil),
	}, nil
}

func (c *Convention) Info() codegen.Info {
	info := c.info
	info.FileKinds = append([]codegen.FileKind(nil), c.info.FileKinds...)
	info.AlwaysEmits = append([]string(nil), c.info.AlwaysEmits...)
	return info
}

// DefaultConfig returns a fresh copy of the manifest defaults.
func (c *Convention) DefaultConfig() codegen.Config {
	return codegen.Config{}.Merge(c.defaults)
}

type fileSpec struct {
	kind     codegen.FileKind
	template string
	path     string
	filename func(v *entityView) string
}

var tableFiles = []fileSpec{
	{codegen.FileKindModel, "model.php.tmpl", "models", func(v *entityView) string { return v.Class + ".php" }},
	{codegen.FileKindQuery, "query.php.tmpl", "models", func(v *entityView) string { return v.Class + "Query.php" }},
	{codegen.FileKindRelation, "relations.php.tmpl", "models/traits", func(v *entityView) string { return v.Class + "Relations.php" }},
	{codegen.FileKindMigration, "migration.php.tmpl", "migrations", func(v *entityView) string { return v.MigrationClass + ".php" }},
	{codegen.FileKindCreateDTO, "dto_create.php.tmpl", "dto", func(v *entityView) string { return "Create" + v.Class + "Dto.php" }},
	{codegen.FileKindUpdateDTO, "dto_update.php.tmpl", "dto", func(v *entityView) string { return "Update" + v.Class + "Dto.php" }},
	{codegen.FileKindService, "service.php.tmpl", "services", func(v *entityView) string { return v.Class + "Service.php" }},
}

// GenerateFiles renders every per-table file followed by the README.
func (c *Convention) GenerateFiles(tables []models.Table, cfg codegen.Config) ([]codegen.GeneratedFile, error) {
	files := make([]codegen.GeneratedFile, 0, len(tables)*len(tableFiles)+1)
	views := make([]*entityView, 0, len(tables))

	for i, t := range tables {
		v := newEntityView(t, i, tables, cfg)
		views = append(views, v)
		for _, spec := range tableFiles {
			content, err := c.templates.Render(spec.template, v)
			if err != nil {
				return nil, fmt.Errorf("render %s for table %s: %w", spec.kind, t.Name, err)
			}
			files = append(files, codegen.GeneratedFile{
				Path:     spec.path,
				Filename: spec.filename(v),
				Content:  content,
				Kind:     spec.kind,
			})
		}
	}

	readme, err := c.templates.Render("readme.md.tmpl", readmeView{
		DisplayName: cfg.String(codegen.ConfigDisplayName, "Yii2"),
		Version:     cfg.String(codegen.ConfigVersion, c.info.Version),
		Namespace:   cfg.String(codegen.ConfigNamespace, "app"),
		Entities:    views,
	})
	if err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}
	files = append(files, codegen.GeneratedFile{
		Filename: "README.md",
		Content:  readme,
		Kind:     codegen.FileKindReadme,
	})
	return files, nil
}

var _ codegen.Convention = (*Convention)(nil)
