package mermaid

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

func tables() []models.Table {
	rel := models.Relationship{FromTable: "posts", FromColumn: "author_id", ToTable: "users", ToColumn: "id", Type: models.ManyToOne}
	return []models.Table{
		{
			Name:    "users",
			Columns: []models.Column{{Name: "id", Type: models.ColumnTypeInteger, IsPrimaryKey: true}},
		},
		{
			Name: "posts",
			Columns: []models.Column{
				{Name: "id", Type: models.ColumnTypeInteger, IsPrimaryKey: true},
				{Name: "author_id", Type: models.ColumnTypeInteger},
				{Name: "title", Type: models.ColumnTypeString},
			},
			Relationships: []models.Relationship{rel, rel},
		},
	}
}

func TestGenerateFiles(t *testing.T) {
	c := New()
	require.True(t, c.Validate(tables()).Valid)

	files, err := c.GenerateFiles(tables(), c.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "schema.mmd", files[0].Name())
	assert.Equal(t, codegen.FileKindDiagram, files[0].Kind)

	out := files[0].Content
	assert.True(t, strings.HasPrefix(out, "erDiagram\n"))
	assert.Equal(t, 1, strings.Count(out, `POSTS }o--|| USERS : "author_id"`))
	assert.Contains(t, out, "        int id PK\n")
	assert.Contains(t, out, "        int author_id FK\n")
	assert.Contains(t, out, "        varchar title\n")
}

func TestGenerateFiles_LowerCase(t *testing.T) {
	c := New()
	files, err := c.GenerateFiles(tables(), c.DefaultConfig().Merge(codegen.Config{"uppercase": false}))
	require.NoError(t, err)
	assert.Contains(t, files[0].Content, "    posts {\n")
}

func TestGenerateFiles_Empty(t *testing.T) {
	c := New()
	files, err := c.GenerateFiles(nil, c.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "erDiagram\n", files[0].Content)
}

func TestValidate(t *testing.T) {
	c := New()
	result := c.Validate([]models.Table{
		{Name: ""},
		{Name: "bad name"},
		{
			Name:    "posts",
			Columns: []models.Column{{Name: "id"}, {Name: "author_id"}},
			Relationships: []models.Relationship{
				{FromTable: "users", FromColumn: "id", ToTable: "posts", ToColumn: "id"},
				{FromTable: "posts", FromColumn: "writer_id", ToTable: "users", ToColumn: "uuid"},
				{FromTable: "posts", FromColumn: "author_id", ToTable: "ghost", ToColumn: "id"},
			},
		},
		{Name: "users", Columns: []models.Column{{Name: "id"}}},
	})
	assert.False(t, result.Valid)
	assert.Equal(t, []string{
		"table #1: name is required",
		"table bad name: name cannot contain whitespace, braces or quotes",
		`table posts: relationship originates from table "users"`,
		`relationship posts.writer_id -> users.uuid: unknown column "writer_id"`,
		`relationship posts.writer_id -> users.uuid: unknown column "uuid"`,
		`relationship posts.author_id -> ghost.id: unknown table "ghost"`,
	}, result.Errors)
}

func TestValidateConfig(t *testing.T) {
	c := New()
	for _, name := range []string{"schema.mmd", "erd-v2.mmd", "blog_schema"} {
		assert.Empty(t, c.ValidateConfig(codegen.Config{"filename": name}), name)
	}
	for _, name := range []string{"../../evil.mmd", "/etc/passwd", "docs/schema.mmd", ".hidden", "..", ""} {
		assert.Len(t, c.ValidateConfig(codegen.Config{"filename": name}), 1, name)
	}
}

func TestRegistryIntegration_RejectsUnsafeFilename(t *testing.T) {
	reg, err := codegen.NewRegistry(New())
	require.NoError(t, err)

	files, err := reg.Generate("mermaid", tables(), codegen.Config{"filename": "../../evil.mmd"})
	assert.Nil(t, files)
	assert.True(t, errors.Is(err, codegen.ErrValidation))
}
