package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

func strPtr(s string) *string { return &s }

func blog() []models.Table {
	return []models.Table{
		{
			Name: "users",
			Columns: []models.Column{
				{Name: "id", Type: models.ColumnTypeInteger, IsPrimaryKey: true},
				{Name: "email", Type: models.ColumnTypeString},
				{Name: "active", Type: models.ColumnTypeBoolean, DefaultValue: strPtr("1")},
				{Name: "created_at", Type: models.ColumnTypeTimestamp, DefaultValue: strPtr("now()")},
			},
		},
		{
			Name: "posts",
			Columns: []models.Column{
				{Name: "id", Type: models.ColumnTypeBigInt, IsPrimaryKey: true},
				{Name: "author_id", Type: models.ColumnTypeInteger},
				{Name: "title", Type: models.ColumnTypeString, IsNullable: true, DefaultValue: strPtr("it's")},
			},
			Relationships: []models.Relationship{{
				FromTable: "posts", FromColumn: "author_id", ToTable: "users", ToColumn: "id",
				Type: models.ManyToOne, OnDelete: "SET NULL", OnUpdate: "CASCADE",
			}},
		},
	}
}

func TestGenerateFiles(t *testing.T) {
	c := New()
	require.True(t, c.Validate(blog()).Valid)

	files, err := c.GenerateFiles(blog(), c.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "schema.sql", files[0].Name())

	sql := files[0].Content
	assert.Contains(t, sql, `CREATE SCHEMA IF NOT EXISTS "public";`)
	assert.Contains(t, sql, `CREATE TABLE "public"."users" (`)
	assert.Contains(t, sql, `  "id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,`)
	assert.Contains(t, sql, `  "email" VARCHAR(255) NOT NULL,`)
	assert.Contains(t, sql, `  "active" BOOLEAN NOT NULL DEFAULT TRUE,`)
	assert.Contains(t, sql, `  "created_at" TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP`)
	assert.Contains(t, sql, `  "title" VARCHAR(255) DEFAULT 'it''s'`)
	assert.Contains(t, sql, `ADD CONSTRAINT "fk_posts_author_id" FOREIGN KEY ("author_id") REFERENCES "public"."users" ("id") ON DELETE SET NULL ON UPDATE CASCADE;`)

	// constraints come after every table exists
	assert.Greater(t, strings.Index(sql, "ALTER TABLE"), strings.Index(sql, `CREATE TABLE "public"."posts"`))
}

func TestGenerateFiles_CompositeKey(t *testing.T) {
	tables := []models.Table{{
		Name: "post_tags",
		Columns: []models.Column{
			{Name: "post_id", Type: models.ColumnTypeInteger, IsPrimaryKey: true},
			{Name: "tag_id", Type: models.ColumnTypeInteger, IsPrimaryKey: true},
		},
	}}
	files, err := New().GenerateFiles(tables, codegen.Config{"schema": "blog"})
	require.NoError(t, err)

	sql := files[0].Content
	assert.Contains(t, sql, `CREATE TABLE "blog"."post_tags" (`)
	assert.Contains(t, sql, `  PRIMARY KEY ("post_id", "tag_id")`)
	assert.NotContains(t, sql, "IDENTITY")
}

func TestGenerateFiles_InvalidSchema(t *testing.T) {
	_, err := New().GenerateFiles(blog(), codegen.Config{"schema": "bad schema"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, codegen.ErrValidation))

	reg, err := codegen.NewRegistry(New())
	require.NoError(t, err)
	_, err = reg.Generate("postgres", blog(), codegen.Config{"schema": `public"; DROP TABLE users; --`})
	require.Error(t, err)
	assert.True(t, errors.Is(err, codegen.ErrValidation))
	assert.Contains(t, err.Error(), "config schema")
}

func TestGenerateFiles_DefaultActions(t *testing.T) {
	tables := blog()
	tables[1].Relationships[0].OnDelete = ""
	tables[1].Relationships[0].OnUpdate = ""

	files, err := New().GenerateFiles(tables, New().DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, files[0].Content, `REFERENCES "public"."users" ("id") ON DELETE CASCADE ON UPDATE CASCADE;`)
}

func TestValidate(t *testing.T) {
	result := New().Validate([]models.Table{
		{Name: strings.Repeat("a", 64), Columns: []models.Column{{Name: "id"}}},
		{Name: "empty"},
		{
			Name:          "posts",
			Columns:       []models.Column{{Name: "id"}, {Name: "id"}},
			Relationships: []models.Relationship{{FromTable: "posts", FromColumn: "id", ToTable: "ghost", ToColumn: "id"}},
		},
	})
	assert.False(t, result.Valid)
	assert.Equal(t, []string{
		`table #1: invalid table name "` + strings.Repeat("a", 64) + `"`,
		"table empty: at least one column is required",
		"table posts: duplicate column id",
		`relationship posts.id -> ghost.id: unknown table "ghost"`,
	}, result.Errors)
}

func TestValidate_Relationships(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.Relationship)
		errs   []string
	}{
		{
			name:   "valid",
			mutate: func(r *models.Relationship) {},
		},
		{
			name:   "owned by another table",
			mutate: func(r *models.Relationship) { r.FromTable = "users" },
			errs:   []string{`table posts: relationship originates from table "users"`},
		},
		{
			name:   "unknown columns",
			mutate: func(r *models.Relationship) { r.FromColumn = "writer_id"; r.ToColumn = "uuid" },
			errs: []string{
				`relationship posts.writer_id -> users.uuid: unknown column "writer_id"`,
				`relationship posts.writer_id -> users.uuid: unknown column "uuid"`,
			},
		},
		{
			name: "injected actions",
			mutate: func(r *models.Relationship) {
				r.OnDelete = "CASCADE; DROP TABLE USERS; --"
				r.OnUpdate = "X'); SYSTEM('ID'); //"
			},
			errs: []string{
				`relationship posts.author_id -> users.id: invalid onDelete action "CASCADE; DROP TABLE USERS; --"`,
				`relationship posts.author_id -> users.id: invalid onUpdate action "X'); SYSTEM('ID'); //"`,
			},
		},
		{
			name:   "all standard actions",
			mutate: func(r *models.Relationship) { r.OnDelete = "SET DEFAULT"; r.OnUpdate = "RESTRICT" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := blog()
			tt.mutate(&tables[1].Relationships[0])
			result := New().Validate(tables)
			if len(tt.errs) == 0 {
				assert.True(t, result.Valid, "unexpected errors: %v", result.Errors)
				return
			}
			assert.Equal(t, tt.errs, result.Errors)
		})
	}
}
