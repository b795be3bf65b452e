package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utkirwork/draw-sql-sub001/internal/apperrors"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen/mermaid"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen/yii2"
)

func blogContent() map[string]any {
	return map[string]any{"tables": []any{
		map[string]any{
			"name": "users",
			"columns": []any{
				map[string]any{"name": "id", "type": "integer", "isPrimaryKey": true, "isNullable": false},
				map[string]any{"name": "email", "type": "varchar", "isNullable": false},
			},
		},
		map[string]any{
			"name": "posts",
			"columns": []any{
				map[string]any{"name": "id", "type": "integer", "isPrimaryKey": true, "isNullable": false},
				map[string]any{"name": "author_id", "type": "integer", "isForeignKey": true, "isNullable": false},
			},
			"relationships": []any{
				map[string]any{"fromColumn": "author_id", "toTable": "users", "toColumn": "id"},
			},
		},
	}}
}

type fixture struct {
	svc     *CodegenService
	owner   uuid.UUID
	diagram uuid.UUID
}

func newFixture(t *testing.T, name string, content map[string]any) fixture {
	t.Helper()
	y, err := yii2.New()
	require.NoError(t, err)
	reg, err := codegen.NewRegistry(y, mermaid.New())
	require.NoError(t, err)

	diagrams := NewDiagramService(newMemoryStore(), zap.NewNop())
	owner := uuid.New()
	d, err := diagrams.CreateDiagram(context.Background(), owner, CreateDiagramRequest{Name: name, Content: content})
	require.NoError(t, err)

	svc := NewCodegenService(diagrams, reg, zap.NewNop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return fixture{svc: svc, owner: owner, diagram: d.ID}
}

func TestCodegenService_ListConventions(t *testing.T) {
	f := newFixture(t, "blog", blogContent())
	infos := f.svc.ListConventions()
	require.Len(t, infos, 2)
	assert.Equal(t, "mermaid", infos[0].Name)
	assert.Equal(t, "yii2", infos[1].Name)
}

func TestCodegenService_GenerateArchive(t *testing.T) {
	f := newFixture(t, "My Blog", blogContent())

	archive, err := f.svc.GenerateArchive(context.Background(), f.owner, f.diagram, GenerateRequest{Convention: "Yii2"})
	require.NoError(t, err)
	assert.Equal(t, "My_Blog_yii2_1700000000123.zip", archive.Filename)

	zr, err := zip.NewReader(bytes.NewReader(archive.Data), int64(len(archive.Data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, zf := range zr.File {
		names = append(names, zf.Name)
	}
	assert.Len(t, names, 15)
	assert.Contains(t, names, "models/traits/PostsRelations.php")
	assert.Contains(t, names, "README.md")

	again, err := f.svc.GenerateArchive(context.Background(), f.owner, f.diagram, GenerateRequest{Convention: "yii2"})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(archive.Data, again.Data))
}

func TestCodegenService_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "blog", blogContent())

	_, err := f.svc.GenerateArchive(ctx, f.owner, f.diagram, GenerateRequest{Convention: "cobol"})
	assert.ErrorIs(t, err, codegen.ErrUnknownConvention)

	_, err = f.svc.GenerateArchive(ctx, uuid.New(), f.diagram, GenerateRequest{Convention: "yii2"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.ValidateDiagram(ctx, f.owner, f.diagram, "cobol")
	assert.ErrorIs(t, err, codegen.ErrUnknownConvention)
}

func TestCodegenService_InvalidDiagram(t *testing.T) {
	ctx := context.Background()
	content := map[string]any{"tables": []any{map[string]any{"name": "empty"}}}
	f := newFixture(t, "broken", content)

	result, err := f.svc.ValidateDiagram(ctx, f.owner, f.diagram, "yii2")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"table empty: must have at least one column"}, result.Errors)

	_, err = f.svc.GenerateArchive(ctx, f.owner, f.diagram, GenerateRequest{Convention: "yii2"})
	require.ErrorIs(t, err, codegen.ErrValidation)
	assert.Equal(t, "Diagram validation failed: table empty: must have at least one column", err.Error())
}

func TestCodegenService_Preview(t *testing.T) {
	f := newFixture(t, "blog", blogContent())

	files, err := f.svc.PreviewDiagram(context.Background(), f.owner, f.diagram, GenerateRequest{Convention: "mermaid"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Content, `POSTS ||--o{ USERS : "author_id"`)
}
