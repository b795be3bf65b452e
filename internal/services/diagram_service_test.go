package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utkirwork/draw-sql-sub001/internal/apperrors"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
)

func TestDiagramService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewDiagramService(newMemoryStore(), zap.NewNop())
	owner := uuid.New()

	created, err := svc.CreateDiagram(ctx, owner, CreateDiagramRequest{Name: "  blog  "})
	require.NoError(t, err)
	assert.Equal(t, "blog", created.Name)
	assert.Equal(t, map[string]any{"tables": []any{}}, created.Content)

	list, err := svc.ListDiagrams(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	name := "shop"
	updated, err := svc.UpdateDiagram(ctx, owner, created.ID, UpdateDiagramRequest{
		Name:    &name,
		Content: map[string]any{"tables": []any{map[string]any{"name": "orders"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "shop", updated.Name)

	got, err := svc.GetDiagram(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "shop", got.Name)

	require.NoError(t, svc.DeleteDiagram(ctx, owner, created.ID))
	_, err = svc.GetDiagram(ctx, owner, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDiagramService_ForeignDiagramIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewDiagramService(newMemoryStore(), zap.NewNop())

	created, err := svc.CreateDiagram(ctx, uuid.New(), CreateDiagramRequest{Name: "blog"})
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = svc.GetDiagram(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDiagram(ctx, stranger, created.ID), apperrors.ErrNotFound)
}

func TestDiagramService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewDiagramService(newMemoryStore(), zap.NewNop())
	owner := uuid.New()

	_, err := svc.CreateDiagram(ctx, owner, CreateDiagramRequest{Name: "   "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateDiagram(ctx, owner, CreateDiagramRequest{Name: "x", Content: map[string]any{"tables": "nope"}})
	assert.ErrorIs(t, err, codegen.ErrValidation)

	created, err := svc.CreateDiagram(ctx, owner, CreateDiagramRequest{Name: "x"})
	require.NoError(t, err)
	empty := ""
	_, err = svc.UpdateDiagram(ctx, owner, created.ID, UpdateDiagramRequest{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDiagramService_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errStoreDown
	svc := NewDiagramService(store, zap.NewNop())

	_, err := svc.CreateDiagram(context.Background(), uuid.New(), CreateDiagramRequest{Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}
