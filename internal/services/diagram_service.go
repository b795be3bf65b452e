package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utkirwork/draw-sql-sub001/internal/apperrors"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// DiagramStore persists diagrams. Lookups scoped by user return nil, nil when
// the row is missing or owned by someone else.
type DiagramStore interface {
	Create(ctx context.Context, diagram *models.Diagram) error
	GetByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Diagram, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Diagram, error)
	Update(ctx context.Context, diagram *models.Diagram) (bool, error)
	DeleteByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type DiagramService struct {
	store  DiagramStore
	logger *zap.Logger
}

func NewDiagramService(store DiagramStore, logger *zap.Logger) *DiagramService {
	return &DiagramService{store: store, logger: logger}
}

type CreateDiagramRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
}

// UpdateDiagramRequest changes only the fields that are present.
type UpdateDiagramRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
}

func (s *DiagramService) CreateDiagram(ctx context.Context, userID uuid.UUID, req CreateDiagramRequest) (*models.Diagram, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if req.Content != nil {
		if _, err := codegen.Normalize(req.Content); err != nil {
			return nil, err
		}
	}

	diagram := &models.Diagram{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		Content:     req.Content,
	}
	if err := s.store.Create(ctx, diagram); err != nil {
		s.logger.Error("Failed to create diagram", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to save diagram: %w", err)
	}
	return diagram, nil
}

func (s *DiagramService) ListDiagrams(ctx context.Context, userID uuid.UUID) ([]models.Diagram, error) {
	diagrams, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagrams: %w", err)
	}
	return diagrams, nil
}

// GetDiagram returns apperrors.ErrNotFound for missing and foreign diagrams alike.
func (s *DiagramService) GetDiagram(ctx context.Context, userID, id uuid.UUID) (*models.Diagram, error) {
	diagram, err := s.store.GetByIDAndUserID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get diagram: %w", err)
	}
	if diagram == nil {
		return nil, fmt.Errorf("diagram %s: %w", id, apperrors.ErrNotFound)
	}
	return diagram, nil
}

func (s *DiagramService) UpdateDiagram(ctx context.Context, userID, id uuid.UUID, req UpdateDiagramRequest) (*models.Diagram, error) {
	diagram, err := s.GetDiagram(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrInvalidInput)
		}
		diagram.Name = name
	}
	if req.Description != nil {
		diagram.Description = req.Description
	}
	if req.Content != nil {
		if _, err := codegen.Normalize(req.Content); err != nil {
			return nil, err
		}
		diagram.Content = req.Content
	}

	ok, err := s.store.Update(ctx, diagram)
	if err != nil {
		s.logger.Error("Failed to update diagram", zap.String("diagram_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update diagram: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("diagram %s: %w", id, apperrors.ErrNotFound)
	}
	return diagram, nil
}

func (s *DiagramService) DeleteDiagram(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.store.DeleteByIDAndUserID(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete diagram: %w", err)
	}
	if !ok {
		return fmt.Errorf("diagram %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
