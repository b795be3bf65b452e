package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
	"github.com/utkirwork/draw-sql-sub001/internal/utils"
)

// Archive is a packaged generation result ready to be downloaded.
type Archive struct {
	Filename string
	Data     []byte
}

// GenerateRequest selects a convention and optionally overrides its config.
type GenerateRequest struct {
	Convention string         `json:"convention" binding:"required"`
	Config     codegen.Config `json:"config,omitempty"`
}

type CodegenService struct {
	diagrams *DiagramService
	registry *codegen.Registry
	logger   *zap.Logger
	now      func() time.Time
}

func NewCodegenService(diagrams *DiagramService, registry *codegen.Registry, logger *zap.Logger) *CodegenService {
	return &CodegenService{
		diagrams: diagrams,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *CodegenService) ListConventions() []codegen.Info {
	return s.registry.Infos()
}

// loadTables fetches the diagram owned by userID and normalizes its content.
func (s *CodegenService) loadTables(ctx context.Context, userID, diagramID uuid.UUID) (*models.Diagram, []models.Table, error) {
	diagram, err := s.diagrams.GetDiagram(ctx, userID, diagramID)
	if err != nil {
		return nil, nil, err
	}
	tables, err := codegen.Normalize(diagram.Content)
	if err != nil {
		return nil, nil, err
	}
	return diagram, tables, nil
}

// ValidateDiagram runs the named convention's validator without generating.
func (s *CodegenService) ValidateDiagram(ctx context.Context, userID, diagramID uuid.UUID, convention string) (codegen.ValidationResult, error) {
	c, ok := s.registry.Get(convention)
	if !ok {
		return codegen.ValidationResult{}, &codegen.UnknownConventionError{Name: convention}
	}
	_, tables, err := s.loadTables(ctx, userID, diagramID)
	if err != nil {
		return codegen.ValidationResult{}, err
	}
	return s.registry.Validate(tables, c), nil
}

// PreviewDiagram generates the file set without packaging it.
func (s *CodegenService) PreviewDiagram(ctx context.Context, userID, diagramID uuid.UUID, req GenerateRequest) ([]codegen.GeneratedFile, error) {
	_, tables, err := s.loadTables(ctx, userID, diagramID)
	if err != nil {
		return nil, err
	}
	return s.registry.Generate(req.Convention, tables, req.Config)
}

// GenerateArchive generates the file set and packs it into a zip archive named
// {diagramName}_{conventionName}_{unixMillis}.zip.
func (s *CodegenService) GenerateArchive(ctx context.Context, userID, diagramID uuid.UUID, req GenerateRequest) (*Archive, error) {
	diagram, tables, err := s.loadTables(ctx, userID, diagramID)
	if err != nil {
		return nil, err
	}

	files, err := s.registry.Generate(req.Convention, tables, req.Config)
	if err != nil {
		return nil, err
	}

	data, err := codegen.Pack(files)
	if err != nil {
		s.logger.Error("Failed to pack archive",
			zap.String("diagram_id", diagramID.String()),
			zap.String("convention", req.Convention),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Generated archive",
		zap.String("diagram_id", diagramID.String()),
		zap.String("convention", req.Convention),
		zap.Int("tables", len(tables)),
		zap.Int("files", len(files)),
		zap.Int("bytes", len(data)),
	)

	return &Archive{
		Filename: fmt.Sprintf("%s_%s_%d.zip",
			utils.SanitizeFilename(diagram.Name, "diagram"),
			utils.SanitizeFilename(strings.ToLower(req.Convention), "convention"),
			s.now().UnixMilli(),
		),
		Data: data,
	}, nil
}
