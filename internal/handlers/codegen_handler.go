package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/responses"
	"github.com/utkirwork/draw-sql-sub001/internal/services"
)

// CodeGenerator is the subset of services.CodegenService the handler uses.
type CodeGenerator interface {
	ListConventions() []codegen.Info
	ValidateDiagram(ctx context.Context, userID, diagramID uuid.UUID, convention string) (codegen.ValidationResult, error)
	PreviewDiagram(ctx context.Context, userID, diagramID uuid.UUID, req services.GenerateRequest) ([]codegen.GeneratedFile, error)
	GenerateArchive(ctx context.Context, userID, diagramID uuid.UUID, req services.GenerateRequest) (*services.Archive, error)
}

type CodegenHandler struct {
	generator CodeGenerator
}

func NewCodegenHandler(generator CodeGenerator) *CodegenHandler {
	return &CodegenHandler{generator: generator}
}

// ListConventions handles GET /api/v1/codegen/conventions
func (h *CodegenHandler) ListConventions(c *gin.Context) {
	responses.Success(c, http.StatusOK, h.generator.ListConventions(), "Conventions retrieved successfully")
}

// Generate handles POST /api/v1/diagrams/:id/generate and streams the zip.
func (h *CodegenHandler) Generate(c *gin.Context) {
	userID, id, ok := requestIDs(c)
	if !ok {
		return
	}

	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	archive, err := h.generator.GenerateArchive(c.Request.Context(), userID, id, req)
	if err != nil {
		fail(c, err, "Failed to generate code")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Filename))
	c.Header("Content-Length", strconv.Itoa(len(archive.Data)))
	c.Data(http.StatusOK, "application/zip", archive.Data)
}

// Validate handles POST /api/v1/diagrams/:id/validate
func (h *CodegenHandler) Validate(c *gin.Context) {
	userID, id, ok := requestIDs(c)
	if !ok {
		return
	}

	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	result, err := h.generator.ValidateDiagram(c.Request.Context(), userID, id, req.Convention)
	if err != nil {
		fail(c, err, "Failed to validate diagram")
		return
	}
	message := "Diagram is valid"
	if !result.Valid {
		message = "Diagram has validation errors"
	}
	responses.Success(c, http.StatusOK, result, message)
}

// Preview handles POST /api/v1/diagrams/:id/preview
func (h *CodegenHandler) Preview(c *gin.Context) {
	userID, id, ok := requestIDs(c)
	if !ok {
		return
	}

	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	files, err := h.generator.PreviewDiagram(c.Request.Context(), userID, id, req)
	if err != nil {
		fail(c, err, "Failed to generate code")
		return
	}
	responses.Success(c, http.StatusOK, files, "Files generated successfully")
}
