package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/utkirwork/draw-sql-sub001/internal/middlewares"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
	"github.com/utkirwork/draw-sql-sub001/internal/responses"
	"github.com/utkirwork/draw-sql-sub001/internal/services"
)

// DiagramManager is the subset of services.DiagramService the handler uses.
type DiagramManager interface {
	CreateDiagram(ctx context.Context, userID uuid.UUID, req services.CreateDiagramRequest) (*models.Diagram, error)
	ListDiagrams(ctx context.Context, userID uuid.UUID) ([]models.Diagram, error)
	GetDiagram(ctx context.Context, userID, id uuid.UUID) (*models.Diagram, error)
	UpdateDiagram(ctx context.Context, userID, id uuid.UUID, req services.UpdateDiagramRequest) (*models.Diagram, error)
	DeleteDiagram(ctx context.Context, userID, id uuid.UUID) error
}

type DiagramHandler struct {
	diagrams DiagramManager
}

func NewDiagramHandler(diagrams DiagramManager) *DiagramHandler {
	return &DiagramHandler{diagrams: diagrams}
}

// CreateDiagram handles POST /api/v1/diagrams
func (h *DiagramHandler) CreateDiagram(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req services.CreateDiagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	diagram, err := h.diagrams.CreateDiagram(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to create diagram")
		return
	}
	responses.Success(c, http.StatusCreated, diagram, "Diagram created successfully")
}

// ListDiagrams handles GET /api/v1/diagrams
func (h *DiagramHandler) ListDiagrams(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	diagrams, err := h.diagrams.ListDiagrams(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to retrieve diagrams")
		return
	}
	responses.Success(c, http.StatusOK, diagrams, "Diagrams retrieved successfully")
}

// GetDiagram handles GET /api/v1/diagrams/:id
func (h *DiagramHandler) GetDiagram(c *gin.Context) {
	userID, id, ok := requestIDs(c)
	if !ok {
		return
	}

	diagram, err := h.diagrams.GetDiagram(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, err, "Failed to retrieve diagram")
		return
	}
	responses.Success(c, http.StatusOK, diagram, "Diagram retrieved successfully")
}

// UpdateDiagram handles PUT /api/v1/diagrams/:id
func (h *DiagramHandler) UpdateDiagram(c *gin.Context) {
	userID, id, ok := requestIDs(c)
	if !ok {
		return
	}

	var req services.UpdateDiagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	diagram, err := h.diagrams.UpdateDiagram(c.Request.Context(), userID, id, req)
	if err != nil {
		fail(c, err, "Failed to update diagram")
		return
	}
	responses.Success(c, http.StatusOK, diagram, "Diagram updated successfully")
}

// DeleteDiagram handles DELETE /api/v1/diagrams/:id
func (h *DiagramHandler) DeleteDiagram(c *gin.Context) {
	userID, id, ok := requestIDs(c)
	if !ok {
		return
	}

	if err := h.diagrams.DeleteDiagram(c.Request.Context(), userID, id); err != nil {
		fail(c, err, "Failed to delete diagram")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Diagram deleted successfully")
}
