package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/utkirwork/draw-sql-sub001/internal/handlers"
)

type DiagramRoutes struct {
	diagrams *handlers.DiagramHandler
	codegen  *handlers.CodegenHandler
}

func NewDiagramRoutes(diagrams *handlers.DiagramHandler, codegen *handlers.CodegenHandler) *DiagramRoutes {
	return &DiagramRoutes{diagrams: diagrams, codegen: codegen}
}

func (r *DiagramRoutes) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	diagrams := router.Group("/diagrams")
	diagrams.Use(auth) // All diagram routes require authentication
	{
		diagrams.POST("", r.diagrams.CreateDiagram)
		diagrams.GET("", r.diagrams.ListDiagrams)
		diagrams.GET("/:id", r.diagrams.GetDiagram)
		diagrams.PUT("/:id", r.diagrams.UpdateDiagram)
		diagrams.DELETE("/:id", r.diagrams.DeleteDiagram)

		diagrams.POST("/:id/generate", r.codegen.Generate)
		diagrams.POST("/:id/validate", r.codegen.Validate)
		diagrams.POST("/:id/preview", r.codegen.Preview)
	}
}
