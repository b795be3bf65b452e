package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utkirwork/draw-sql-sub001/internal/handlers"
	"github.com/utkirwork/draw-sql-sub001/internal/middlewares"
)

func RegisterRoutes(router *gin.Engine, secret []byte, diagramHandler *handlers.DiagramHandler, codegenHandler *handlers.CodegenHandler) {
	api := router.Group("/api/v1")
	auth := middlewares.Authenticate(secret)

	diagramRoutes := NewDiagramRoutes(diagramHandler, codegenHandler)
	diagramRoutes.RegisterRoutes(api, auth)

	codegenRoutes := NewCodegenRoutes(codegenHandler)
	codegenRoutes.RegisterRoutes(api, auth)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
