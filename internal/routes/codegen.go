package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/utkirwork/draw-sql-sub001/internal/handlers"
)

type CodegenRoutes struct {
	handler *handlers.CodegenHandler
}

func NewCodegenRoutes(handler *handlers.CodegenHandler) *CodegenRoutes {
	return &CodegenRoutes{handler: handler}
}

func (r *CodegenRoutes) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	codegen := router.Group("/codegen")
	codegen.Use(auth)
	{
		codegen.GET("/conventions", r.handler.ListConventions)
	}
}
