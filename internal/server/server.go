package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen/mermaid"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen/postgres"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen/yii2"
	"github.com/utkirwork/draw-sql-sub001/internal/config"
	"github.com/utkirwork/draw-sql-sub001/internal/database"
	"github.com/utkirwork/draw-sql-sub001/internal/handlers"
	"github.com/utkirwork/draw-sql-sub001/internal/middlewares"
	"github.com/utkirwork/draw-sql-sub001/internal/repositories"
	"github.com/utkirwork/draw-sql-sub001/internal/routes"
	"github.com/utkirwork/draw-sql-sub001/internal/services"
)

// Server owns the HTTP server and the resources it must release on shutdown.
type Server struct {
	HTTP   *http.Server
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRegistry registers the built-in conventions. A non-empty templateDir
// replaces the embedded Yii2 templates.
func NewRegistry(templateDir string) (*codegen.Registry, error) {
	var (
		y   *yii2.Convention
		err error
	)
	if templateDir != "" {
		y, err = yii2.NewWithTemplates(os.DirFS(templateDir))
	} else {
		y, err = yii2.New()
	}
	if err != nil {
		return nil, err
	}
	return codegen.NewRegistry(y, mermaid.New(), postgres.New())
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(cfg *config.Config, logger *zap.Logger, diagramHandler *handlers.DiagramHandler, codegenHandler *handlers.CodegenHandler) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, []byte(cfg.Auth.AccessTokenSecret), diagramHandler, codegenHandler)
	return router
}

// New connects to the database, applies migrations and wires the dependency
// graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.Database.CanCreate() {
		if err := database.EnsureDatabaseExists(ctx, cfg.Database, logger); err != nil {
			return nil, err
		}
	}

	pool, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	registry, err := NewRegistry(cfg.Codegen.TemplateDir)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to register conventions: %w", err)
	}
	logger.Info("Registered code generation conventions", zap.Strings("conventions", registry.List()))

	// Dependency injection
	diagramRepo := repositories.NewDiagramRepository(pool)
	diagramService := services.NewDiagramService(diagramRepo, logger)
	codegenService := services.NewCodegenService(diagramService, registry, logger)
	diagramHandler := handlers.NewDiagramHandler(diagramService)
	codegenHandler := handlers.NewCodegenHandler(codegenService)

	router := NewRouter(cfg, logger, diagramHandler, codegenHandler)

	return &Server{
		HTTP: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		pool:   pool,
		logger: logger,
	}, nil
}

// Shutdown stops accepting requests and closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)
	s.pool.Close()
	s.logger.Info("Database connection pool closed")
	return err
}
