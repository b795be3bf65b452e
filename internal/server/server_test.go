package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utkirwork/draw-sql-sub001/internal/config"
	"github.com/utkirwork/draw-sql-sub001/internal/handlers"
	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry("")
	require.NoError(t, err)
	assert.Equal(t, []string{"mermaid", "postgres", "yii2"}, reg.List())
}

func TestNewRegistry_TemplateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md.tmpl"), []byte("custom {{ .Namespace }}"), 0o644))

	reg, err := NewRegistry(dir)
	require.NoError(t, err)

	files, err := reg.Generate("yii2", []models.Table{}, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "custom app", files[0].Content)
}

func TestNewRouter_RequiresAuth(t *testing.T) {
	cfg := &config.Config{
		Env:  "local",
		Auth: config.AuthConfig{AccessTokenSecret: "secret"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	router := NewRouter(cfg, zap.NewNop(), handlers.NewDiagramHandler(nil), handlers.NewCodegenHandler(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/codegen/conventions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
