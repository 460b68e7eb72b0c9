package httpx

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/service"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Imports *service.ImportService
	DB      *sql.DB
	Cache   core.CacheRepository // Optional: surfaced in health checks
	Logger  *slog.Logger         // Optional: request logging
}

// NewRouter creates and configures the API router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	importHandlers := &ImportHandlers{Svc: services.Imports}
	healthHandlers := &HealthHandlers{DB: services.DB, Cache: services.Cache}

	registerImportRoutes(mux, importHandlers)
	mux.Handle("GET /health", http.HandlerFunc(healthHandlers.Health))
	mux.Handle("HEAD /health", http.HandlerFunc(healthHandlers.Health))

	return RequestLogger(services.Logger, mux)
}

func registerImportRoutes(mux *http.ServeMux, h *ImportHandlers) {
	owned := func(fn http.HandlerFunc) http.Handler { return RequireOwner(fn) }

	mux.Handle("POST /api/imports", owned(h.CreateImport))
	mux.Handle("GET /api/imports", owned(h.ListImports))
	mux.Handle("GET /api/imports/{id}", owned(h.GetImport))
	mux.Handle("POST /api/imports/{id}/uploaded", owned(h.ConfirmUpload))
	mux.Handle("GET /api/imports/{id}/preview", owned(h.GetPreview))
	mux.Handle("POST /api/imports/{id}/commit", owned(h.Commit))
}
