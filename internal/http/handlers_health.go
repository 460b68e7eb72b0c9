package httpx

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/drivelot/inventory-api/internal/core"
)

// HealthHandlers reports process liveness and dependency health.
type HealthHandlers struct {
	DB    *sql.DB
	Cache core.CacheRepository // Optional
}

// Health answers liveness probes with per-dependency status. The process is
// unhealthy only when the database is unreachable; the cache is advisory.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	if h.Cache != nil {
		if err := h.Cache.Health(ctx); err != nil {
			checks["cache"] = "unreachable"
		} else {
			checks["cache"] = "ok"
		}
	}

	WriteJSON(w, status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
