// Package handlers provides HTTP handlers for API endpoints.
package handlers

import (
	"net/http"
	"time"

	"github.com/asgard/webauthnd/internal/api/response"
	"github.com/asgard/webauthnd/internal/platform/db"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db *db.PostgresDB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pgDB *db.PostgresDB) *HealthHandler {
	return &HealthHandler{db: pgDB}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.db.Health(r.Context()); err != nil {
		status = "degraded"
	}
	response.Success(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "webauthnd",
		"version":   "1.0.0",
	})
}
