package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnscope/learnscope/internal/store"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	repo      store.Repository
	aiEnabled bool
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(repo store.Repository, aiEnabled bool) *HealthHandler {
	return &HealthHandler{repo: repo, aiEnabled: aiEnabled}
}

// RegisterHealth registers the health endpoint.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	overall := "ok"
	database := "up"
	status := http.StatusOK
	if err := h.repo.Ping(r.Context()); err != nil {
		overall = "degraded"
		database = "down"
		status = http.StatusServiceUnavailable
	}

	JSON(w, status, map[string]interface{}{
		"status":     overall,
		"database":   database,
		"ai_enabled": h.aiEnabled,
	})
}
