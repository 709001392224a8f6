// Package api provides HTTP handlers for the LearnScope API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learnscope/learnscope/internal/store"
	"github.com/learnscope/learnscope/internal/telemetry"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Handler provides common handler utilities.
type Handler struct {
	repo     store.Repository
	sessions *telemetry.SessionManager
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, sessions *telemetry.SessionManager) *Handler {
	return &Handler{
		repo:     repo,
		sessions: sessions,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a bounded request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON request body")
	}
	return nil
}
