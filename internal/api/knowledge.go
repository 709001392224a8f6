package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/learnscope/learnscope/internal/knowledge"
)

// KnowledgeHandler manages the shared fact store that grounds generation.
type KnowledgeHandler struct {
	kb *knowledge.Base
}

// NewKnowledgeHandler creates a knowledge handler.
func NewKnowledgeHandler(kb *knowledge.Base) *KnowledgeHandler {
	return &KnowledgeHandler{kb: kb}
}

// RegisterRoutes registers the knowledge base endpoints.
func (h *KnowledgeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/knowledge/facts", h.handleAddFact)
	r.Get("/api/knowledge/facts", h.handleListFacts)
	r.Get("/api/knowledge/relevant", h.handleRelevant)
	r.Delete("/api/knowledge/facts", h.handleClear)
}

func (h *KnowledgeHandler) handleAddFact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fact string `json:"fact"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Fact) == "" {
		Error(w, http.StatusBadRequest, "fact cannot be empty")
		return
	}

	h.kb.Add(req.Fact)
	JSON(w, http.StatusCreated, map[string]interface{}{
		"status": "added",
		"count":  h.kb.Len(),
	})
}

func (h *KnowledgeHandler) handleListFacts(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"facts": h.kb.All(),
		"count": h.kb.Len(),
	})
}

func (h *KnowledgeHandler) handleRelevant(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		Error(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"query": query,
		"facts": h.kb.Relevant(query),
	})
}

func (h *KnowledgeHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.kb.Clear()
	JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
