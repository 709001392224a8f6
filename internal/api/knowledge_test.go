package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/learnscope/learnscope/internal/knowledge"
)

func TestKnowledgeHandler_AddListClear(t *testing.T) {
	h := NewKnowledgeHandler(knowledge.NewBase())

	w := httptest.NewRecorder()
	h.handleAddFact(w, request(http.MethodPost, "/api/knowledge/facts", `{"fact":"Fractions represent parts of a whole"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.handleListFacts(w, request(http.MethodGet, "/api/knowledge/facts", ""))
	got := decodeBody(t, w)
	if got["count"] != float64(1) {
		t.Errorf("Expected count 1, got %v", got["count"])
	}
	if facts, _ := got["facts"].(string); !strings.Contains(facts, "Fractions") {
		t.Errorf("Expected fact in listing, got %v", got["facts"])
	}

	w = httptest.NewRecorder()
	h.handleClear(w, request(http.MethodDelete, "/api/knowledge/facts", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.handleListFacts(w, request(http.MethodGet, "/api/knowledge/facts", ""))
	if got := decodeBody(t, w); got["count"] != float64(0) {
		t.Errorf("Expected empty base after clear, got %v", got["count"])
	}
}

func TestKnowledgeHandler_AddEmptyFact(t *testing.T) {
	h := NewKnowledgeHandler(knowledge.NewBase())

	w := httptest.NewRecorder()
	h.handleAddFact(w, request(http.MethodPost, "/api/knowledge/facts", `{"fact":"   "}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestKnowledgeHandler_Relevant(t *testing.T) {
	h := NewKnowledgeHandler(knowledge.NewBaseWithFacts(
		"Fractions represent parts of a whole",
		"The water cycle includes evaporation",
	))

	w := httptest.NewRecorder()
	h.handleRelevant(w, request(http.MethodGet, "/api/knowledge/relevant?q=fractions", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	got := decodeBody(t, w)
	facts, _ := got["facts"].(string)
	if !strings.Contains(facts, "Fractions") || strings.Contains(facts, "water") {
		t.Errorf("Expected filtered facts, got %q", facts)
	}
}

func TestKnowledgeHandler_RelevantMissingQuery(t *testing.T) {
	h := NewKnowledgeHandler(knowledge.NewBase())

	w := httptest.NewRecorder()
	h.handleRelevant(w, request(http.MethodGet, "/api/knowledge/relevant", ""))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
