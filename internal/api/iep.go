package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/learnscope/learnscope/internal/detect"
	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/identity"
	"github.com/learnscope/learnscope/internal/iep"
)

// IEPHandler exposes plan synthesis and export.
type IEPHandler struct {
	*Handler
	synth   *iep.Synthesizer
	history *detect.HistoryStore
}

// NewIEPHandler creates an IEP handler.
func NewIEPHandler(base *Handler, synth *iep.Synthesizer, history *detect.HistoryStore) *IEPHandler {
	return &IEPHandler{
		Handler: base,
		synth:   synth,
		history: history,
	}
}

// RegisterRoutes registers the IEP endpoints.
func (h *IEPHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/iep/generate", h.handleGenerate)
	r.Get("/api/iep/weekly", h.handleWeekly)
	r.Get("/api/iep/export", h.handleExport)
}

// synthesize assembles the student snapshot and indicators and produces the
// plan. Plans are derived on demand, never persisted.
func (h *IEPHandler) synthesize(r *http.Request, profile *domain.LearningProfile) (*domain.IEP, error) {
	userID := identity.UserIDFromContext(r.Context())

	student, err := h.repo.StudentProfile(r.Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("load student profile: %w", err)
	}
	if student == nil {
		return nil, nil
	}

	indicators := h.history.Indicators(userID)
	return h.synth.GenerateIEP(*student, indicators, profile), nil
}

func (h *IEPHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile *domain.LearningProfile `json:"profile"`
	}
	// An empty body is fine; the profile is optional.
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	doc, err := h.synthesize(r, req.Profile)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to generate plan")
		return
	}
	if doc == nil {
		Error(w, http.StatusNotFound, "student not found")
		return
	}
	JSON(w, http.StatusOK, doc)
}

func (h *IEPHandler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		Error(w, http.StatusBadRequest, "week must be a positive integer")
		return
	}

	doc, err := h.synthesize(r, nil)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to generate plan")
		return
	}
	if doc == nil {
		Error(w, http.StatusNotFound, "student not found")
		return
	}

	plan := h.synth.GenerateWeeklyPlan(doc, week)
	JSON(w, http.StatusOK, plan)
}

func (h *IEPHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.synthesize(r, nil)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to generate plan")
		return
	}
	if doc == nil {
		Error(w, http.StatusNotFound, "student not found")
		return
	}

	data, err := iep.Export(doc)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to export plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="iep.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
