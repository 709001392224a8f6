package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/learnscope/learnscope/internal/detect"
	"github.com/learnscope/learnscope/internal/identity"
	"github.com/learnscope/learnscope/internal/telemetry"
)

// LearningHandler exposes telemetry sessions, signal detection, and
// accommodation recommendations.
type LearningHandler struct {
	*Handler
	detector *detect.Detector
	history  *detect.HistoryStore
}

// NewLearningHandler creates a learning handler.
func NewLearningHandler(base *Handler, detector *detect.Detector, history *detect.HistoryStore) *LearningHandler {
	return &LearningHandler{
		Handler:  base,
		detector: detector,
		history:  history,
	}
}

// RegisterRoutes registers session, telemetry, and detection endpoints.
func (h *LearningHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/sessions/start", h.handleSessionStart)
	r.Post("/api/sessions/end", h.handleSessionEnd)

	r.Post("/api/telemetry/reading", h.handleReading)
	r.Post("/api/telemetry/quiz", h.handleQuizResult)
	r.Post("/api/telemetry/attention", h.handleAttentionLoss)
	r.Post("/api/telemetry/pause", h.handlePause)

	r.Post("/api/detect", h.handleDetect)
	r.Get("/api/detect/history", h.handleHistory)
	r.Get("/api/detect/indicators", h.handleIndicators)
	r.Get("/api/recommendations", h.handleRecommendations)
}

func (h *LearningHandler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	h.sessions.Start(userID, sessionID)
	if err := h.repo.UpdateLastSeen(r.Context(), userID, time.Now()); err != nil {
		slog.Warn("Failed to update last seen", "user_id", userID, "error", err)
	}

	JSON(w, http.StatusOK, map[string]string{
		"status":     "started",
		"session_id": sessionID,
	})
}

// handleSessionEnd finalizes the session: a last detection pass runs over the
// final metrics so signals gathered near the end are not lost.
func (h *LearningHandler) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	metrics, ok := h.sessions.End(userID, sessionID)
	if !ok {
		Error(w, http.StatusNotFound, "no active session")
		return
	}

	resp := map[string]interface{}{
		"status":  "ended",
		"signals": h.detector.Summarize(metrics),
	}
	if result, detected := h.detector.Analyze(metrics); detected {
		h.history.Append(userID, *result)
		resp["detection"] = result
	}
	JSON(w, http.StatusOK, resp)
}

// recorder fetches the active recorder, starting a session implicitly if
// telemetry arrives before an explicit start.
func (h *LearningHandler) recorder(r *http.Request) *telemetry.Recorder {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if rec := h.sessions.Get(userID, sessionID); rec != nil {
		return rec
	}
	return h.sessions.Start(userID, sessionID)
}

func (h *LearningHandler) handleReading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WordCount int   `json:"word_count"`
		ElapsedMs int64 `json:"elapsed_ms"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.recorder(r).RecordReading(req.WordCount, time.Duration(req.ElapsedMs)*time.Millisecond)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *LearningHandler) handleQuizResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score float64 `json:"score"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.recorder(r).RecordQuizResult(req.Score); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *LearningHandler) handleAttentionLoss(w http.ResponseWriter, r *http.Request) {
	h.recorder(r).RecordAttentionLoss()
	JSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *LearningHandler) handlePause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PauseMs int64 `json:"pause_ms"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.recorder(r).RecordPause(time.Duration(req.PauseMs) * time.Millisecond)
	JSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// handleDetect analyzes the current session's metrics without ending the
// session. "Nothing detected" is a valid 200 outcome, not an error.
func (h *LearningHandler) handleDetect(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	rec := h.sessions.Get(userID, sessionID)
	if rec == nil {
		Error(w, http.StatusNotFound, "no active session")
		return
	}

	metrics := rec.Snapshot()
	summary := h.detector.Summarize(metrics)

	result, detected := h.detector.Analyze(metrics)
	if !detected {
		JSON(w, http.StatusOK, map[string]interface{}{
			"detected": false,
			"signals":  summary,
		})
		return
	}

	h.history.Append(userID, *result)
	slog.Info("Learning difficulty signal detected",
		"user_id", userID,
		"condition", result.Condition,
		"confidence", result.Confidence)

	JSON(w, http.StatusOK, map[string]interface{}{
		"detected": true,
		"result":   result,
		"signals":  summary,
	})
}

func (h *LearningHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	history := h.history.History(userID)
	JSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}

func (h *LearningHandler) handleIndicators(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	indicators := h.history.Indicators(userID)
	if indicators == nil {
		JSON(w, http.StatusOK, map[string]interface{}{"indicators": nil})
		return
	}
	JSON(w, http.StatusOK, indicators)
}

func (h *LearningHandler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	condition := r.URL.Query().Get("condition")
	if condition == "" {
		Error(w, http.StatusBadRequest, "condition query parameter is required")
		return
	}

	recs := detect.RecommendationsForLabel(condition)
	if recs == nil {
		recs = []string{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"condition":       condition,
		"recommendations": recs,
	})
}
