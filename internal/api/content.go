package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnscope/learnscope/internal/adapt"
	"github.com/learnscope/learnscope/internal/dialog"
	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/identity"
)

// ContentHandler exposes the generation-backed endpoints: content adaptation,
// tutor dialogue, and quiz generation.
type ContentHandler struct {
	*Handler
	engine    *adapt.Engine
	dialogLog dialog.Logger
	limiter   *RateLimiter
	aiEnabled bool
}

// NewContentHandler creates a content handler. When aiEnabled is false the
// endpoints respond 503 instead of calling the generator.
func NewContentHandler(base *Handler, engine *adapt.Engine, dialogLog dialog.Logger, limiter *RateLimiter, aiEnabled bool) *ContentHandler {
	return &ContentHandler{
		Handler:   base,
		engine:    engine,
		dialogLog: dialogLog,
		limiter:   limiter,
		aiEnabled: aiEnabled,
	}
}

// RegisterRoutes registers the generation endpoints.
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/content/adapt", h.handleAdapt)
	r.Post("/api/tutor/respond", h.handleTutor)
	r.Post("/api/quiz/generate", h.handleQuiz)
}

// gate enforces AI availability and the per-user rate limit. Returns false
// after writing the error response.
func (h *ContentHandler) gate(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.aiEnabled {
		Error(w, http.StatusServiceUnavailable, "AI features are disabled")
		return "", false
	}
	userID := identity.UserIDFromContext(r.Context())
	if !h.limiter.Allow(userID) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return "", false
	}
	return userID, true
}

// writeEngineError maps engine failures onto HTTP statuses. Input validation
// failures are the client's fault; generation failures are the collaborator's.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adapt.ErrMissingContent),
		errors.Is(err, adapt.ErrMissingProfile),
		errors.Is(err, adapt.ErrMissingTopic):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, adapt.ErrGenerationFailed):
		Error(w, http.StatusBadGateway, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *ContentHandler) handleAdapt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string                  `json:"content"`
		Profile *domain.LearningProfile `json:"profile"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	adapted, err := h.engine.AdaptContent(r.Context(), req.Content, req.Profile)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.dialogLog.Log(dialog.Event{
		UserID:    userID,
		SessionID: identity.SessionIDFromContext(r.Context()),
		Kind:      "adapt",
		Prompt:    req.Content,
		Response:  adapted,
		Mode:      string(req.Profile.EffectiveMode(domain.ModeStandard)),
	})

	JSON(w, http.StatusOK, map[string]string{"adapted": adapted})
}

func (h *ContentHandler) handleTutor(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		Message string                  `json:"message"`
		Profile *domain.LearningProfile `json:"profile"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.engine.TutorRespond(r.Context(), req.Message, req.Profile)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.dialogLog.Log(dialog.Event{
		UserID:    userID,
		SessionID: identity.SessionIDFromContext(r.Context()),
		Kind:      "tutor",
		Prompt:    req.Message,
		Response:  reply,
		Mode:      string(req.Profile.EffectiveMode(domain.ModeStandard)),
	})

	JSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *ContentHandler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		Topic   string                  `json:"topic"`
		Profile *domain.LearningProfile `json:"profile"`
		Count   int                     `json:"count"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	questions, err := h.engine.GenerateQuiz(r.Context(), req.Topic, req.Profile, req.Count)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.dialogLog.Log(dialog.Event{
		UserID:    userID,
		SessionID: identity.SessionIDFromContext(r.Context()),
		Kind:      "quiz",
		Prompt:    req.Topic,
		Response:  "", // structured payload, not logged verbatim
		Mode:      string(req.Profile.EffectiveMode(domain.ModeStandard)),
	})

	JSON(w, http.StatusOK, map[string]interface{}{
		"topic":     req.Topic,
		"questions": questions,
	})
}
