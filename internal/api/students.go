package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/identity"
)

const defaultActivityLimit = 20

// StudentHandler exposes student state, goals, and activity tracking.
type StudentHandler struct {
	*Handler
}

// NewStudentHandler creates a student handler.
func NewStudentHandler(base *Handler) *StudentHandler {
	return &StudentHandler{Handler: base}
}

// RegisterRoutes registers the student endpoints.
func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/students/me", h.handleMe)
	r.Get("/api/students/me/profile", h.handleProfile)
	r.Post("/api/students/points", h.handleAddPoints)

	r.Get("/api/goals", h.handleListGoals)
	r.Post("/api/goals", h.handleCreateGoal)
	r.Post("/api/goals/{goalID}/complete", h.handleCompleteGoal)

	r.Get("/api/activity", h.handleRecentActivity)
	r.Post("/api/activity", h.handleRecordActivity)
}

func (h *StudentHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	student, err := h.repo.GetStudent(r.Context(), userID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load student")
		return
	}
	if student == nil {
		Error(w, http.StatusNotFound, "student not found")
		return
	}
	JSON(w, http.StatusOK, student)
}

func (h *StudentHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	profile, err := h.repo.StudentProfile(r.Context(), userID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		Error(w, http.StatusNotFound, "student not found")
		return
	}
	JSON(w, http.StatusOK, profile)
}

func (h *StudentHandler) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points int `json:"points"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Points <= 0 {
		Error(w, http.StatusBadRequest, "points must be positive")
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	if err := h.repo.AddPoints(r.Context(), userID, req.Points); err != nil {
		Error(w, http.StatusInternalServerError, "failed to add points")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StudentHandler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	goals, err := h.repo.ListGoals(r.Context(), userID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

func (h *StudentHandler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		Error(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	now := time.Now()
	goal := &domain.Goal{
		ID:        uuid.NewString(),
		StudentID: identity.UserIDFromContext(r.Context()),
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.UpsertGoal(r.Context(), goal); err != nil {
		Error(w, http.StatusInternalServerError, "failed to create goal")
		return
	}
	JSON(w, http.StatusCreated, goal)
}

func (h *StudentHandler) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	userID := identity.UserIDFromContext(r.Context())

	if err := h.repo.CompleteGoal(r.Context(), userID, goalID); err != nil {
		slog.Warn("Failed to complete goal", "user_id", userID, "goal_id", goalID, "error", err)
		Error(w, http.StatusNotFound, "goal not found")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (h *StudentHandler) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	userID := identity.UserIDFromContext(r.Context())
	entries, err := h.repo.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list activity")
		return
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

// handleRecordActivity appends an activity entry and credits its study time
// toward the student's accumulated total.
func (h *StudentHandler) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind            string `json:"kind"`
		Detail          string `json:"detail"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Kind) == "" {
		Error(w, http.StatusBadRequest, "kind cannot be empty")
		return
	}
	if req.DurationMinutes < 0 {
		Error(w, http.StatusBadRequest, "duration_minutes cannot be negative")
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	entry := &domain.ActivityEntry{
		ID:              uuid.NewString(),
		StudentID:       userID,
		Kind:            strings.TrimSpace(req.Kind),
		Detail:          req.Detail,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       time.Now(),
	}
	if err := h.repo.RecordActivity(r.Context(), entry); err != nil {
		Error(w, http.StatusInternalServerError, "failed to record activity")
		return
	}

	if req.DurationMinutes > 0 {
		if err := h.repo.AddStudyTime(r.Context(), userID, req.DurationMinutes); err != nil {
			slog.Warn("Failed to credit study time", "user_id", userID, "error", err)
		}
	}
	JSON(w, http.StatusCreated, entry)
}
