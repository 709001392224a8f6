package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/identity"
)

// fakeRepo is an in-memory store.Repository for handler tests.
type fakeRepo struct {
	students map[string]*domain.Student
	goals    map[string][]domain.Goal
	activity map[string][]domain.ActivityEntry
	pingErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		students: make(map[string]*domain.Student),
		goals:    make(map[string][]domain.Goal),
		activity: make(map[string][]domain.ActivityEntry),
	}
}

func (f *fakeRepo) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	s, ok := f.students[studentID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) UpsertStudent(ctx context.Context, student *domain.Student) error {
	cp := *student
	f.students[student.StudentID] = &cp
	return nil
}

func (f *fakeRepo) UpdateLastSeen(ctx context.Context, studentID string, lastSeen time.Time) error {
	if s, ok := f.students[studentID]; ok {
		s.LastSeenAt = lastSeen
	}
	return nil
}

func (f *fakeRepo) AddPoints(ctx context.Context, studentID string, points int) error {
	if s, ok := f.students[studentID]; ok {
		s.Points += points
	}
	return nil
}

func (f *fakeRepo) AddStudyTime(ctx context.Context, studentID string, minutes int) error {
	if s, ok := f.students[studentID]; ok {
		s.TotalTimeMinutes += minutes
	}
	return nil
}

func (f *fakeRepo) ListGoals(ctx context.Context, studentID string) ([]domain.Goal, error) {
	return append([]domain.Goal(nil), f.goals[studentID]...), nil
}

func (f *fakeRepo) UpsertGoal(ctx context.Context, goal *domain.Goal) error {
	for i, g := range f.goals[goal.StudentID] {
		if g.ID == goal.ID {
			f.goals[goal.StudentID][i] = *goal
			return nil
		}
	}
	f.goals[goal.StudentID] = append(f.goals[goal.StudentID], *goal)
	return nil
}

func (f *fakeRepo) CompleteGoal(ctx context.Context, studentID, goalID string) error {
	for i, g := range f.goals[studentID] {
		if g.ID == goalID {
			f.goals[studentID][i].Completed = true
			return nil
		}
	}
	return errors.New("goal not found")
}

func (f *fakeRepo) RecordActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	f.activity[entry.StudentID] = append(f.activity[entry.StudentID], *entry)
	return nil
}

func (f *fakeRepo) RecentActivity(ctx context.Context, studentID string, limit int) ([]domain.ActivityEntry, error) {
	entries := f.activity[studentID]
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return append([]domain.ActivityEntry(nil), entries...), nil
}

func (f *fakeRepo) StudentProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	s, ok := f.students[studentID]
	if !ok {
		return nil, nil
	}
	return &domain.StudentProfile{
		StudentID:        s.StudentID,
		Name:             s.Name,
		Points:           s.Points,
		TotalTimeMinutes: s.TotalTimeMinutes,
		Goals:            append([]domain.Goal(nil), f.goals[studentID]...),
	}, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRepo) Close() error { return nil }

// request builds a test request carrying an identity context.
func request(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(identity.WithIdentity(r.Context(), "user-test", "default"))
}
