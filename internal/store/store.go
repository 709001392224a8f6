// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/learnscope/learnscope/internal/domain"
)

// Repository defines the interface for persisting student learning data.
// The detection/adaptation core never writes through this interface; it reads
// StudentProfile snapshots assembled here.
type Repository interface {
	// GetStudent retrieves a student by ID. Returns (nil, nil) when absent.
	GetStudent(ctx context.Context, studentID string) (*domain.Student, error)

	// UpsertStudent creates or updates a student record.
	UpsertStudent(ctx context.Context, student *domain.Student) error

	// UpdateLastSeen updates the last_seen_at timestamp for a student.
	UpdateLastSeen(ctx context.Context, studentID string, lastSeen time.Time) error

	// AddPoints increments a student's accumulated points.
	AddPoints(ctx context.Context, studentID string, points int) error

	// AddStudyTime increments a student's accumulated study time.
	AddStudyTime(ctx context.Context, studentID string, minutes int) error

	// ListGoals returns all goals for a student, oldest first.
	ListGoals(ctx context.Context, studentID string) ([]domain.Goal, error)

	// UpsertGoal creates or updates a goal.
	UpsertGoal(ctx context.Context, goal *domain.Goal) error

	// CompleteGoal marks a goal completed.
	CompleteGoal(ctx context.Context, studentID, goalID string) error

	// RecordActivity appends one activity entry.
	RecordActivity(ctx context.Context, entry *domain.ActivityEntry) error

	// RecentActivity returns the most recent activity entries, newest first.
	RecentActivity(ctx context.Context, studentID string, limit int) ([]domain.ActivityEntry, error)

	// StudentProfile assembles the snapshot consumed by IEP synthesis.
	// Returns (nil, nil) when the student does not exist.
	StudentProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
