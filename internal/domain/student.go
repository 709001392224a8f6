// Package domain contains core domain types for the LearnScope application.
package domain

import (
	"time"
)

// Student represents a learner in the system with their accumulated state.
type Student struct {
	StudentID        string    `json:"student_id"`
	Name             string    `json:"name"`
	Points           int       `json:"points"`
	TotalTimeMinutes int       `json:"total_time_minutes"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Goal represents a learning goal owned by a student.
type Goal struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityEntry records one completed learning activity.
type ActivityEntry struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	Kind            string    `json:"kind"`
	Detail          string    `json:"detail,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// StudentProfile is the snapshot of student state the IEP synthesizer reads.
// The persistence layer owns the canonical records; this is a read-only view.
type StudentProfile struct {
	StudentID        string          `json:"student_id"`
	Name             string          `json:"name"`
	Points           int             `json:"points"`
	TotalTimeMinutes int             `json:"total_time_minutes"`
	Goals            []Goal          `json:"goals"`
	RecentActivity   []ActivityEntry `json:"recent_activity,omitempty"`
}

// IncompleteGoals returns the student's goals that are not yet completed.
func (p *StudentProfile) IncompleteGoals() []Goal {
	var out []Goal
	for _, g := range p.Goals {
		if !g.Completed {
			out = append(out, g)
		}
	}
	return out
}

// CompletedGoalCount returns the number of completed goals.
func (p *StudentProfile) CompletedGoalCount() int {
	n := 0
	for _, g := range p.Goals {
		if g.Completed {
			n++
		}
	}
	return n
}
