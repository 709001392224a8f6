package domain

import (
	"time"
)

// Milestone is one dated entry on an IEP timeline.
type Milestone struct {
	Week  int       `json:"week"`
	Label string    `json:"label"`
	Due   time.Time `json:"due"`
}

// IEP is a structured Individualized Education Plan derived from student
// state. Pure function output: the core never persists it.
type IEP struct {
	StudentID         string      `json:"student_id"`
	StudentName       string      `json:"student_name"`
	GeneratedAt       time.Time   `json:"generated_at"`
	Strengths         []string    `json:"strengths"`
	Weaknesses        []string    `json:"weaknesses"`
	LearningStyle     string      `json:"learning_style"`
	Accommodations    []string    `json:"accommodations"`
	ShortTermGoals    []string    `json:"short_term_goals"`
	LongTermGoals     []string    `json:"long_term_goals"`
	RecommendedTools  []string    `json:"recommended_tools"`
	ProgressScore     int         `json:"progress_score"` // 0-100
	AccessibilityTips []string    `json:"accessibility_tips"`
	Timeline          []Milestone `json:"timeline"`
}

// WeeklyPlan is a week-scoped slice of an IEP.
type WeeklyPlan struct {
	Week      int        `json:"week"`
	Focus     string     `json:"focus,omitempty"`
	Goals     []string   `json:"goals,omitempty"`
	Tips      []string   `json:"tips,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"`
}

// Empty reports whether the plan carries no content for its week.
func (p *WeeklyPlan) Empty() bool {
	return p.Focus == "" && len(p.Goals) == 0 && p.Milestone == nil
}
