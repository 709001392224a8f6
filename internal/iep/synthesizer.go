// Package iep assembles Individualized Education Plans from student state.
// Plans are built by small deterministic rules over accumulated data, not by
// free text generation.
package iep

import (
	"fmt"
	"time"

	"github.com/learnscope/learnscope/internal/detect"
	"github.com/learnscope/learnscope/internal/domain"
)

// Rule thresholds for strength/weakness claims.
const (
	consistentTimeMinutes  = 60  // total study time that counts as consistency
	highPointsThreshold    = 500 // accumulated points that count as drive
	completedGoalsForClaim = 3
	incompleteGoalsLimit   = 3
	timelineWeeks          = 8
	pointsPerProgressPoint = 10
)

var longTermGoalCatalog = []string{
	"Improve reading comprehension to grade level",
	"Build independent study habits",
	"Sustain attention across a full lesson without breaks",
}

var baseAccommodations = []string{
	"Extended time on assessments",
	"Instructions presented in multiple formats",
}

var milestoneCatalog = [timelineWeeks]string{
	"Baseline assessment and goal review",
	"Introduce adapted learning materials",
	"First comprehension checkpoint",
	"Adjust pacing based on early signals",
	"Midpoint progress review",
	"Increase task independence",
	"Consolidation and spaced review",
	"Final review and next-plan handoff",
}

var toolsByMode = map[domain.Mode][]string{
	domain.ModeVisual:     {"Mind-mapping app", "Diagram-first lesson viewer", "Progress tracker with visual streaks"},
	domain.ModeAudio:      {"Text-to-speech reader", "Audiobook library", "Recorded lesson summaries"},
	domain.ModeSimplified: {"Chunked reading app", "Guided step-by-step worksheets", "Simplified glossary"},
	domain.ModeStandard:   {"Interactive lesson player", "Practice quiz bank"},
}

var tipsByMode = map[domain.Mode][]string{
	domain.ModeVisual:     {"Pair every new concept with a diagram", "Keep on-screen text minimal"},
	domain.ModeAudio:      {"Enable read-aloud for all passages", "Allow verbal answers where possible"},
	domain.ModeSimplified: {"One instruction per line", "Use high-contrast, large-font text"},
	domain.ModeStandard:   {"Offer both text and visual explanations", "Check in after each section"},
}

var learningStyleByMode = map[domain.Mode]string{
	domain.ModeVisual:     "Visual learner",
	domain.ModeAudio:      "Auditory learner",
	domain.ModeSimplified: "Structured sequential learner",
	domain.ModeStandard:   "Multimodal learner",
}

// Synthesizer builds IEP documents. The clock is injectable for tests.
type Synthesizer struct {
	now func() time.Time
}

// NewSynthesizer creates a synthesizer using the wall clock.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{now: time.Now}
}

// NewSynthesizerAt creates a synthesizer with a fixed clock.
func NewSynthesizerAt(now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{now: now}
}

// GenerateIEP derives a structured plan from a student snapshot, the latest
// aggregated indicators, and the learning profile. Indicators and profile may
// be nil; the plan then falls back to neutral defaults.
func (s *Synthesizer) GenerateIEP(student domain.StudentProfile, indicators *domain.DisabilityIndicators, profile *domain.LearningProfile) *domain.IEP {
	generatedAt := s.now()
	mode := effectiveMode(indicators, profile)

	doc := &domain.IEP{
		StudentID:         student.StudentID,
		StudentName:       student.Name,
		GeneratedAt:       generatedAt,
		Strengths:         deriveStrengths(student),
		Weaknesses:        deriveWeaknesses(student, indicators),
		LearningStyle:     learningStyleByMode[mode],
		Accommodations:    deriveAccommodations(indicators),
		ShortTermGoals:    deriveShortTermGoals(student),
		LongTermGoals:     append([]string(nil), longTermGoalCatalog...),
		RecommendedTools:  append([]string(nil), toolsByMode[mode]...),
		ProgressScore:     progressScore(student.Points),
		AccessibilityTips: append([]string(nil), tipsByMode[mode]...),
		Timeline:          buildTimeline(generatedAt),
	}
	return doc
}

// GenerateWeeklyPlan slices a week-scoped view from an IEP. Week numbers are
// 1-based; out-of-range weeks return a degenerate empty plan, never an error.
func (s *Synthesizer) GenerateWeeklyPlan(doc *domain.IEP, week int) domain.WeeklyPlan {
	plan := domain.WeeklyPlan{Week: week}
	if doc == nil || week < 1 || week > len(doc.Timeline) {
		return plan
	}

	milestone := doc.Timeline[week-1]
	plan.Focus = milestone.Label
	plan.Milestone = &milestone
	plan.Goals = weekGoals(doc.ShortTermGoals, week)
	plan.Tips = append([]string(nil), doc.AccessibilityTips...)
	return plan
}

// weekGoals rotates through the short-term goals so successive weeks surface
// different goals first, deterministically for a given (goals, week) pair.
func weekGoals(goals []string, week int) []string {
	if len(goals) == 0 {
		return nil
	}
	offset := (week - 1) % len(goals)
	out := make([]string, 0, len(goals))
	out = append(out, goals[offset:]...)
	out = append(out, goals[:offset]...)
	return out
}

func deriveStrengths(student domain.StudentProfile) []string {
	var strengths []string
	if student.TotalTimeMinutes >= consistentTimeMinutes {
		strengths = append(strengths, "Dedicated learning consistency")
	}
	if student.Points >= highPointsThreshold {
		strengths = append(strengths, "Strong task completion drive")
	}
	if student.CompletedGoalCount() >= completedGoalsForClaim {
		strengths = append(strengths, "Goal-oriented mindset")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Positive attitude toward learning")
	}
	return strengths
}

func deriveWeaknesses(student domain.StudentProfile, indicators *domain.DisabilityIndicators) []string {
	var weaknesses []string
	if len(student.IncompleteGoals()) > incompleteGoalsLimit {
		weaknesses = append(weaknesses, "Difficulty completing started goals")
	}
	if indicators != nil {
		// The dominant condition leads; the rest keep their aggregation order.
		if primary := indicators.Primary(); primary != nil {
			weaknesses = append(weaknesses, fmt.Sprintf("Needs support with: %s", primary.Condition))
			for _, ind := range indicators.Indicators {
				if ind.Condition == primary.Condition {
					continue
				}
				weaknesses = append(weaknesses, fmt.Sprintf("Needs support with: %s", ind.Condition))
			}
		}
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "No significant weaknesses observed yet")
	}
	return weaknesses
}

func deriveAccommodations(indicators *domain.DisabilityIndicators) []string {
	accommodations := append([]string(nil), baseAccommodations...)
	if indicators == nil {
		return accommodations
	}
	seen := make(map[string]bool, len(accommodations))
	for _, a := range accommodations {
		seen[a] = true
	}
	for _, ind := range indicators.Indicators {
		for _, rec := range detect.RecommendationsForLabel(ind.Condition) {
			if !seen[rec] {
				accommodations = append(accommodations, rec)
				seen[rec] = true
			}
		}
	}
	return accommodations
}

// deriveShortTermGoals turns currently-incomplete goal titles into plan
// entries, substituting a canned default so the list is never empty.
func deriveShortTermGoals(student domain.StudentProfile) []string {
	incomplete := student.IncompleteGoals()
	if len(incomplete) == 0 {
		return []string{"Establish a regular daily learning routine"}
	}
	goals := make([]string, 0, len(incomplete))
	for _, g := range incomplete {
		goals = append(goals, fmt.Sprintf("Complete %q goal", g.Title))
	}
	return goals
}

func progressScore(points int) int {
	score := points / pointsPerProgressPoint
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func buildTimeline(start time.Time) []domain.Milestone {
	timeline := make([]domain.Milestone, 0, timelineWeeks)
	for i, label := range milestoneCatalog {
		timeline = append(timeline, domain.Milestone{
			Week:  i + 1,
			Label: label,
			Due:   start.AddDate(0, 0, 7*(i+1)),
		})
	}
	return timeline
}

func effectiveMode(indicators *domain.DisabilityIndicators, profile *domain.LearningProfile) domain.Mode {
	detected := domain.ModeStandard
	if indicators != nil && domain.ValidMode(indicators.RecommendedMode) {
		detected = indicators.RecommendedMode
	}
	return profile.EffectiveMode(detected)
}
