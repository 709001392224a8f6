package iep

import (
	"strings"
	"testing"
	"time"

	"github.com/learnscope/learnscope/internal/detect"
	"github.com/learnscope/learnscope/internal/domain"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestSynthesizer_GenerateIEPFromActiveStudent(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	student := domain.StudentProfile{
		StudentID:        "user1",
		Name:             "Sam",
		Points:           300,
		TotalTimeMinutes: 90,
		Goals: []domain.Goal{
			{ID: "g1", Title: "Read 10 books"},
			{ID: "g2", Title: "Practice fractions"},
		},
	}

	doc := s.GenerateIEP(student, nil, nil)

	if !contains(doc.Strengths, "Dedicated learning consistency") {
		t.Errorf("Expected consistency strength, got %v", doc.Strengths)
	}
	if contains(doc.Strengths, "Strong task completion drive") {
		t.Errorf("Expected no drive strength at 300 points, got %v", doc.Strengths)
	}
	if !contains(doc.ShortTermGoals, `Complete "Read 10 books" goal`) ||
		!contains(doc.ShortTermGoals, `Complete "Practice fractions" goal`) {
		t.Errorf("Expected incomplete goals as short-term goals, got %v", doc.ShortTermGoals)
	}
	if doc.ProgressScore != 30 {
		t.Errorf("Expected progress score 30, got %d", doc.ProgressScore)
	}
	if len(doc.Timeline) != 8 {
		t.Fatalf("Expected 8-week timeline, got %d", len(doc.Timeline))
	}
	if doc.Timeline[0].Due != doc.GeneratedAt.AddDate(0, 0, 7) {
		t.Errorf("Expected first milestone due one week out, got %v", doc.Timeline[0].Due)
	}
	if !contains(doc.Weaknesses, "No significant weaknesses observed yet") {
		t.Errorf("Expected default weakness, got %v", doc.Weaknesses)
	}
}

func TestSynthesizer_GenerateIEPNewStudentDefaults(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	doc := s.GenerateIEP(domain.StudentProfile{StudentID: "new", Name: "New"}, nil, nil)

	if !contains(doc.Strengths, "Positive attitude toward learning") {
		t.Errorf("Expected fallback strength, got %v", doc.Strengths)
	}
	if !contains(doc.ShortTermGoals, "Establish a regular daily learning routine") {
		t.Errorf("Expected default short-term goal, got %v", doc.ShortTermGoals)
	}
	if doc.ProgressScore != 0 {
		t.Errorf("Expected zero progress, got %d", doc.ProgressScore)
	}
	if doc.LearningStyle != "Multimodal learner" {
		t.Errorf("Expected standard-mode learning style, got %q", doc.LearningStyle)
	}
}

func TestSynthesizer_StrengthThresholds(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	student := domain.StudentProfile{
		Points:           600,
		TotalTimeMinutes: 200,
		Goals: []domain.Goal{
			{Title: "a", Completed: true},
			{Title: "b", Completed: true},
			{Title: "c", Completed: true},
		},
	}

	doc := s.GenerateIEP(student, nil, nil)
	for _, want := range []string{
		"Dedicated learning consistency",
		"Strong task completion drive",
		"Goal-oriented mindset",
	} {
		if !contains(doc.Strengths, want) {
			t.Errorf("Expected strength %q, got %v", want, doc.Strengths)
		}
	}
}

func TestSynthesizer_WeaknessFromManyIncompleteGoals(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	student := domain.StudentProfile{
		Goals: []domain.Goal{
			{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
		},
	}

	doc := s.GenerateIEP(student, nil, nil)
	if !contains(doc.Weaknesses, "Difficulty completing started goals") {
		t.Errorf("Expected incomplete-goals weakness, got %v", doc.Weaknesses)
	}
}

func TestSynthesizer_IndicatorsShapeThePlan(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	indicators := &domain.DisabilityIndicators{
		Indicators: []domain.ConditionIndicator{
			{Condition: detect.ConditionDyslexia, Confidence: 0.75, Occurrences: 2},
		},
		RecommendedMode: domain.ModeSimplified,
		Sessions:        2,
	}

	doc := s.GenerateIEP(domain.StudentProfile{StudentID: "u"}, indicators, nil)

	found := false
	for _, w := range doc.Weaknesses {
		if strings.Contains(w, detect.ConditionDyslexia) {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected indicator-driven weakness, got %v", doc.Weaknesses)
	}
	if doc.LearningStyle != "Structured sequential learner" {
		t.Errorf("Expected simplified-mode learning style, got %q", doc.LearningStyle)
	}

	// Base accommodations plus the dyslexia catalog, no duplicates.
	if len(doc.Accommodations) != len(baseAccommodations)+3 {
		t.Errorf("Expected %d accommodations, got %v", len(baseAccommodations)+3, doc.Accommodations)
	}
}

func TestSynthesizer_DominantConditionLeadsWeaknesses(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	indicators := &domain.DisabilityIndicators{
		Indicators: []domain.ConditionIndicator{
			{Condition: detect.ConditionDyslexia, Confidence: 0.75, Occurrences: 3},
			{Condition: detect.ConditionADHD, Confidence: 0.80, Occurrences: 1},
		},
		RecommendedMode: domain.ModeVisual,
		Sessions:        4,
	}

	doc := s.GenerateIEP(domain.StudentProfile{StudentID: "u"}, indicators, nil)

	if len(doc.Weaknesses) != 2 {
		t.Fatalf("Expected 2 weaknesses, got %v", doc.Weaknesses)
	}
	if !strings.Contains(doc.Weaknesses[0], detect.ConditionADHD) {
		t.Errorf("Expected highest-confidence condition first, got %v", doc.Weaknesses)
	}
	if !strings.Contains(doc.Weaknesses[1], detect.ConditionDyslexia) {
		t.Errorf("Expected remaining condition second, got %v", doc.Weaknesses)
	}
}

func TestSynthesizer_ProfileModeOverridesDetection(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	indicators := &domain.DisabilityIndicators{RecommendedMode: domain.ModeSimplified}
	profile := &domain.LearningProfile{PreferredMode: domain.ModeAudio}

	doc := s.GenerateIEP(domain.StudentProfile{}, indicators, profile)
	if doc.LearningStyle != "Auditory learner" {
		t.Errorf("Expected profile preference to win, got %q", doc.LearningStyle)
	}
}

func TestSynthesizer_GenerateWeeklyPlan(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	doc := s.GenerateIEP(domain.StudentProfile{
		Goals: []domain.Goal{{Title: "Read 10 books"}, {Title: "Practice fractions"}},
	}, nil, nil)

	plan := s.GenerateWeeklyPlan(doc, 1)
	if plan.Empty() {
		t.Fatal("Expected non-empty plan for week 1")
	}
	if plan.Focus != milestoneCatalog[0] {
		t.Errorf("Expected week 1 focus %q, got %q", milestoneCatalog[0], plan.Focus)
	}
	if plan.Milestone == nil || plan.Milestone.Week != 1 {
		t.Errorf("Expected week 1 milestone, got %+v", plan.Milestone)
	}
	if len(plan.Goals) != 2 {
		t.Errorf("Expected all goals in plan, got %v", plan.Goals)
	}
}

func TestSynthesizer_WeeklyPlanRotatesGoals(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	doc := s.GenerateIEP(domain.StudentProfile{
		Goals: []domain.Goal{{Title: "first"}, {Title: "second"}},
	}, nil, nil)

	week1 := s.GenerateWeeklyPlan(doc, 1)
	week2 := s.GenerateWeeklyPlan(doc, 2)
	if week1.Goals[0] == week2.Goals[0] {
		t.Errorf("Expected different lead goal per week, got %q both times", week1.Goals[0])
	}
}

func TestSynthesizer_WeeklyPlanOutOfRange(t *testing.T) {
	s := NewSynthesizerAt(fixedClock())
	doc := s.GenerateIEP(domain.StudentProfile{}, nil, nil)

	tests := []int{0, -1, 9, 100}
	for _, week := range tests {
		plan := s.GenerateWeeklyPlan(doc, week)
		if !plan.Empty() {
			t.Errorf("Expected empty plan for week %d, got %+v", week, plan)
		}
		if plan.Week != week {
			t.Errorf("Expected week %d echoed, got %d", week, plan.Week)
		}
	}

	if plan := s.GenerateWeeklyPlan(nil, 1); !plan.Empty() {
		t.Errorf("Expected empty plan for nil document, got %+v", plan)
	}
}

func TestProgressScore(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 0},
		{300, 30},
		{1000, 100},
		{5000, 100},
		{-50, 0},
	}

	for _, tt := range tests {
		if got := progressScore(tt.points); got != tt.want {
			t.Errorf("progressScore(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}
