package domain

import "testing"

func TestLearningProfile_EffectiveMode(t *testing.T) {
	tests := []struct {
		name     string
		profile  *LearningProfile
		detected Mode
		want     Mode
	}{
		{"nil profile falls back to detected", nil, ModeSimplified, ModeSimplified},
		{"nil profile no detection", nil, "", ModeStandard},
		{"preference wins", &LearningProfile{PreferredMode: ModeAudio}, ModeSimplified, ModeAudio},
		{"invalid preference ignored", &LearningProfile{PreferredMode: "braille"}, ModeVisual, ModeVisual},
		{"invalid detection ignored", &LearningProfile{}, "nonsense", ModeStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.EffectiveMode(tt.detected); got != tt.want {
				t.Errorf("EffectiveMode(%q) = %q, want %q", tt.detected, got, tt.want)
			}
		})
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []Mode{ModeVisual, ModeAudio, ModeSimplified, ModeStandard} {
		if !ValidMode(m) {
			t.Errorf("Expected %q valid", m)
		}
	}
	if ValidMode("") || ValidMode("telepathy") {
		t.Error("Expected unknown modes invalid")
	}
}

func TestStudentProfile_GoalHelpers(t *testing.T) {
	p := &StudentProfile{
		Goals: []Goal{
			{Title: "a", Completed: true},
			{Title: "b"},
			{Title: "c", Completed: true},
			{Title: "d"},
		},
	}

	if got := p.CompletedGoalCount(); got != 2 {
		t.Errorf("Expected 2 completed, got %d", got)
	}
	incomplete := p.IncompleteGoals()
	if len(incomplete) != 2 || incomplete[0].Title != "b" {
		t.Errorf("Unexpected incomplete goals: %+v", incomplete)
	}
}
