package detect

import (
	"testing"

	"github.com/learnscope/learnscope/internal/domain"
)

func TestHistoryStore_AppendAndHistory(t *testing.T) {
	s := NewHistoryStore()

	if got := s.History("user1"); len(got) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(got))
	}

	s.Append("user1", domain.DetectionResult{Condition: ConditionDyslexia, Confidence: 0.75})
	s.Append("user1", domain.DetectionResult{Condition: ConditionADHD, Confidence: 0.80})
	s.Append("user2", domain.DetectionResult{Condition: ConditionADHD, Confidence: 0.80})

	got := s.History("user1")
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Condition != ConditionDyslexia || got[1].Condition != ConditionADHD {
		t.Errorf("Expected chronological order, got %+v", got)
	}
}

func TestHistoryStore_HistoryIsACopy(t *testing.T) {
	s := NewHistoryStore()
	s.Append("user1", domain.DetectionResult{Condition: ConditionDyslexia})

	got := s.History("user1")
	got[0].Condition = "tampered"

	if s.History("user1")[0].Condition != ConditionDyslexia {
		t.Error("History mutation leaked into store")
	}
}

func TestHistoryStore_IndicatorsEmpty(t *testing.T) {
	s := NewHistoryStore()
	if ind := s.Indicators("nobody"); ind != nil {
		t.Errorf("Expected nil indicators, got %+v", ind)
	}
}

func TestHistoryStore_IndicatorsAggregation(t *testing.T) {
	s := NewHistoryStore()
	s.Append("user1", domain.DetectionResult{
		Condition: ConditionDyslexia, Confidence: 0.75,
		Mode: domain.ModeSimplified, Reason: "first",
	})
	s.Append("user1", domain.DetectionResult{
		Condition: ConditionDyslexia, Confidence: 0.70,
		Mode: domain.ModeSimplified, Reason: "second",
	})
	s.Append("user1", domain.DetectionResult{
		Condition: ConditionADHD, Confidence: 0.80,
		Mode: domain.ModeVisual, Reason: "third",
	})

	ind := s.Indicators("user1")
	if ind == nil {
		t.Fatal("Expected indicators")
	}
	if ind.Sessions != 3 {
		t.Errorf("Expected 3 sessions, got %d", ind.Sessions)
	}
	if len(ind.Indicators) != 2 {
		t.Fatalf("Expected 2 conditions, got %d", len(ind.Indicators))
	}

	dyslexia := ind.Indicators[0]
	if dyslexia.Condition != ConditionDyslexia {
		t.Errorf("Expected insertion order, got %q first", dyslexia.Condition)
	}
	if dyslexia.Occurrences != 2 {
		t.Errorf("Expected 2 occurrences, got %d", dyslexia.Occurrences)
	}
	if dyslexia.Confidence != 0.75 {
		t.Errorf("Expected max confidence 0.75, got %f", dyslexia.Confidence)
	}

	// Mode and reason come from the latest entry.
	if ind.RecommendedMode != domain.ModeVisual {
		t.Errorf("Expected visual mode from latest entry, got %s", ind.RecommendedMode)
	}
	if ind.LatestReason != "third" {
		t.Errorf("Expected latest reason, got %q", ind.LatestReason)
	}
}

func TestDisabilityIndicators_Primary(t *testing.T) {
	s := NewHistoryStore()
	s.Append("user1", domain.DetectionResult{Condition: ConditionDyslexia, Confidence: 0.75})
	s.Append("user1", domain.DetectionResult{Condition: ConditionADHD, Confidence: 0.80})

	primary := s.Indicators("user1").Primary()
	if primary == nil || primary.Condition != ConditionADHD {
		t.Errorf("Expected ADHD as primary, got %+v", primary)
	}
}
