package domain

import (
	"time"
)

// Mode is a content presentation mode recommended by the detector.
type Mode string

const (
	ModeVisual     Mode = "visual"
	ModeAudio      Mode = "audio"
	ModeSimplified Mode = "simplified"
	ModeStandard   Mode = "standard"
)

// ValidMode reports whether m is one of the known presentation modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeVisual, ModeAudio, ModeSimplified, ModeStandard:
		return true
	}
	return false
}

// DetectionResult is a single heuristic analysis snapshot.
// Immutable once produced; confidence is always within [0,1].
type DetectionResult struct {
	Condition  string    `json:"possible_condition"`
	Confidence float64   `json:"confidence"`
	Mode       Mode      `json:"recommended_mode"`
	Reason     string    `json:"reason"`
	ObservedAt time.Time `json:"observed_at"`
}

// SignalSummary aggregates the raw signals that supported a detection.
type SignalSummary struct {
	AvgReadingWPM    float64 `json:"avg_reading_wpm"`
	AvgComprehension float64 `json:"avg_comprehension"`
	AttentionLosses  int     `json:"attention_losses"`
	ReadingSamples   int     `json:"reading_samples"`
	QuizSamples      int     `json:"quiz_samples"`
}

// ConditionIndicator summarizes one condition across multiple detections.
type ConditionIndicator struct {
	Condition   string  `json:"condition"`
	Confidence  float64 `json:"confidence"`
	Occurrences int     `json:"occurrences"`
}

// DisabilityIndicators is the aggregate detection view across one or more
// sessions, as consumed by IEP synthesis. Distinct from DetectionResult,
// which is a single analysis snapshot.
type DisabilityIndicators struct {
	Indicators      []ConditionIndicator `json:"indicators"`
	RecommendedMode Mode                 `json:"recommended_mode"`
	Sessions        int                  `json:"sessions"`
	LatestReason    string               `json:"latest_reason,omitempty"`
}

// Primary returns the indicator with the highest confidence, or nil.
func (d *DisabilityIndicators) Primary() *ConditionIndicator {
	var best *ConditionIndicator
	for i := range d.Indicators {
		if best == nil || d.Indicators[i].Confidence > best.Confidence {
			best = &d.Indicators[i]
		}
	}
	return best
}
