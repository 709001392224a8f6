// Package detect turns aggregated behavioral telemetry into learning
// difficulty indicators. Results are indicators, not diagnoses.
package detect

import (
	"fmt"
	"math"

	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/telemetry"
)

// Condition labels emitted by the detector.
const (
	ConditionDyslexia = "Processing difficulty / Dyslexia signs"
	ConditionADHD     = "ADHD / Attention difficulty"
)

// Config holds the detector's heuristic thresholds. The defaults are
// intentionally simple, tunable rules without calibration data behind them;
// override via environment only with evidence.
type Config struct {
	SlowReadingWPM       float64 // rule 1: avg WPM below this is slow reading
	LowComprehension     float64 // rule 1: avg score below this is low comprehension
	AttentionLossLimit   int     // rule 2: losses above this suggest attention difficulty
	DyslexiaConfidence   float64
	ADHDConfidence       float64
	DefaultWPM           float64 // substituted when no reading samples exist
	DefaultComprehension float64 // substituted when no quiz samples exist
}

// DefaultConfig returns the stock thresholds. The defaults for empty metrics
// (200 WPM, score 100) fail both rules by construction, so empty sessions
// never produce a detection.
func DefaultConfig() Config {
	return Config{
		SlowReadingWPM:       100,
		LowComprehension:     70,
		AttentionLossLimit:   5,
		DyslexiaConfidence:   0.75,
		ADHDConfidence:       0.80,
		DefaultWPM:           200,
		DefaultComprehension: 100,
	}
}

// Detector is the heuristic classifier. Analyze is pure: it has no side
// effects on the metrics and keeps no state of its own; callers own history.
type Detector struct {
	cfg Config
}

// New creates a detector with the given thresholds.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// NewDefault creates a detector with stock thresholds.
func NewDefault() *Detector {
	return New(DefaultConfig())
}

// Analyze evaluates the detection rules in fixed priority order and returns
// the first match. The second return value is false when no rule fires,
// a valid empty outcome distinct from any result.
func (d *Detector) Analyze(m telemetry.Metrics) (*domain.DetectionResult, bool) {
	avgWPM := meanOrDefault(m.ReadingSpeeds, d.cfg.DefaultWPM)
	avgScore := meanOrDefault(m.ComprehensionScores, d.cfg.DefaultComprehension)
	losses := m.AttentionLossCount
	if losses < 0 {
		losses = 0
	}

	if avgWPM < d.cfg.SlowReadingWPM && avgScore < d.cfg.LowComprehension {
		return &domain.DetectionResult{
			Condition:  ConditionDyslexia,
			Confidence: clamp01(d.cfg.DyslexiaConfidence),
			Mode:       domain.ModeSimplified,
			Reason: fmt.Sprintf("Slow reading (%.0f WPM) combined with low comprehension (%.0f%%)",
				avgWPM, avgScore),
			ObservedAt: m.SessionStart,
		}, true
	}

	if losses > d.cfg.AttentionLossLimit {
		return &domain.DetectionResult{
			Condition:  ConditionADHD,
			Confidence: clamp01(d.cfg.ADHDConfidence),
			Mode:       domain.ModeVisual,
			Reason:     fmt.Sprintf("Frequent focus loss (%d events this session)", losses),
			ObservedAt: m.SessionStart,
		}, true
	}

	return nil, false
}

// Summarize reduces raw metrics to the signal summary attached to aggregate
// indicators.
func (d *Detector) Summarize(m telemetry.Metrics) domain.SignalSummary {
	losses := m.AttentionLossCount
	if losses < 0 {
		losses = 0
	}
	return domain.SignalSummary{
		AvgReadingWPM:    meanOrDefault(m.ReadingSpeeds, d.cfg.DefaultWPM),
		AvgComprehension: meanOrDefault(m.ComprehensionScores, d.cfg.DefaultComprehension),
		AttentionLosses:  losses,
		ReadingSamples:   len(m.ReadingSpeeds),
		QuizSamples:      len(m.ComprehensionScores),
	}
}

// meanOrDefault averages the finite, non-negative samples, substituting the
// default when none exist. Malformed samples (NaN, Inf, negatives) are a
// caller bug; they are skipped rather than allowed to poison the mean.
func meanOrDefault(samples []float64, def float64) float64 {
	sum := 0.0
	n := 0
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return def
	}
	return sum / float64(n)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
