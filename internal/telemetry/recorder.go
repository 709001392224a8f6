// Package telemetry accumulates behavioral session telemetry for detection.
package telemetry

import (
	"errors"
	"math"
	"sync"
	"time"
)

var (
	// ErrInvalidElapsed is returned when a reading metric carries a
	// non-positive elapsed time. Guarding here makes divide-by-zero
	// unobservable regardless of caller behavior.
	ErrInvalidElapsed = errors.New("elapsed time must be positive")

	// ErrInvalidWordCount is returned for a non-positive word count.
	ErrInvalidWordCount = errors.New("word count must be positive")

	// ErrInvalidScore is returned for a NaN comprehension score.
	ErrInvalidScore = errors.New("score must be a number")
)

// Metrics is the behavioral telemetry aggregate for one active session.
// It is owned by exactly one session and reset when a new session starts.
type Metrics struct {
	ReadingSpeeds       []float64       `json:"reading_speeds"`       // words per minute
	ComprehensionScores []float64       `json:"comprehension_scores"` // 0-100
	AttentionLossCount  int             `json:"attention_loss_count"`
	SessionStart        time.Time       `json:"session_start"`
	InteractionPauses   []time.Duration `json:"interaction_pauses"`
}

// Recorder accumulates noisy, arbitrarily-ordered behavioral events into the
// Metrics aggregate for one session at a time. All methods are safe for
// concurrent use.
type Recorder struct {
	mu        sync.Mutex
	metrics   Metrics
	lastEvent time.Time
}

// NewRecorder creates a recorder with a freshly started session.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.StartSession()
	return r
}

// StartSession discards any previous session's metrics and records the new
// session start time. History is not retained here; detection snapshots live
// at the detector level.
func (r *Recorder) StartSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.metrics = Metrics{SessionStart: now}
	r.lastEvent = now
}

// RecordReading computes words-per-minute from a word count and elapsed time
// and appends it to the reading speed samples.
func (r *Recorder) RecordReading(wordCount int, elapsed time.Duration) error {
	if elapsed <= 0 {
		return ErrInvalidElapsed
	}
	if wordCount <= 0 {
		return ErrInvalidWordCount
	}

	wpm := float64(wordCount) / elapsed.Seconds() * 60

	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.ReadingSpeeds = append(r.metrics.ReadingSpeeds, wpm)
	r.lastEvent = time.Now()
	return nil
}

// RecordQuizResult appends a comprehension score. Out-of-range values are
// clamped to [0,100]; NaN is rejected.
func (r *Recorder) RecordQuizResult(score float64) error {
	if math.IsNaN(score) {
		return ErrInvalidScore
	}
	score = math.Min(100, math.Max(0, score))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.ComprehensionScores = append(r.metrics.ComprehensionScores, score)
	r.lastEvent = time.Now()
	return nil
}

// RecordAttentionLoss increments the attention loss counter.
func (r *Recorder) RecordAttentionLoss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.AttentionLossCount++
	r.lastEvent = time.Now()
}

// RecordPause appends an interaction pause duration. Non-positive pauses are
// ignored.
func (r *Recorder) RecordPause(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.InteractionPauses = append(r.metrics.InteractionPauses, d)
	r.lastEvent = time.Now()
}

// Snapshot returns a copy of the current aggregate. The detector analyzes
// copies so that analysis never mutates recorder state.
func (r *Recorder) Snapshot() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.metrics
	m.ReadingSpeeds = append([]float64(nil), r.metrics.ReadingSpeeds...)
	m.ComprehensionScores = append([]float64(nil), r.metrics.ComprehensionScores...)
	m.InteractionPauses = append([]time.Duration(nil), r.metrics.InteractionPauses...)
	return m
}

// LastEvent returns the time of the most recent recorded event.
func (r *Recorder) LastEvent() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastEvent
}
