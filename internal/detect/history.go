package detect

import (
	"sync"

	"github.com/learnscope/learnscope/internal/domain"
)

// HistoryStore keeps per-user detection history in process memory.
// History is append-only: entries are never edited or removed. The store is
// an explicit dependency injected where needed, not a package-level singleton,
// so tests can use a fresh store per case.
type HistoryStore struct {
	mu     sync.Mutex
	byUser map[string][]domain.DetectionResult
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		byUser: make(map[string][]domain.DetectionResult),
	}
}

// Append records a detection result for a user. Appends are serialized by the
// store's lock so concurrent detections cannot lose updates.
func (s *HistoryStore) Append(userID string, res domain.DetectionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = append(s.byUser[userID], res)
}

// History returns a copy of a user's detection history in chronological
// (insertion) order.
func (s *HistoryStore) History(userID string) []domain.DetectionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.byUser[userID]
	out := make([]domain.DetectionResult, len(entries))
	copy(out, entries)
	return out
}

// Indicators aggregates a user's detection history into the indicator view
// consumed by IEP synthesis. Returns nil when the user has no detections.
func (s *HistoryStore) Indicators(userID string) *domain.DisabilityIndicators {
	history := s.History(userID)
	if len(history) == 0 {
		return nil
	}

	byCondition := make(map[string]*domain.ConditionIndicator)
	var order []string
	for _, res := range history {
		ind, ok := byCondition[res.Condition]
		if !ok {
			ind = &domain.ConditionIndicator{Condition: res.Condition}
			byCondition[res.Condition] = ind
			order = append(order, res.Condition)
		}
		ind.Occurrences++
		if res.Confidence > ind.Confidence {
			ind.Confidence = res.Confidence
		}
	}

	indicators := make([]domain.ConditionIndicator, 0, len(order))
	for _, cond := range order {
		indicators = append(indicators, *byCondition[cond])
	}

	latest := history[len(history)-1]
	return &domain.DisabilityIndicators{
		Indicators:      indicators,
		RecommendedMode: latest.Mode,
		Sessions:        len(history),
		LatestReason:    latest.Reason,
	}
}
