package telemetry

import (
	"context"
	"log/slog"
	"time"
)

const sweepInterval = 1 * time.Minute

// FinalizeFunc is called with the final metrics of a session the sweeper
// expires, so the caller can run detection before the aggregate is discarded.
type FinalizeFunc func(userID, sessionID string, metrics Metrics)

// StartSweeper runs a background goroutine that periodically expires idle
// telemetry sessions. Expired sessions are finalized via onExpire and removed.
func StartSweeper(ctx context.Context, sm *SessionManager, ttl time.Duration, onExpire FinalizeFunc) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Telemetry sweeper started", "interval", sweepInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweepIdleSessions(sm, ttl, onExpire)
			case <-ctx.Done():
				slog.Info("Telemetry sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepIdleSessions(sm *SessionManager, ttl time.Duration, onExpire FinalizeFunc) {
	idle := sm.idleSessions(ttl)
	if len(idle) == 0 {
		return
	}

	slog.Info("Telemetry sweeper found idle sessions", "count", len(idle))

	for _, s := range idle {
		metrics, ok := sm.End(s.userID, s.sessionID)
		if !ok {
			continue
		}
		if onExpire != nil {
			onExpire(s.userID, s.sessionID, metrics)
		}
	}

	slog.Info("Telemetry sweeper cleanup completed", "expired", len(idle))
}
