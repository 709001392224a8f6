package telemetry

import (
	"log/slog"
	"sync"
	"time"
)

// SessionManager owns one Recorder per active (user, session) pair.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]map[string]*Recorder
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		active: make(map[string]map[string]*Recorder),
	}
}

// Get returns the recorder for a user and session, or nil if none is active.
func (m *SessionManager) Get(userID, sessionID string) *Recorder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[userID]; ok {
		return sessions[sessionID]
	}
	return nil
}

// Start begins a fresh telemetry session for a user/session pair. Any
// previous recorder for the pair is replaced, discarding its metrics.
func (m *SessionManager) Start(userID, sessionID string) *Recorder {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[userID]; !exists {
		m.active[userID] = make(map[string]*Recorder)
	}

	r := NewRecorder()
	m.active[userID][sessionID] = r
	slog.Info("Telemetry session started", "user_id", userID, "session_id", sessionID)
	return r
}

// End removes the recorder for a user/session pair and returns its final
// metrics snapshot. The second return value is false if no session was active.
func (m *SessionManager) End(userID, sessionID string) (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, ok := m.active[userID]
	if !ok {
		return Metrics{}, false
	}
	r, ok := sessions[sessionID]
	if !ok {
		return Metrics{}, false
	}

	delete(sessions, sessionID)
	if len(sessions) == 0 {
		delete(m.active, userID)
	}
	slog.Info("Telemetry session ended", "user_id", userID, "session_id", sessionID)
	return r.Snapshot(), true
}

// CloseAll terminates all active sessions for a user.
func (m *SessionManager) CloseAll(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, ok := m.active[userID]
	if !ok {
		return
	}
	for sid := range sessions {
		slog.Info("Telemetry session closed", "user_id", userID, "session_id", sid)
	}
	delete(m.active, userID)
}

// idleSession identifies one expired session for the sweeper.
type idleSession struct {
	userID    string
	sessionID string
}

// idleSessions returns all sessions whose last event is older than ttl.
func (m *SessionManager) idleSessions(ttl time.Duration) []idleSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := time.Now().Add(-ttl)
	var idle []idleSession
	for userID, sessions := range m.active {
		for sessionID, r := range sessions {
			if r.LastEvent().Before(cutoff) {
				idle = append(idle, idleSession{userID: userID, sessionID: sessionID})
			}
		}
	}
	return idle
}
