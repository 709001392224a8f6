package telemetry

import (
	"testing"
	"time"
)

func TestSessionManager_StartAndGet(t *testing.T) {
	sm := NewSessionManager()

	if sm.Get("user1", "default") != nil {
		t.Error("Expected no recorder before Start")
	}

	rec := sm.Start("user1", "default")
	if rec == nil {
		t.Fatal("Expected recorder from Start")
	}
	if sm.Get("user1", "default") != rec {
		t.Error("Expected Get to return the started recorder")
	}
}

func TestSessionManager_StartReplacesRecorder(t *testing.T) {
	sm := NewSessionManager()

	first := sm.Start("user1", "default")
	if err := first.RecordReading(100, time.Minute); err != nil {
		t.Fatalf("RecordReading failed: %v", err)
	}

	second := sm.Start("user1", "default")
	if second == first {
		t.Error("Expected Start to replace the recorder")
	}
	if len(second.Snapshot().ReadingSpeeds) != 0 {
		t.Error("Expected fresh metrics in replacement recorder")
	}
}

func TestSessionManager_EndReturnsFinalMetrics(t *testing.T) {
	sm := NewSessionManager()
	rec := sm.Start("user1", "tab-1")
	rec.RecordAttentionLoss()

	metrics, ok := sm.End("user1", "tab-1")
	if !ok {
		t.Fatal("Expected End to find the session")
	}
	if metrics.AttentionLossCount != 1 {
		t.Errorf("Expected final metrics, got %+v", metrics)
	}
	if sm.Get("user1", "tab-1") != nil {
		t.Error("Expected recorder removed after End")
	}
}

func TestSessionManager_EndUnknownSession(t *testing.T) {
	sm := NewSessionManager()
	if _, ok := sm.End("nobody", "default"); ok {
		t.Error("Expected End to report no session")
	}
}

func TestSessionManager_CloseAll(t *testing.T) {
	sm := NewSessionManager()
	sm.Start("user1", "tab-1")
	sm.Start("user1", "tab-2")
	sm.Start("user2", "tab-1")

	sm.CloseAll("user1")

	if sm.Get("user1", "tab-1") != nil || sm.Get("user1", "tab-2") != nil {
		t.Error("Expected all user1 sessions closed")
	}
	if sm.Get("user2", "tab-1") == nil {
		t.Error("Expected user2 session to survive")
	}
}

func TestSessionManager_IdleSessions(t *testing.T) {
	sm := NewSessionManager()
	sm.Start("user1", "default")

	if idle := sm.idleSessions(time.Hour); len(idle) != 0 {
		t.Errorf("Expected no idle sessions, got %d", len(idle))
	}

	// With a zero TTL every session is older than the cutoff.
	time.Sleep(5 * time.Millisecond)
	idle := sm.idleSessions(0)
	if len(idle) != 1 {
		t.Fatalf("Expected 1 idle session, got %d", len(idle))
	}
	if idle[0].userID != "user1" || idle[0].sessionID != "default" {
		t.Errorf("Unexpected idle session: %+v", idle[0])
	}
}

func TestSweepIdleSessionsFinalizes(t *testing.T) {
	sm := NewSessionManager()
	rec := sm.Start("user1", "default")
	rec.RecordAttentionLoss()

	time.Sleep(5 * time.Millisecond)

	var gotUser, gotSession string
	var gotMetrics Metrics
	sweepIdleSessions(sm, 0, func(userID, sessionID string, metrics Metrics) {
		gotUser, gotSession, gotMetrics = userID, sessionID, metrics
	})

	if gotUser != "user1" || gotSession != "default" {
		t.Errorf("Expected finalize for user1/default, got %s/%s", gotUser, gotSession)
	}
	if gotMetrics.AttentionLossCount != 1 {
		t.Errorf("Expected final metrics in callback, got %+v", gotMetrics)
	}
	if sm.Get("user1", "default") != nil {
		t.Error("Expected session removed after sweep")
	}
}
