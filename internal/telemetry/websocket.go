package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/learnscope/learnscope/internal/identity"
)

// WebSocketHandler streams behavioral telemetry events into session recorders.
type WebSocketHandler struct {
	sm            *SessionManager
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a websocket ingest handler.
func NewWebSocketHandler(sm *SessionManager, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		sm:            sm,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsEvent is one telemetry event on the wire.
type wsEvent struct {
	Type      string  `json:"type"` // "reading" | "quiz" | "attention" | "pause"
	WordCount int     `json:"word_count,omitempty"`
	ElapsedMs int64   `json:"elapsed_ms,omitempty"`
	Score     float64 `json:"score,omitempty"`
	PauseMs   int64   `json:"pause_ms,omitempty"`
}

// wsAck reports per-event acceptance back to the client.
type wsAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ServeHTTP upgrades the connection and consumes telemetry events until the
// client disconnects. Events for a user without an active session start one.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("Telemetry WebSocket connection", "user_id", userID, "session_id", sessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept telemetry WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close telemetry websocket", "error", closeErr, "user_id", userID)
		}
	}()

	rec := h.sm.Get(userID, sessionID)
	if rec == nil {
		rec = h.sm.Start(userID, sessionID)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		var ev wsEvent
		if err := readJSON(ctx, ws, &ev); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				return
			}
			slog.Debug("Telemetry websocket read error", "error", err, "user_id", userID)
			return
		}

		ack := wsAck{OK: true}
		if err := h.apply(rec, ev); err != nil {
			ack = wsAck{OK: false, Error: err.Error()}
		}
		if err := writeJSON(ctx, ws, ack); err != nil {
			slog.Debug("Telemetry websocket write error", "error", err, "user_id", userID)
			return
		}
	}
}

// apply dispatches one event to the recorder.
func (h *WebSocketHandler) apply(rec *Recorder, ev wsEvent) error {
	switch ev.Type {
	case "reading":
		return rec.RecordReading(ev.WordCount, time.Duration(ev.ElapsedMs)*time.Millisecond)
	case "quiz":
		return rec.RecordQuizResult(ev.Score)
	case "attention":
		rec.RecordAttentionLoss()
		return nil
	case "pause":
		rec.RecordPause(time.Duration(ev.PauseMs) * time.Millisecond)
		return nil
	default:
		return errors.New("unknown event type: " + ev.Type)
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" {
		return true
	}
	ou, err := url.Parse(origin)
	if err != nil {
		return false
	}
	au, err := url.Parse(h.allowedOrigin)
	if err != nil {
		return false
	}
	return strings.EqualFold(ou.Host, au.Host)
}

func readJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	_, data, err := ws.Read(ctx)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
