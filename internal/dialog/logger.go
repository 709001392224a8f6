// Package dialog persists tutor conversations as NDJSON for later review.
package dialog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one logged exchange with the tutor or content engine.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"` // "tutor", "adapt", "quiz"
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Mode      string    `json:"mode,omitempty"`
}

// Logger records dialogue events. Implementations must be safe for
// concurrent use and must never block the request path.
type Logger interface {
	Log(event Event)
	Close() error
}

// Config controls the file-backed logger.
type Config struct {
	Enabled   bool
	Path      string
	QueueSize int
}

type nopLogger struct{}

func (nopLogger) Log(Event)    {}
func (nopLogger) Close() error { return nil }

// NewLogger creates a Logger. When disabled it returns a no-op
// implementation so callers never need a nil check.
func NewLogger(cfg Config, log *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return nopLogger{}, nil
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("dialog log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create dialog log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dialog log: %w", err)
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1000
	}

	l := &fileLogger{
		file:  f,
		log:   log,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l, nil
}

type fileLogger struct {
	file  *os.File
	log   *slog.Logger
	queue chan Event

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Log enqueues an event. If the queue is full the event is dropped so
// a slow disk cannot stall request handling.
func (l *fileLogger) Log(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	select {
	case l.queue <- event:
	default:
		l.log.Warn("dialog log queue full, dropping event", "user_id", event.UserID)
	}
	l.mu.Unlock()
}

func (l *fileLogger) run() {
	defer close(l.done)
	for event := range l.queue {
		line, err := json.Marshal(event)
		if err != nil {
			l.log.Error("failed to marshal dialog event", "error", err)
			continue
		}
		if _, err := l.file.Write(append(line, '\n')); err != nil {
			l.log.Error("failed to write dialog event", "error", err)
		}
	}
}

// Close drains the queue and closes the underlying file.
func (l *fileLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	<-l.done
	return l.file.Close()
}
