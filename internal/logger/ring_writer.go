package logger

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level `json:"-"`
	Message string        `json:"message"`
	Table   string        `json:"table,omitempty"`
	Mapping string        `json:"mapping,omitempty"`
	Caller  string        `json:"caller,omitempty"`
	Time    time.Time     `json:"time"`

	LevelName string `json:"level"`
}

// RingWriter keeps the most recent log entries in memory so the operator
// API can serve them without an external log store.
type RingWriter struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
	logChan chan LogEntry
}

// NewRingWriter initializes the worker
func NewRingWriter(capacity int) *RingWriter {
	if capacity <= 0 {
		capacity = 256
	}
	writer := &RingWriter{
		entries: make([]LogEntry, capacity),
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *RingWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
		// Log pushed to channel
	default:
		// Channel full: drop log to avoid blocking the run
		fmt.Println("Log ring channel full! Dropping log:", entry.Message)
	}
}

func (w *RingWriter) processLogs() {
	for entry := range w.logChan {
		entry.LevelName = entry.Level.String()

		w.mu.Lock()
		w.entries[w.next] = entry
		w.next = (w.next + 1) % len(w.entries)
		if w.next == 0 {
			w.full = true
		}
		w.mu.Unlock()
	}
}

// Recent returns up to limit entries, newest first.
func (w *RingWriter) Recent(limit int) []LogEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	size := w.next
	if w.full {
		size = len(w.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]LogEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (w.next - i + len(w.entries)) % len(w.entries)
		out = append(out, w.entries[idx])
	}
	return out
}
