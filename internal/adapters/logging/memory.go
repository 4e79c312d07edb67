package logging

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// Entry is one captured log call.
type Entry struct {
	Level  ports.Level
	Msg    string
	Fields []ports.Field
}

// MemoryLogger captures log entries in memory for test assertions.
type MemoryLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  []ports.Field
}

// NewMemoryLogger creates a new in-memory logger.
func NewMemoryLogger() *MemoryLogger {
	entries := make([]Entry, 0)
	return &MemoryLogger{
		mu:      &sync.Mutex{},
		entries: &entries,
	}
}

// Debug captures a debug message.
func (l *MemoryLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.capture(ports.LevelDebug, msg, fields)
}

// Info captures an informational message.
func (l *MemoryLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.capture(ports.LevelInfo, msg, fields)
}

// Warn captures a warning message.
func (l *MemoryLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.capture(ports.LevelWarn, msg, fields)
}

// Error captures an error message.
func (l *MemoryLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.capture(ports.LevelError, msg, fields)
}

// With returns a logger sharing the same capture buffer.
func (l *MemoryLogger) With(fields ...ports.Field) ports.Logger {
	newFields := make([]ports.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &MemoryLogger{
		mu:      l.mu,
		entries: l.entries,
		fields:  newFields,
	}
}

// Entries returns a copy of all captured entries.
func (l *MemoryLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

// Contains reports whether any captured message equals msg.
func (l *MemoryLogger) Contains(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.Msg == msg {
			return true
		}
	}
	return false
}

func (l *MemoryLogger) capture(level ports.Level, msg string, fields []ports.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := make([]ports.Field, len(l.fields)+len(fields))
	copy(all, l.fields)
	copy(all[len(l.fields):], fields)

	*l.entries = append(*l.entries, Entry{Level: level, Msg: msg, Fields: all})
}

// Ensure MemoryLogger implements Logger.
var _ ports.Logger = (*MemoryLogger)(nil)
