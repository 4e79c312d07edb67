package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// JournalFile is the log stream file name inside the state directory.
const JournalFile = "logs.txt"

// JournalLogger appends every log line to the provisioning journal, a plain
// text file next to the stage ledger. The journal is a superset of the
// ledger: every stage transition plus informational messages. It is purely
// diagnostic and never consulted for control flow.
type JournalLogger struct {
	mu     *sync.Mutex
	file   *os.File
	fields []ports.Field
}

// OpenJournal opens (or creates) the journal inside dir for appending.
func OpenJournal(dir string) (*JournalLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, JournalFile)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	return &JournalLogger{mu: &sync.Mutex{}, file: file}, nil
}

// Debug logs a debug message.
func (l *JournalLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *JournalLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *JournalLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *JournalLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a new logger with additional fields. The underlying file
// handle is shared, so both loggers append to the same journal.
func (l *JournalLogger) With(fields ...ports.Field) ports.Logger {
	newFields := make([]ports.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &JournalLogger{
		mu:     l.mu,
		file:   l.file,
		fields: newFields,
	}
}

// Close releases the journal file handle.
func (l *JournalLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// log appends one journal line. The journal keeps everything down to debug
// level; filtering happens on the console side only.
func (l *JournalLogger) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	line := fmt.Sprintf("%s | %s | %s", time.Now().Format(time.RFC3339), level.String(), msg)
	line += formatFields(l.fields, fields)

	_, _ = fmt.Fprintln(l.file, line)
}

// Ensure JournalLogger implements Logger.
var _ ports.Logger = (*JournalLogger)(nil)
