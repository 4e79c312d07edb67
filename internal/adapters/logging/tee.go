package logging

import (
	"context"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// TeeLogger fans every log call out to multiple loggers, typically the
// console and the journal, so the operator sees progress live while the
// journal keeps the durable record.
type TeeLogger struct {
	loggers []ports.Logger
}

// NewTeeLogger creates a logger that forwards to all given loggers.
func NewTeeLogger(loggers ...ports.Logger) *TeeLogger {
	return &TeeLogger{loggers: loggers}
}

// Debug forwards a debug message.
func (l *TeeLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Debug(ctx, msg, fields...)
	}
}

// Info forwards an informational message.
func (l *TeeLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Info(ctx, msg, fields...)
	}
}

// Warn forwards a warning message.
func (l *TeeLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Warn(ctx, msg, fields...)
	}
}

// Error forwards an error message.
func (l *TeeLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Error(ctx, msg, fields...)
	}
}

// With returns a new TeeLogger whose children all carry the fields.
func (l *TeeLogger) With(fields ...ports.Field) ports.Logger {
	children := make([]ports.Logger, len(l.loggers))
	for i, lg := range l.loggers {
		children[i] = lg.With(fields...)
	}
	return &TeeLogger{loggers: children}
}

// Ensure TeeLogger implements Logger.
var _ ports.Logger = (*TeeLogger)(nil)
