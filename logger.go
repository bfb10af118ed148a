package sparsego

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsego-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithOffset adds an offset field to the logger (useful for tagging
// positioned operations).
func (l *Logger) WithOffset(off int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("offset", off),
	}
}

// LogRead logs a positioned read.
func (l *Logger) LogRead(off int64, n int) {
	l.Debug("read completed",
		"offset", off,
		"bytes", n,
	)
}

// LogWrite logs a positioned write.
func (l *Logger) LogWrite(off int64, n int, err error) {
	if err != nil {
		l.Error("write failed",
			"offset", off,
			"error", err,
		)
	} else {
		l.Debug("write completed",
			"offset", off,
			"bytes", n,
		)
	}
}

// LogTrim logs a trim operation.
func (l *Logger) LogTrim() {
	l.Debug("store trimmed")
}
