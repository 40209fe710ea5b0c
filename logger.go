package memcore

import (
	"context"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/memcore/memory"
)

// Logger wraps slog.Logger with memcore-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBackend adds a backend field to the logger.
func (l *Logger) WithBackend(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", name),
	}
}

// LogUsage logs an allocator usage snapshot.
func (l *Logger) LogUsage(ctx context.Context, stats memory.Stats) {
	if !stats.Tracking {
		l.InfoContext(ctx, "memory usage",
			"blocks", stats.AllocCount,
		)
		return
	}
	l.InfoContext(ctx, "memory usage",
		"blocks", stats.AllocCount,
		"current", humanize.IBytes(stats.CurrentBytes),
		"peak", humanize.IBytes(stats.PeakBytes),
		"denied", stats.Denied,
	)
}

// LogLeaks warns about blocks still live at shutdown.
// It reports whether any were found.
func (l *Logger) LogLeaks(ctx context.Context, stats memory.Stats) bool {
	if stats.AllocCount == 0 {
		l.DebugContext(ctx, "all blocks released")
		return false
	}
	args := []any{"blocks", stats.AllocCount}
	if stats.Tracking {
		args = append(args, "bytes", stats.CurrentBytes)
	}
	l.WarnContext(ctx, "leaked blocks at shutdown", args...)
	return true
}
