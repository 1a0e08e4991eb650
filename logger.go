package drawmatch

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with drawmatch-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource adds the name of the player source to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogLoad logs the end of a load phase.
func (l *Logger) LogLoad(ctx context.Context, stats LoadStats, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"loaded", stats.Loaded,
			"skipped", stats.Skipped,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "load completed",
		"lines", stats.Lines,
		"loaded", stats.Loaded,
		"skipped", stats.Skipped,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogSkip logs a malformed input line.
func (l *Logger) LogSkip(ctx context.Context, line int, err error) {
	l.DebugContext(ctx, "line skipped",
		"line", line,
		"reason", err,
	)
}

// LogQuery logs a query and its latency.
func (l *Logger) LogQuery(ctx context.Context, tally Tally, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"tally", tally.String(),
		"duration_us", duration.Microseconds(),
	)
}

// LogSnapshot logs a snapshot save or restore.
func (l *Logger) LogSnapshot(ctx context.Context, op string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot completed",
		"op", op,
		"players", count,
	)
}
