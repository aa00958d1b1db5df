package sparsetag

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsetag-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithTable adds the table shape to the logger.
func (l *Logger) WithTable(rows, cols int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows, "cols", cols),
	}
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(column string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", column),
	}
}

// LogQuery logs a query evaluation.
func (l *Logger) LogQuery(ctx context.Context, matches int, cached bool, err error) {
	if err != nil {
		l.DebugContext(ctx, "query rejected",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"matches", matches,
			"cached", cached,
		)
	}
}

// LogReplace logs a whole-table replacement.
func (l *Logger) LogReplace(ctx context.Context, version uint64, nnz int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "data replacement failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "data replaced",
			"version", version,
			"nnz", nnz,
		)
	}
}

// LogOptimize logs an index-width decision.
func (l *Logger) LogOptimize(ctx context.Context, res OptimizeResult) {
	switch res.Outcome {
	case OptimizeSkippedRowIndex, OptimizeSkippedOffset:
		l.WarnContext(ctx, "index width optimization skipped",
			"reason", res.Outcome.String(),
			"target", res.To.String(),
			"max_row_index", res.MaxRowIndex,
			"max_offset", res.MaxOffset,
		)
	case OptimizeApplied:
		l.InfoContext(ctx, "index width optimized",
			"from", res.From.String(),
			"to", res.To.String(),
			"saved_bytes", res.SavedBytes,
		)
	default:
		l.DebugContext(ctx, "index width already optimal",
			"width", res.From.String(),
		)
	}
}

// LogCacheClear logs a cache clear.
func (l *Logger) LogCacheClear(ctx context.Context, entries int) {
	l.InfoContext(ctx, "result cache cleared",
		"entries", entries,
	)
}
