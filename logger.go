package sched

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with sched-specific context. This provides
// structured logging with consistent field names across every searcher.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithStateID adds a state identifier field to the logger.
func (l *Logger) WithStateID(id uint64) *Logger {
	return &Logger{Logger: l.Logger.With("state_id", id)}
}

// WithSearcher adds the emitting searcher's kind to the logger.
func (l *Logger) WithSearcher(kind string) *Logger {
	return &Logger{Logger: l.Logger.With("searcher", kind)}
}

// LogRevive logs a successful pending-state revival.
func (l *Logger) LogRevive(ctx context.Context, stateID uint64, queryTime time.Duration) {
	l.DebugContext(ctx, "state revived",
		"state_id", stateID,
		"query_time", queryTime,
	)
}

// LogKill logs a pending state killed after an infeasible or failed revival query.
func (l *Logger) LogKill(ctx context.Context, stateID uint64, queryTime time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "state killed after solver failure",
			"state_id", stateID,
			"query_time", queryTime,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "state killed as infeasible",
		"state_id", stateID,
		"query_time", queryTime,
	)
}

// LogDeepen logs an IterativeDeepeningTimeSearcher budget doubling.
func (l *Logger) LogDeepen(ctx context.Context, newBudget time.Duration, resumed int) {
	l.InfoContext(ctx, "deepening time budget",
		"budget", newBudget,
		"resumed", resumed,
	)
}

// LogBatchBudget logs a BatchingSearcher time or instruction budget adjustment.
func (l *Logger) LogBatchBudget(ctx context.Context, timeBudget time.Duration, instBudget uint64) {
	l.DebugContext(ctx, "batch budget adjusted",
		"time_budget", timeBudget,
		"instruction_budget", instBudget,
	)
}

// LogZestiBound logs a ZESTIPendingSearcher bound computed for a newly based state.
func (l *Logger) LogZestiBound(ctx context.Context, baseDepth, bound uint64) {
	l.DebugContext(ctx, "zesti bound set",
		"base_depth", baseDepth,
		"bound", bound,
	)
}
