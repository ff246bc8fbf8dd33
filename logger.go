package fastsets

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger is the structured logger used by transforms. Its helpers attach the
// same attribute names to every record.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text to stderr at Info.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, leveled(slog.LevelInfo))
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON records at or above level to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, leveled(level)))
}

// NewTextLogger logs key=value records at or above level to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, leveled(level)))
}

// NoopLogger discards every record.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

func leveled(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level}
}

// WithDomain adds the domain name and instance ID to the logger.
func (l *Logger) WithDomain(name, id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("domain", name, "domain_id", id),
	}
}

// LogBuild logs a transform construction.
func (l *Logger) LogBuild(width, mapped int, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("transform build failed",
			"width", width,
			"error", err,
		)
		return
	}
	l.Debug("transform built",
		"width", width,
		"mapped", mapped,
		"holes", width-mapped,
		"elapsed", elapsed,
	)
}

// LogApply logs a single transform application.
func (l *Logger) LogApply(in, out int, err error) {
	if err != nil {
		l.Warn("transform apply failed",
			"error", err,
		)
		return
	}
	l.Debug("transform applied",
		"in", in,
		"out", out,
	)
}

// LogApplyAll logs a batch application.
func (l *Logger) LogApplyAll(ctx context.Context, count int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch apply failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "batch apply completed",
		"count", count,
		"elapsed", elapsed,
	)
}
