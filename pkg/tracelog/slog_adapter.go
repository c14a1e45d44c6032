package tracelog

import (
	"context"
	"log/slog"
	"os"
)

// SlogAdapter writes trace Events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log implements Logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("trace_id", event.TraceID),
		slog.String("kind", event.Kind.String()),
	}
	if event.Subject != "" {
		attrs = append(attrs, slog.String("subject", event.Subject))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "tracelog", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)

// EnvVar is the environment variable that gates diagnostic tracing.
// When unset or not "1", FromEnv returns NoOp.
const EnvVar = "NCMAT_TRACE"

// FromEnv returns a SlogAdapter writing to slog.Default() if EnvVar is set
// to "1", otherwise NoOp so call sites pay no cost.
func FromEnv() Logger {
	if os.Getenv(EnvVar) != "1" {
		return NoOp
	}
	return NewSlogAdapter(slog.Default())
}
