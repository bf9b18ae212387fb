package logging

import (
	"context"
	"log/slog"
	"os"
)

// Options control handler construction for New.
type Options struct {
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// Debug lowers the handler level to slog.LevelDebug.
	Debug bool
}

// New returns a logger writing to STDERR, configured per opts. Telemetry
// sinks own STDOUT, so diagnostics stay off it.
func New(opts Options) *slog.Logger {
	h := &slog.HandlerOptions{}
	if opts.Debug {
		h.Level = slog.LevelDebug
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, h))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, h))
}

type ctxKey struct{}

// NewContext returns a copy of ctx with the logger stored.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves a logger from ctx or returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
