package logger

import (
	"context"
	"log/slog"
)

// Request-scoped loggers accumulate fields (trace ID, acting user) as a
// request moves through the middleware chain.

type requestLoggerKey struct{}

// With returns a context whose logger carries the extra fields on top of
// whatever the context already held.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, requestLoggerKey{}, From(ctx).With(fields...))
}

// From returns the request-scoped logger, falling back to the process-wide
// one when the context has none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
