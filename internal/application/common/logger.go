package common

import (
	"context"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Logger provides structured logging for application services.
// It has the same shape as shared.Logger so either can be passed where the other is expected.
type Logger = shared.Logger

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok && logger != nil {
		return logger
	}
	return shared.NopLogger{}
}
