package tagview

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

var nopLogger = zap.NewNop()

// LoggingContext returns a context carrying logger. Components read it with
// Logger.
func LoggingContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger carried by ctx, or a logger that discards
// everything.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return nopLogger
	}
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return nopLogger
}
