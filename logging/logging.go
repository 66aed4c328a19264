// Package logging holds the process-wide zap logger.
package logging

import (
	"context"

	"go.uber.org/zap"
)

var baseLog *zap.Logger

// MustSetup builds the base logger once. debug selects zap's development config.
func MustSetup(debug bool) {
	if baseLog != nil {
		return
	}

	var err error
	if debug {
		baseLog, err = zap.NewDevelopment(zap.AddCaller())
	} else {
		baseLog, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
}

type contextKey int

const loggerKey contextKey = iota

func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, the base logger, or a no-op
// logger when MustSetup was never called.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
			return l
		}
	}
	if baseLog != nil {
		return baseLog
	}
	return zap.NewNop()
}

func Sync() {
	if baseLog != nil {
		_ = baseLog.Sync()
	}
}
