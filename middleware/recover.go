package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from panics in the engine
// call. Panics are converted to errors and logged with a stack trace, so
// a misbehaving driver degrades a single query instead of taking down
// the caller.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, op Op, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("engine query panicked",
					slog.String("op", op.Name),
					slog.String("target", op.Target()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in %s: %v", op.Name, r)
			}
		}()
		return next(ctx)
	}
}
