package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs query completion. Successful
// queries log at Debug so a wrapped engine stays quiet under the default
// level; failures log at Warn.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("engine query failed",
				slog.String("op", op.Name),
				slog.String("target", op.Target()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("engine query completed",
				slog.String("op", op.Name),
				slog.String("target", op.Target()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
