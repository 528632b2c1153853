package middleware

import (
	"context"
	"time"
)

// Timeout returns middleware that enforces a per-query deadline. Each
// engine call runs under a context.WithTimeout of d; when the deadline
// is exceeded the context is cancelled and the engine should return
// context.DeadlineExceeded. A non-positive d disables the deadline.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}
