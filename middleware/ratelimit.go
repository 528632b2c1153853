package middleware

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimit returns middleware that throttles engine queries to a
// maximum sustained rate of limit queries per second, with the given
// token-bucket burst size. Queries over the limit block until a token
// is available or the context is done. A burst of zero or less defaults
// to 1.
//
// Aggregate listings fan out into one query per job and per trigger, so
// a limiter shared by all queries also caps the fan-out.
func RateLimit(limit float64, burst int) Middleware {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return func(ctx context.Context, op Op, next Handler) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		return next(ctx)
	}
}
