// Package middleware provides composable middleware for engine queries.
//
// A [Middleware] is a function that wraps a single engine query.
// Middleware are composed into a chain using [Chain] and applied to an
// engine with [Wrap]. They are applied right-to-left: the first
// middleware in the slice is the outermost wrapper.
//
//	// logging → recover → engine
//	eng := middleware.Wrap(backend, middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging] -- logs each query's op, target, duration, and outcome
//   - [Recover] -- catches panics in the engine and converts them to errors
//   - [Timeout] -- cancels the query context after a configured duration
//   - [Tracing] -- wraps each query in an OpenTelemetry span
//   - [Metrics] -- records per-query duration and outcome counters
//   - [RateLimit] -- throttles queries with a token-bucket limiter
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, op middleware.Op, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting (e.g., rate limiting with a full bucket).
package middleware
