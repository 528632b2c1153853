package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for lens metrics.
const meterName = "github.com/xraph/lens"

// Metrics returns middleware that records per-query metrics using the
// global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - lens.engine.duration (Float64Histogram): query time in seconds,
//     with attributes: op, status ("ok" or "error")
//   - lens.engine.queries (Int64Counter): total queries,
//     with attributes: op, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"lens.engine.duration",
		metric.WithDescription("Duration of engine queries in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	queries, qErr := meter.Int64Counter(
		"lens.engine.queries",
		metric.WithDescription("Total number of engine queries"),
		metric.WithUnit("{query}"),
	)
	_ = qErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, op Op, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("op", op.Name),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		queries.Add(ctx, 1, attrs)

		return err
	}
}
