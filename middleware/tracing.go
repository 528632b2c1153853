package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for lens tracing.
const tracerName = "github.com/xraph/lens"

// Tracing returns middleware that wraps each engine query in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a pass-through
// with zero overhead.
//
// Span names follow "lens.engine.<op>", e.g. "lens.engine.JobKeys".
// Key-addressed queries carry a lens.target attribute in "group.name"
// form. On error, the span status is set to codes.Error with the error
// message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		attrs := []attribute.KeyValue{
			attribute.String("lens.op", op.Name),
		}
		if target := op.Target(); target != "" {
			attrs = append(attrs, attribute.String("lens.target", target))
		}

		ctx, span := tracer.Start(ctx, "lens.engine."+op.Name,
			trace.WithAttributes(attrs...),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
