package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/PhucHuuDang/GraphQL/pkg/repository"

type telemetry struct {
	tracer   trace.Tracer
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry() telemetry {
	meter := otel.Meter(instrumentation)

	ops, err := meter.Int64Counter("repository.operations",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
	if err != nil {
		ops, _ = noop.NewMeterProvider().Meter(instrumentation).Int64Counter("repository.operations")
	}
	duration, err := meter.Float64Histogram("repository.duration",
		metric.WithDescription("Repository operation latency"),
		metric.WithUnit("ms"))
	if err != nil {
		duration, _ = noop.NewMeterProvider().Meter(instrumentation).Float64Histogram("repository.duration")
	}

	return telemetry{
		tracer:   otel.Tracer(instrumentation),
		ops:      ops,
		duration: duration,
	}
}

// start opens a span named repository.<Entity>.<Op>. The returned func must
// be called with the operation's final error.
func (t telemetry) start(ctx context.Context, entity, op string) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, "repository."+entity+"."+op,
		trace.WithAttributes(attribute.String("db.entity", entity)))
	began := time.Now()

	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		)
		t.ops.Add(ctx, 1, attrs)
		t.duration.Record(ctx, float64(time.Since(began).Microseconds())/1000, attrs)
		span.End()
	}
}
