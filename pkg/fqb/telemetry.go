package fqb

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/fivetwenty-io/fqb"

// telemetry holds the tracer and instruments of one Connection.
type telemetry struct {
	tracer          trace.Tracer
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
}

func newTelemetry(tracerProvider trace.TracerProvider, meterProvider metric.MeterProvider) *telemetry {
	meter := meterProvider.Meter(instrumentationName)

	requestsTotal, err := meter.Int64Counter(
		"fqb_requests_total",
		metric.WithDescription("Total number of Graph API requests"),
	)
	if err != nil {
		requestsTotal, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("fqb_requests_total")
	}

	requestDuration, err := meter.Float64Histogram(
		"fqb_request_duration_seconds",
		metric.WithDescription("Duration of Graph API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		requestDuration, _ = noop.NewMeterProvider().Meter(instrumentationName).Float64Histogram("fqb_request_duration_seconds")
	}

	return &telemetry{
		tracer:          tracerProvider.Tracer(instrumentationName),
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
	}
}

// startDispatchSpan creates a span for one Graph API dispatch.
func (t *telemetry) startDispatchSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "fqb.Connection.dispatch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graph.method", method),
			attribute.String("graph.path", path),
		),
	)
}

// finishDispatch records the outcome on the span and the instruments.
func (t *telemetry) finishDispatch(ctx context.Context, span trace.Span, method string, started time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.Bool("success", err == nil),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		graphErr := &Error{}
		if errors.As(err, &graphErr) {
			attrs = append(attrs, attribute.String("summary", graphErr.Summary()))
			span.SetAttributes(
				attribute.Int("graph.error.code", graphErr.Code()),
				attribute.String("graph.error.type", graphErr.Type()),
			)
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	options := metric.WithAttributes(attrs...)
	t.requestsTotal.Add(ctx, 1, options)
	t.requestDuration.Record(ctx, time.Since(started).Seconds(), options)
}
