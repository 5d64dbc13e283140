package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the evolve tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("evolve")

// SpanManager handles trace span lifecycle for adapter runs.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartAdaptSpan starts a span for an entire adapter run.
	StartAdaptSpan(ctx context.Context, adapter, runID string) (context.Context, trace.Span)

	// StartEventSpan starts a span for transforming one input event.
	// The event span should be a child of the adapt span.
	StartEventSpan(ctx context.Context, identity string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartAdaptSpan starts a span for an entire adapter run.
func (m *otelSpanManager) StartAdaptSpan(ctx context.Context, adapter, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "evolve.adapt",
		trace.WithAttributes(
			attribute.String("adapter.name", adapter),
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEventSpan starts a span for transforming one input event.
func (m *otelSpanManager) StartEventSpan(ctx context.Context, identity string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "evolve.transform",
		trace.WithAttributes(
			attribute.String("event.identity", identity),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
