package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records adapter pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTransform records the transformation of one input event:
	// how many output items it produced and whether any were errors.
	RecordTransform(ctx context.Context, identity string, items, errCount int)

	// RecordAdapt records a completed adapter run over an event sequence.
	RecordAdapt(ctx context.Context, adapter string, eventsIn int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	eventsIn     metric.Int64Counter
	itemsOut     metric.Int64Counter
	itemErrors   metric.Int64Counter
	adaptRuns    metric.Int64Counter
	adaptLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("evolve")

	eventsIn, err := meter.Int64Counter("evolve.events_in",
		metric.WithDescription("Number of input events dispatched"),
	)
	if err != nil {
		return nil, err
	}

	itemsOut, err := meter.Int64Counter("evolve.items_out",
		metric.WithDescription("Number of transformed items emitted"),
	)
	if err != nil {
		return nil, err
	}

	itemErrors, err := meter.Int64Counter("evolve.item_errors",
		metric.WithDescription("Number of error items emitted"),
	)
	if err != nil {
		return nil, err
	}

	adaptRuns, err := meter.Int64Counter("evolve.adapt_runs",
		metric.WithDescription("Number of adapter runs"),
	)
	if err != nil {
		return nil, err
	}

	adaptLatency, err := meter.Float64Histogram("evolve.adapt.latency_ms",
		metric.WithDescription("Adapter run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		eventsIn:     eventsIn,
		itemsOut:     itemsOut,
		itemErrors:   itemErrors,
		adaptRuns:    adaptRuns,
		adaptLatency: adaptLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordTransform records the transformation of one input event.
func (m *otelMetrics) RecordTransform(ctx context.Context, identity string, items, errCount int) {
	attrs := []attribute.KeyValue{
		attribute.String("event.identity", identity),
	}

	m.eventsIn.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.itemsOut.Add(ctx, int64(items), metric.WithAttributes(attrs...))
	if errCount > 0 {
		m.itemErrors.Add(ctx, int64(errCount), metric.WithAttributes(attrs...))
	}
}

// RecordAdapt records a completed adapter run.
func (m *otelMetrics) RecordAdapt(ctx context.Context, adapter string, eventsIn int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("adapter.name", adapter),
	}
	m.adaptRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.adaptLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
