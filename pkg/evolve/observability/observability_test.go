package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/evolve/pkg/evolve/observability"
)

// TestNoopSpanManager returns the context unchanged and tolerates every
// call shape.
func TestNoopSpanManager(t *testing.T) {
	m := observability.NoopSpanManager{}
	ctx := context.Background()

	runCtx, runSpan := m.StartAdaptSpan(ctx, "email", "run-1")
	assert.Equal(t, ctx, runCtx)

	evCtx, evSpan := m.StartEventSpan(runCtx, "email.added@r3")
	assert.Equal(t, runCtx, evCtx)

	m.EndSpanWithError(evSpan, errors.New("boom"))
	m.EndSpanWithError(runSpan, nil)
	m.AddSpanEvent(ctx, "item", attribute.String("k", "v"))
}

// TestNoopMetrics tolerates every call shape.
func TestNoopMetrics(t *testing.T) {
	m := observability.NoopMetrics{}
	m.RecordTransform(context.Background(), "email.added@r3", 2, 1)
	m.RecordAdapt(context.Background(), "email", 3, time.Millisecond)
}

// TestSpanManager_RecordsSpans runs the real span manager against an
// in-memory exporter and checks names, attributes, parentage, and status.
func TestSpanManager_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	m := observability.NewSpanManager()
	ctx := context.Background()

	runCtx, runSpan := m.StartAdaptSpan(ctx, "email", "run-1")
	_, evSpan := m.StartEventSpan(runCtx, "email.added@r3")

	m.EndSpanWithError(evSpan, errors.New("decode failed"))
	m.EndSpanWithError(runSpan, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ev, run := spans[0], spans[1]
	assert.Equal(t, "evolve.transform", ev.Name())
	assert.Equal(t, "evolve.adapt", run.Name())
	assert.Equal(t, run.SpanContext().SpanID(), ev.Parent().SpanID())

	assert.Contains(t, run.Attributes(), attribute.String("adapter.name", "email"))
	assert.Contains(t, run.Attributes(), attribute.String("run.id", "run-1"))
	assert.Contains(t, ev.Attributes(), attribute.String("event.identity", "email.added@r3"))

	assert.Equal(t, codes.Error, ev.Status().Code)
	assert.Equal(t, codes.Ok, run.Status().Code)
	require.Len(t, ev.Events(), 1)
	assert.Equal(t, "exception", ev.Events()[0].Name)
}

// TestMetricsRecorder records counters and the latency histogram through a
// manual reader.
func TestMetricsRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	m := observability.NewMetricsRecorder()
	ctx := context.Background()

	m.RecordTransform(ctx, "email.added@r3", 2, 1)
	m.RecordAdapt(ctx, "email", 3, 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	var latencyCount uint64
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			switch data := metric.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[metric.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					latencyCount += dp.Count
				}
			}
		}
	}

	assert.Equal(t, int64(1), sums["evolve.events_in"])
	assert.Equal(t, int64(2), sums["evolve.items_out"])
	assert.Equal(t, int64(1), sums["evolve.item_errors"])
	assert.Equal(t, int64(1), sums["evolve.adapt_runs"])
	assert.Equal(t, uint64(1), latencyCount)
}

// TestLogFunctions_NilLogger tolerates a nil logger everywhere.
func TestLogFunctions_NilLogger(t *testing.T) {
	observability.LogAdaptStart(nil, "email", "run-1")
	observability.LogAdaptComplete(nil, "email", "run-1", 1.5, 3, 4, 0)
	observability.LogEventStart(nil, "email.added@r3")
	observability.LogEventItem(nil, "email.added@r3")
	observability.LogEventError(nil, "email.added@r3", errors.New("boom"))
}

// TestEnrichLogger attaches adapter and run attributes to every record.
func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	enriched := observability.EnrichLogger(logger, "email", "run-1")
	enriched.Info("hello")

	logs := buf.String()
	assert.Contains(t, logs, "adapter=email")
	assert.Contains(t, logs, "run_id=run-1")

	assert.Nil(t, observability.EnrichLogger(nil, "email", "run-1"))
}
