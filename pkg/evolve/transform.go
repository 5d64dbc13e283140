package evolve

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/observability"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// transformConfig holds configuration for one adapter run.
type transformConfig struct {
	logger  *slog.Logger
	runID   string
	spans   observability.SpanManager
	metrics observability.MetricsRecorder
}

// defaultTransformConfig returns the default run configuration:
// no logging, no tracing, no metrics.
func defaultTransformConfig() transformConfig {
	return transformConfig{
		spans:   observability.NoopSpanManager{},
		metrics: observability.NoopMetrics{},
	}
}

// TransformOption configures an adapter run.
type TransformOption func(*transformConfig)

// WithLogger enables structured logging for the run.
func WithLogger(logger *slog.Logger) TransformOption {
	return func(c *transformConfig) {
		c.logger = logger
	}
}

// WithRunID sets the run identifier used in logs and spans.
// Auto-generated if not set.
func WithRunID(id string) TransformOption {
	return func(c *transformConfig) {
		c.runID = id
	}
}

// WithTracing enables OpenTelemetry tracing: one span per run, one child
// span per input event. Uses the global tracer provider.
func WithTracing() TransformOption {
	return func(c *transformConfig) {
		c.spans = observability.NewSpanManager()
	}
}

// WithMetrics enables OpenTelemetry metrics for the run.
// Uses the global meter provider.
func WithMetrics() TransformOption {
	return func(c *transformConfig) {
		c.metrics = observability.NewMetricsRecorder()
	}
}

// Transform dispatches a single event to the strategy bound to its identity
// and returns the strategy's output stream, normalized to the adapter-wide
// item type.
//
// Transform itself never fails: an event with no binding (possible only for
// events outside the registry's closed set) yields a single DispatchError
// item, and strategy failures are TransformError items. The stream is lazy;
// no strategy runs until it is consumed.
func (a *Adapter[Ctx, T]) Transform(ctx context.Context, cap Ctx, ev event.Event) stream.Stream[T] {
	cfg := defaultTransformConfig()
	return a.transform(ctx, cap, ev, &cfg)
}

func (a *Adapter[Ctx, T]) transform(ctx context.Context, cap Ctx, ev event.Event, cfg *transformConfig) stream.Stream[T] {
	id := event.IdentityOfEvent(ev)

	binding, ok := a.getBinding(id)
	if !ok {
		return stream.Fail[T](&DispatchError{Identity: id, Err: ErrUnbound})
	}

	inner := binding.apply(ctx, cap, ev)
	return func(yield func(T, error) bool) {
		observability.LogEventStart(cfg.logger, id.String())

		items, errCount := 0, 0
		inner(func(v T, err error) bool {
			if err != nil {
				errCount++
				err = &TransformError{Identity: id, Err: err}
				observability.LogEventError(cfg.logger, id.String(), err)
			} else {
				items++
				observability.LogEventItem(cfg.logger, id.String())
			}
			return yield(v, err)
		})

		cfg.metrics.RecordTransform(ctx, id.String(), items, errCount)
	}
}

// TransformAll consumes an input sequence of events and exposes a single
// flattened output stream, preserving order.
//
// For each input event, the strategy's output stream is fully drained before
// the next input event is pulled: all items produced from one event are
// contiguous, groups appear in input order, and at most one inner stream is
// live at a time. Error items are yielded like any other item and do not
// stop the driver; callers wanting fail-fast semantics stop consuming at the
// first error (stream.Collect does this).
//
// Everything is lazy and pull-based: breaking out of the range releases the
// input sequence and the current inner stream, and no work continues
// afterwards. Context cancellation is checked between input events and
// surfaces as a final error item.
func (a *Adapter[Ctx, T]) TransformAll(ctx context.Context, cap Ctx, events iter.Seq[event.Event], opts ...TransformOption) stream.Stream[T] {
	cfg := defaultTransformConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.New().String()
	}

	return func(yield func(T, error) bool) {
		start := time.Now()
		observability.LogAdaptStart(cfg.logger, a.name, cfg.runID)

		var runErr error
		eventsIn, itemsOut, errCount := 0, 0, 0

		runSpanCtx, runSpan := cfg.spans.StartAdaptSpan(ctx, a.name, cfg.runID)
		defer func() {
			cfg.spans.EndSpanWithError(runSpan, runErr)
			durationMs := float64(time.Since(start).Milliseconds())
			cfg.metrics.RecordAdapt(ctx, a.name, eventsIn, time.Since(start))
			observability.LogAdaptComplete(cfg.logger, a.name, cfg.runID, durationMs, eventsIn, itemsOut, errCount)
		}()

		for ev := range events {
			if err := ctx.Err(); err != nil {
				runErr = err
				var zero T
				yield(zero, err)
				return
			}

			eventsIn++
			id := event.IdentityOfEvent(ev)
			evCtx, evSpan := cfg.spans.StartEventSpan(runSpanCtx, id.String())

			inner := a.transform(evCtx, cap, ev, &cfg)
			stopped := false
			var lastErr error
			inner(func(v T, err error) bool {
				if err != nil {
					errCount++
					lastErr = err
				} else {
					itemsOut++
				}
				if !yield(v, err) {
					stopped = true
					return false
				}
				return true
			})

			cfg.spans.EndSpanWithError(evSpan, lastErr)
			if stopped {
				return
			}
		}
	}
}

// TransformStream is TransformAll for an input stream that can itself carry
// error items (a journal reader whose decode step can fail, for example).
// Input error items pass through to the output in position; the events
// around them are still processed.
func (a *Adapter[Ctx, T]) TransformStream(ctx context.Context, cap Ctx, events stream.Stream[event.Event], opts ...TransformOption) stream.Stream[T] {
	return func(yield func(T, error) bool) {
		// Split the input into events and pass-through errors, then reuse
		// the sequence driver per contiguous run of successful events.
		next, stop := events.Pull()
		defer stop()

		seq := func(innerYield func(event.Event) bool) {
			for {
				ev, err, ok := next()
				if !ok {
					return
				}
				if err != nil {
					var zero T
					if !yield(zero, err) {
						return
					}
					continue
				}
				if !innerYield(ev) {
					return
				}
			}
		}

		a.TransformAll(ctx, cap, seq, opts...)(yield)
	}
}
