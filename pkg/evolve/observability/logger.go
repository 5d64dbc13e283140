// Package observability provides structured logging, metrics, and tracing
// for the event adapter pipeline.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds adapter context to a logger.
// Returns a new logger with adapter and run_id fields.
func EnrichLogger(logger *slog.Logger, adapter, runID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("adapter", adapter),
		slog.String("run_id", runID),
	)
}

// LogAdaptStart logs the start of an adapter run over an event sequence.
func LogAdaptStart(logger *slog.Logger, adapter, runID string) {
	if logger == nil {
		return
	}
	logger.Info("adapter run starting",
		slog.String("adapter", adapter),
		slog.String("run_id", runID),
	)
}

// LogAdaptComplete logs adapter run completion.
func LogAdaptComplete(logger *slog.Logger, adapter, runID string, durationMs float64, eventsIn, itemsOut, errCount int) {
	if logger == nil {
		return
	}
	logger.Info("adapter run completed",
		slog.String("adapter", adapter),
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("events_in", eventsIn),
		slog.Int("items_out", itemsOut),
		slog.Int("errors", errCount),
	)
}

// LogEventStart logs the dispatch of one input event.
func LogEventStart(logger *slog.Logger, identity string) {
	if logger == nil {
		return
	}
	logger.Debug("transforming event",
		slog.String("event", identity),
	)
}

// LogEventItem logs one emitted output item.
func LogEventItem(logger *slog.Logger, identity string) {
	if logger == nil {
		return
	}
	logger.Debug("item emitted",
		slog.String("event", identity),
	)
}

// LogEventError logs an error item produced while transforming an event.
// Error items do not stop the pipeline, so this is a warning.
func LogEventError(logger *slog.Logger, identity string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("transform error",
		slog.String("event", identity),
		slog.String("error", err.Error()),
	)
}
