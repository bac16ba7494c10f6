// Package observability provides production-grade observability
// features for branching-logic evaluation: structured logging,
// metrics, and distributed tracing.
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
	"time"
)

// EnrichLogger adds evaluation context to a logger.
// Returns a new logger with an eval_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "eval-a1b2c3d4")
//	enriched.Info("substituting") // includes eval_id
func EnrichLogger(logger *slog.Logger, evalID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("eval_id", evalID),
	)
}

// LogParseStart logs the start of a branching-logic evaluation.
func LogParseStart(logger *slog.Logger, logic string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("logic", logic),
	)
}

// LogParseComplete logs a successful evaluation.
func LogParseComplete(logger *slog.Logger, result bool, durationMs float64, lookups int) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation completed",
		slog.Bool("result", result),
		slog.Float64("duration_ms", durationMs),
		slog.Int("lookups", lookups),
	)
}

// LogParseError logs an evaluation failure, naming the pipeline stage
// that produced it (parse, substitute, or evaluate).
func LogParseError(logger *slog.Logger, stage string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("evaluation failed",
		slog.String("stage", stage),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogLookup logs a single field-value lookup.
func LogLookup(logger *slog.Logger, field, event, checkOption string, found bool) {
	if logger == nil {
		return
	}
	logger.Debug("field lookup",
		slog.String("field", field),
		slog.String("event", event),
		slog.String("check_option", checkOption),
		slog.Bool("found", found),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
