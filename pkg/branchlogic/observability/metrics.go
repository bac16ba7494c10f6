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

// MetricsRecorder records branchlogic metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordParse records a completed evaluation with its duration and
	// success status.
	RecordParse(ctx context.Context, success bool, duration time.Duration)

	// RecordSyntaxError records an input rejected by the grammar.
	RecordSyntaxError(ctx context.Context)

	// RecordLookup records a field-value lookup and whether the field
	// was found.
	RecordLookup(ctx context.Context, found bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	parses       metric.Int64Counter
	parseLatency metric.Float64Histogram
	syntaxErrors metric.Int64Counter
	lookups      metric.Int64Counter
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
	meter := otel.Meter("branchlogic")

	parses, err := meter.Int64Counter("branchlogic.parse.count",
		metric.WithDescription("Number of branching-logic evaluations"),
	)
	if err != nil {
		return nil, err
	}

	parseLatency, err := meter.Float64Histogram("branchlogic.parse.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	syntaxErrors, err := meter.Int64Counter("branchlogic.parse.syntax_errors",
		metric.WithDescription("Number of inputs rejected by the grammar"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("branchlogic.lookup.count",
		metric.WithDescription("Number of field-value lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		parses:       parses,
		parseLatency: parseLatency,
		syntaxErrors: syntaxErrors,
		lookups:      lookups,
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

// RecordParse records a completed evaluation.
func (m *otelMetrics) RecordParse(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.parses.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.parseLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSyntaxError records a rejected input.
func (m *otelMetrics) RecordSyntaxError(ctx context.Context) {
	m.syntaxErrors.Add(ctx, 1)
}

// RecordLookup records a field-value lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, found bool) {
	attrs := []attribute.KeyValue{
		attribute.Bool("found", found),
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}
