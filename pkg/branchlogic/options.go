package branchlogic

import (
	"log/slog"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/grammar"
	"github.com/randalmurphal/branchlogic/pkg/branchlogic/observability"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	grammar *grammar.Grammar
	logger  *slog.Logger
	spans   observability.SpanManager
	metrics observability.MetricsRecorder
}

// defaultEngineConfig returns the default engine configuration.
// Observability is off: no logger, no-op spans and metrics.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		grammar: grammar.New(),
		spans:   observability.NoopSpanManager{},
		metrics: observability.NoopMetrics{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the structured logger for evaluation events.
// A nil logger (the default) disables logging.
//
// Example:
//
//	engine := branchlogic.New(branchlogic.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithGrammar sets the grammar used to parse logic text.
// Useful when sharing one Grammar instance across engines.
func WithGrammar(g *grammar.Grammar) Option {
	return func(c *engineConfig) {
		if g != nil {
			c.grammar = g
		}
	}
}

// WithSpanManager enables tracing with the given span manager.
//
// Example:
//
//	engine := branchlogic.New(
//	    branchlogic.WithSpanManager(observability.NewSpanManager()),
//	)
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithMetrics enables metrics with the given recorder.
//
// Example:
//
//	engine := branchlogic.New(
//	    branchlogic.WithMetrics(observability.NewMetricsRecorder()),
//	)
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}
