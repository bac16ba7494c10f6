package branchlogic

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/ast"
	"github.com/randalmurphal/branchlogic/pkg/branchlogic/dictionary"
	"github.com/randalmurphal/branchlogic/pkg/branchlogic/eval"
	"github.com/randalmurphal/branchlogic/pkg/branchlogic/observability"
	"github.com/randalmurphal/branchlogic/pkg/branchlogic/resolve"
)

// Engine evaluates branching logic against field-value providers.
// An Engine is safe for concurrent use.
//
// The zero-observability engine returned by New() with no options is
// equivalent to the package-level Parse function.
type Engine struct {
	cfg engineConfig
}

// New creates an Engine.
//
// Example:
//
//	engine := branchlogic.New(
//	    branchlogic.WithLogger(slog.Default()),
//	    branchlogic.WithMetrics(observability.NewMetricsRecorder()),
//	)
//	visible, err := engine.Parse(ctx, "[age] > 18", record)
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// CreateAST parses logic text into an AST without evaluating it.
// Useful for validating logic at dictionary load time.
func (e *Engine) CreateAST(text string) (ast.Node, error) {
	return e.cfg.grammar.CreateAST(text)
}

// Parse evaluates branching logic text against p and returns whether
// the condition holds. Empty or all-whitespace text is vacuously true.
//
// Errors are *grammar.SyntaxError for malformed text, *eval.TypeError
// for comparisons with no defined semantics, or a provider error.
func (e *Engine) Parse(ctx context.Context, text string, p resolve.Provider) (result bool, err error) {
	evalID := fmt.Sprintf("eval-%s", uuid.New().String()[:8])
	logger := observability.EnrichLogger(e.cfg.logger, evalID)

	start := time.Now()
	observability.LogParseStart(logger, text)

	ctx, span := e.cfg.spans.StartParseSpan(ctx, evalID)
	defer func() {
		e.cfg.spans.EndSpanWithError(span, err)
	}()

	counting := &countingProvider{inner: p, ctx: ctx, logger: logger, metrics: e.cfg.metrics}

	result, stage, err := e.pipeline(ctx, text, counting)
	duration := time.Since(start)
	durationMs := float64(duration.Milliseconds())

	e.cfg.metrics.RecordParse(ctx, err == nil, duration)
	if err != nil {
		if stage == stageParse {
			e.cfg.metrics.RecordSyntaxError(ctx)
		}
		observability.LogParseError(logger, stage, err, durationMs)
		return false, err
	}

	observability.LogParseComplete(logger, result, durationMs, int(counting.lookups.Load()))
	return result, nil
}

const (
	stageParse      = "parse"
	stageSubstitute = "substitute"
	stageEvaluate   = "evaluate"
)

// pipeline runs the three evaluation stages, returning the name of the
// stage that failed alongside any error.
func (e *Engine) pipeline(ctx context.Context, text string, p resolve.Provider) (bool, string, error) {
	_, span := e.cfg.spans.StartStageSpan(ctx, stageParse)
	tree, err := e.cfg.grammar.CreateAST(text)
	e.cfg.spans.EndSpanWithError(span, err)
	if err != nil {
		return false, stageParse, err
	}

	_, span = e.cfg.spans.StartStageSpan(ctx, stageSubstitute)
	substituted, err := resolve.Substitute(tree, p)
	e.cfg.spans.EndSpanWithError(span, err)
	if err != nil {
		return false, stageSubstitute, err
	}

	_, span = e.cfg.spans.StartStageSpan(ctx, stageEvaluate)
	result, err := eval.Evaluate(substituted)
	e.cfg.spans.EndSpanWithError(span, err)
	if err != nil {
		return false, stageEvaluate, err
	}

	return result, "", nil
}

// Visibility evaluates the branching logic of every field in dict
// against p and reports, per field name, whether the field should be
// shown. Fields without branching logic are always visible.
//
// Evaluation stops at the first error, identifying the offending field.
func (e *Engine) Visibility(ctx context.Context, dict *dictionary.Dictionary, p resolve.Provider) (map[string]bool, error) {
	visible := make(map[string]bool, dict.Len())
	for _, f := range dict.Fields() {
		if f.BranchingLogic == "" {
			visible[f.Name] = true
			continue
		}
		result, err := e.Parse(ctx, f.BranchingLogic, p)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		visible[f.Name] = result
	}
	return visible, nil
}

// countingProvider wraps a Provider, counting lookups and emitting
// per-lookup logs and metrics.
type countingProvider struct {
	inner   resolve.Provider
	ctx     context.Context
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	lookups atomic.Int64
}

func (c *countingProvider) Lookup(name, event, checkOption string) (any, error) {
	value, err := c.inner.Lookup(name, event, checkOption)
	c.lookups.Add(1)

	found := err == nil
	observability.LogLookup(c.logger, name, event, checkOption, found)
	c.metrics.RecordLookup(c.ctx, found)
	return value, err
}

// Compile-time check that the wrapper stays a Provider.
var _ resolve.Provider = (*countingProvider)(nil)
