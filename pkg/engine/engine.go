// Package engine orchestrates the per-file analysis pipeline: build the
// construction tree, synthesize semantic nodes, annotate the tree, and
// evaluate rules. Per-file analysis is single-threaded; cross-file
// parallelism lives in Runner.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/axeline/axeline/pkg/axtree"
	"github.com/axeline/axeline/pkg/construction"
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/observability"
	"github.com/axeline/axeline/pkg/resolved"
	"github.com/axeline/axeline/pkg/rules"
	"github.com/axeline/axeline/pkg/semantic"
)

// ErrNoWidgetTree indicates the input expression did not resolve to a
// widget construction.
var ErrNoWidgetTree = errors.New("input is not a widget construction")

// Input is one analyzable unit: the resolved root expression of a build
// body plus the host capabilities for that file.
type Input struct {
	// File is the source path, used for reporting and span attribution.
	File string

	// Root is the resolved widget-construction expression.
	Root resolved.Expr

	// Eval provides constant evaluation over expressions in this file.
	Eval resolved.Evaluator

	// Resolver provides same-file component class resolution. May be nil.
	Resolver resolved.ComponentResolver
}

// Result is the outcome of analyzing one input.
type Result struct {
	File       string
	Tree       *axtree.Tree
	Violations []rules.Violation
	Err        error
}

// Engine runs the pipeline over inputs with a fixed rule set. One Engine
// serves a whole run; per-file state is derived per call.
type Engine struct {
	base    *semantic.Context
	ruleSet []*rules.Rule
	tracer  trace.Tracer
	metrics *observability.AnalysisMetrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTracer sets the tracer used for pipeline spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithMetrics sets the analysis metric instruments.
func WithMetrics(am *observability.AnalysisMetrics) Option {
	return func(e *Engine) { e.metrics = am }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine over the metadata table and rule set.
func New(table *metadata.Table, ruleSet []*rules.Rule, opts ...Option) *Engine {
	e := &Engine{
		ruleSet: ruleSet,
		tracer:  nooptrace.NewTracerProvider().Tracer("axeline"),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.base = semantic.NewContext(table, nil, nil, e.logger)

	if e.metrics != nil {
		e.base.SummaryObserver = func(hit bool) {
			e.metrics.RecordSummaryLookup(context.Background(), hit)
		}
	}

	return e
}

// AnalyzeFile runs the four pipeline stages over one input. Unresolvable
// input degrades per stage; the only Result error is an input that is
// not a widget construction at all.
func (e *Engine) AnalyzeFile(ctx context.Context, in Input) Result {
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "analyze_file",
		trace.WithAttributes(attribute.String("file", in.File)))
	defer span.End()

	result := Result{File: in.File}

	root := e.buildConstruction(ctx, in)
	if root == nil {
		result.Err = ErrNoWidgetTree

		return result
	}

	node := e.synthesize(ctx, in, root)
	if node == nil {
		result.Err = ErrNoWidgetTree

		return result
	}

	result.Tree = e.annotate(ctx, node)
	result.Violations, result.Err = e.evaluate(ctx, result.Tree)

	if e.metrics != nil {
		e.metrics.RecordFile(ctx, time.Since(start))

		for _, v := range result.Violations {
			e.metrics.RecordViolation(ctx, v.Rule)
		}
	}

	return result
}

func (e *Engine) buildConstruction(ctx context.Context, in Input) *construction.Node {
	_, span := e.tracer.Start(ctx, "build_construction_tree")
	defer span.End()

	return construction.NewBuilder(in.Eval).Build(in.Root)
}

func (e *Engine) synthesize(ctx context.Context, in Input, root *construction.Node) *semantic.Node {
	_, span := e.tracer.Start(ctx, "synthesize_semantics")
	defer span.End()

	fileCtx := e.base.WithFile(in.Eval, in.Resolver)

	return semantic.NewSynthesizer(fileCtx).Synthesize(root)
}

func (e *Engine) annotate(ctx context.Context, node *semantic.Node) *axtree.Tree {
	_, span := e.tracer.Start(ctx, "annotate_tree")
	defer span.End()

	return axtree.Annotate(node)
}

func (e *Engine) evaluate(ctx context.Context, tree *axtree.Tree) ([]rules.Violation, error) {
	_, span := e.tracer.Start(ctx, "evaluate_rules")
	defer span.End()

	violations, err := rules.Run(tree, e.ruleSet)
	if err != nil {
		e.logger.ErrorContext(ctx, "rule evaluation reported errors", slog.Any("error", err))
	}

	return violations, err
}
