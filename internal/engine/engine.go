// Package engine orchestrates the full quoting pipeline: catalog validation,
// filtering, per-member plan selection, and aggregation. Each recomputation
// pass is a pure function of an immutable input bundle.
package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/shopspring/decimal"

	"github.com/benefitflow/ichra-engine/internal/affordability"
	"github.com/benefitflow/ichra-engine/internal/aggregate"
	"github.com/benefitflow/ichra-engine/internal/domain"
	"github.com/benefitflow/ichra-engine/internal/planfilter"
	"github.com/benefitflow/ichra-engine/internal/rating"
	"github.com/benefitflow/ichra-engine/internal/selector"
	"github.com/benefitflow/ichra-engine/pkg/logger"
)

// Inputs is the immutable bundle a pass computes over. Callers own the
// snapshot: nothing here is mutated by the engine, and a new bundle replaces
// the old wholesale on any change.
type Inputs struct {
	AsOf    time.Time
	Members []domain.Member
	Classes []domain.BenefitClass
	Catalog []domain.Plan
	Filter  domain.FilterSpec
}

// Result is the complete output of one pass. Issues carries the data-level
// errors (rating, configuration) collected along the way; they degraded
// individual plans or members but did not abort the pass.
type Result struct {
	Summary    domain.GroupSummary
	Outcomes   []domain.MemberOutcome
	Candidates []domain.Plan
	Issues     []error
	ComputedAt time.Time
}

// Engine runs recomputation passes.
type Engine struct {
	afford      *affordability.Evaluator
	parallelism int
	log         logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholdPercent overrides the affordability threshold percentage,
// expressed as a fraction (0.095 for 9.5%).
func WithThresholdPercent(pct decimal.Decimal) Option {
	return func(e *Engine) {
		e.afford = affordability.NewEvaluatorWithThreshold(pct)
	}
}

// WithParallelism bounds concurrent member evaluations. Values below 2
// evaluate serially.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// New creates an engine with default affordability threshold and one worker
// per CPU.
func New(opts ...Option) *Engine {
	e := &Engine{
		afford:      affordability.NewEvaluator(),
		parallelism: runtime.NumCPU(),
		log:         logger.Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recompute runs one full pass: validate catalog, filter, select per member,
// aggregate. Per-member and per-plan data errors degrade locally and are
// collected on the Result. Only invariant violations and context
// cancellation fail the pass.
func (e *Engine) Recompute(ctx context.Context, in Inputs) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var issues []error

	// Exclude plans with corrupt rate data from the whole pass.
	catalog := make([]domain.Plan, 0, len(in.Catalog))
	for i := range in.Catalog {
		if err := rating.ValidatePlan(&in.Catalog[i]); err != nil {
			issues = append(issues, err)
			continue
		}
		catalog = append(catalog, in.Catalog[i])
	}

	candidates := planfilter.Apply(catalog, in.Filter)

	classesByID := make(map[string]*domain.BenefitClass, len(in.Classes))
	for i := range in.Classes {
		classesByID[in.Classes[i].ID] = &in.Classes[i]
	}

	sel := selector.New(e.afford, in.AsOf)
	outcomes, selIssues, err := sel.EvaluateAll(ctx, in.Members, classesByID, candidates, e.parallelism)
	if err != nil {
		return nil, err
	}
	issues = append(issues, selIssues...)

	summary, err := aggregate.Summarize(outcomes, candidates)
	if err != nil {
		return nil, err
	}

	if len(issues) > 0 {
		e.log.Warn(ctx, "pass completed with data issues",
			logger.Int("issues", len(issues)),
			logger.Int("members", len(in.Members)),
		)
	}

	return &Result{
		Summary:    summary,
		Outcomes:   outcomes,
		Candidates: candidates,
		Issues:     issues,
		ComputedAt: time.Now(),
	}, nil
}
