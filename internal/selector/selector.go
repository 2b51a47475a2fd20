// Package selector picks, per member, the lowest-cost-to-member plan from a
// filtered candidate set.
package selector

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/benefitflow/ichra-engine/internal/affordability"
	"github.com/benefitflow/ichra-engine/internal/contribution"
	"github.com/benefitflow/ichra-engine/internal/domain"
	"github.com/benefitflow/ichra-engine/internal/rating"
)

// Selector evaluates members against a candidate plan set.
type Selector struct {
	Afford *affordability.Evaluator
	AsOf   time.Time
}

// New creates a selector rating members as of the given reference date.
func New(afford *affordability.Evaluator, asOf time.Time) *Selector {
	return &Selector{Afford: afford, AsOf: asOf}
}

// SelectBest resolves the member's contribution once, prices every candidate
// plan, and selects the plan with the minimum out-of-pocket cost. Ties break
// by lower premium, then lower deductible, then catalog order, so repeated
// runs on identical input never change output.
//
// An empty candidate set, or one where no plan is eligible for the member,
// yields an unresolved outcome rather than an error. Per-plan rating errors
// and class configuration errors are collected and returned; they never
// abort the member's evaluation.
func (s *Selector) SelectBest(m *domain.Member, class *domain.BenefitClass, candidates []domain.Plan) (domain.MemberOutcome, []error) {
	var issues []error

	age := m.Age(s.AsOf)
	outcome := domain.MemberOutcome{
		MemberID:      m.ID,
		MemberName:    m.Name,
		Age:           age,
		PriorCost:     m.PriorCoverage.TotalCost(),
		PriorEmployer: m.PriorCoverage.EmployerContribution,
		PriorMember:   m.PriorCoverage.MemberContribution,
	}

	var contrib decimal.Decimal
	if class == nil {
		issues = append(issues, &domain.ConfigurationError{
			ClassID: m.BenefitClassID,
			Reason:  "benefit class not found for member " + m.ID,
		})
	} else {
		var err error
		contrib, err = contribution.Resolve(class, m, s.AsOf)
		if err != nil {
			issues = append(issues, err)
		}
	}
	outcome.Contribution = contrib

	var best *domain.Plan
	var bestPremium, bestOOP decimal.Decimal

	for i := range candidates {
		p := &candidates[i]
		premium, eligible, err := rating.ResolvePremium(p, m, age)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if !eligible {
			continue
		}

		oop := premium.Sub(contrib)
		if oop.IsNegative() {
			oop = decimal.Zero
		}

		if best == nil || betterThan(oop, premium, p, bestOOP, bestPremium, best) {
			best = p
			bestPremium = premium
			bestOOP = oop
		}
	}

	if best == nil {
		// No eligible plan: excluded from cost totals, counted separately.
		return outcome, issues
	}

	outcome.Resolved = true
	outcome.Plan = best
	outcome.Premium = bestPremium
	outcome.OutOfPocket = bestOOP
	outcome.Savings = outcome.PriorCost.Sub(outcome.NewTotalCost())
	outcome.Affordability = s.Afford.Evaluate(m.HouseholdIncome, contrib, bestPremium)

	return outcome, issues
}

// betterThan reports whether the challenger strictly beats the incumbent
// under the tie-break order: out-of-pocket, premium, deductible. Catalog
// order wins remaining ties because candidates are scanned in order and
// equal plans never displace the incumbent.
func betterThan(oop, premium decimal.Decimal, p *domain.Plan, bestOOP, bestPremium decimal.Decimal, best *domain.Plan) bool {
	if cmp := oop.Cmp(bestOOP); cmp != 0 {
		return cmp < 0
	}
	if cmp := premium.Cmp(bestPremium); cmp != 0 {
		return cmp < 0
	}
	return p.Deductible.LessThan(best.Deductible)
}

// EvaluateAll evaluates every member against the candidate set. Member
// evaluations are independent, so they run in parallel up to the given
// limit; a limit below 2 evaluates serially. Outcomes are returned in
// roster order regardless of completion order, and collected issues are
// flattened in roster order for determinism.
func (s *Selector) EvaluateAll(ctx context.Context, members []domain.Member, classes map[string]*domain.BenefitClass, candidates []domain.Plan, parallelism int) ([]domain.MemberOutcome, []error, error) {
	outcomes := make([]domain.MemberOutcome, len(members))
	perMember := make([][]error, len(members))

	if parallelism < 2 || len(members) < 2 {
		for i := range members {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			m := &members[i]
			outcomes[i], perMember[i] = s.SelectBest(m, classes[m.BenefitClassID], candidates)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for i := range members {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				m := &members[i]
				outcomes[i], perMember[i] = s.SelectBest(m, classes[m.BenefitClassID], candidates)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	}

	var issues []error
	for _, errs := range perMember {
		issues = append(issues, errs...)
	}
	return outcomes, issues, nil
}
