// Package affordability implements the ICHRA affordability test: the
// member's net plan cost must not exceed a fixed percentage of one twelfth
// of household income.
package affordability

import (
	"github.com/shopspring/decimal"

	"github.com/benefitflow/ichra-engine/internal/domain"
)

// DefaultThresholdPercent is the regulatory percentage-of-income cap.
var DefaultThresholdPercent = decimal.NewFromFloat(0.095)

// Evaluator applies the affordability rule with a configurable threshold.
type Evaluator struct {
	ThresholdPercent decimal.Decimal
}

// NewEvaluator creates an evaluator with the default threshold.
func NewEvaluator() *Evaluator {
	return &Evaluator{ThresholdPercent: DefaultThresholdPercent}
}

// NewEvaluatorWithThreshold creates an evaluator with a custom threshold
// percentage, expressed as a fraction (0.095 for 9.5%).
func NewEvaluatorWithThreshold(pct decimal.Decimal) *Evaluator {
	return &Evaluator{ThresholdPercent: pct}
}

// Evaluate tests one member/contribution/premium combination. The margin is
// threshold minus employee share, so callers can report how close a case is
// rather than just pass/fail.
func (e *Evaluator) Evaluate(annualIncome, contribution, premium decimal.Decimal) domain.AffordabilityResult {
	share := premium.Sub(contribution)
	if share.IsNegative() {
		share = decimal.Zero
	}

	threshold := e.ThresholdPercent.Mul(annualIncome).Div(decimal.NewFromInt(12))

	return domain.AffordabilityResult{
		IsAffordable:  share.LessThanOrEqual(threshold),
		EmployeeShare: share,
		Threshold:     threshold,
		Margin:        threshold.Sub(share),
	}
}
