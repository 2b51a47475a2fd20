// Package aggregate rolls per-member outcomes up into group-level summary
// statistics.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/benefitflow/ichra-engine/internal/domain"
)

// Summarize computes the GroupSummary for one pass. Cost totals and savings
// cover resolved members only; unresolved members are reported in a distinct
// count and excluded from both sides of the compliance rate. Distributions
// cover the candidate plan set, not just selected plans.
//
// Duplicate member IDs in the outcome set indicate a defect upstream and are
// fatal to the pass as an InvariantViolation.
func Summarize(outcomes []domain.MemberOutcome, candidates []domain.Plan) (domain.GroupSummary, error) {
	seen := make(map[string]struct{}, len(outcomes))
	summary := domain.GroupSummary{
		CandidateCount: len(candidates),
		ByCarrier:      make(map[string]domain.PremiumStats),
		ByMetalLevel:   make(map[domain.MetalLevel]domain.PremiumStats),
	}

	for i := range outcomes {
		o := &outcomes[i]
		if o.MemberID == "" {
			return domain.GroupSummary{}, &domain.InvariantViolation{Detail: "outcome with empty member ID"}
		}
		if _, dup := seen[o.MemberID]; dup {
			return domain.GroupSummary{}, &domain.InvariantViolation{Detail: "duplicate outcome for member " + o.MemberID}
		}
		seen[o.MemberID] = struct{}{}

		if !o.Resolved {
			summary.UnresolvedCount++
			continue
		}

		summary.ResolvedCount++
		summary.TotalEmployerCost = summary.TotalEmployerCost.Add(o.Contribution)
		summary.TotalEmployeeCost = summary.TotalEmployeeCost.Add(o.OutOfPocket)
		summary.TotalSavings = summary.TotalSavings.Add(o.Savings)

		switch {
		case o.Savings.IsPositive():
			summary.MembersWithSavings++
		case o.Savings.IsNegative():
			summary.MembersWithLoss++
		}

		if o.Affordability.IsAffordable {
			summary.AffordableCount++
		}
	}

	if summary.ResolvedCount > 0 {
		summary.ComplianceRate = decimal.NewFromInt(int64(summary.AffordableCount)).
			Div(decimal.NewFromInt(int64(summary.ResolvedCount)))
	}

	summary.ByCarrier = carrierDistribution(candidates)
	summary.ByMetalLevel = metalDistribution(candidates)

	return summary, nil
}

func carrierDistribution(candidates []domain.Plan) map[string]domain.PremiumStats {
	groups := make(map[string][]decimal.Decimal)
	for i := range candidates {
		if premium, ok := candidates[i].DisplayPremium(); ok {
			groups[candidates[i].Carrier] = append(groups[candidates[i].Carrier], premium)
		}
	}
	out := make(map[string]domain.PremiumStats, len(groups))
	for carrier, premiums := range groups {
		out[carrier] = stats(premiums)
	}
	return out
}

func metalDistribution(candidates []domain.Plan) map[domain.MetalLevel]domain.PremiumStats {
	groups := make(map[domain.MetalLevel][]decimal.Decimal)
	for i := range candidates {
		if premium, ok := candidates[i].DisplayPremium(); ok {
			groups[candidates[i].MetalLevel] = append(groups[candidates[i].MetalLevel], premium)
		}
	}
	out := make(map[domain.MetalLevel]domain.PremiumStats, len(groups))
	for level, premiums := range groups {
		out[level] = stats(premiums)
	}
	return out
}

func stats(premiums []decimal.Decimal) domain.PremiumStats {
	s := domain.PremiumStats{Count: len(premiums)}
	if len(premiums) == 0 {
		return s
	}
	s.Min = premiums[0]
	s.Max = premiums[0]
	total := decimal.Zero
	for _, p := range premiums {
		if p.LessThan(s.Min) {
			s.Min = p
		}
		if p.GreaterThan(s.Max) {
			s.Max = p
		}
		total = total.Add(p)
	}
	s.Average = total.Div(decimal.NewFromInt(int64(len(premiums))))
	return s
}
