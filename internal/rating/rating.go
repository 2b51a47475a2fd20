// Package rating resolves monthly premiums from plan rate tables.
package rating

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/benefitflow/ichra-engine/internal/domain"
)

// childOnlyMaxAge is the oldest age rated on a child-only tier.
const childOnlyMaxAge = 20

// FamilyTierFor maps a member's family composition to a family-structure
// rate tier. The second return is false when no tier describes the member's
// household; such members are ineligible for family-rated plans rather than
// an error.
func FamilyTierFor(m *domain.Member, age int) (domain.FamilyTier, bool) {
	switch {
	case m.FamilySize <= 1:
		if age <= childOnlyMaxAge {
			return domain.TierChildOnly, true
		}
		return domain.TierIndividual, true
	case m.FamilySize == 2 && m.HasSpouse:
		return domain.TierCouple, true
	case !m.HasSpouse:
		return domain.TierSingleParent, true
	case m.FamilySize >= 3:
		return domain.TierFamily, true
	default:
		return "", false
	}
}

// ResolvePremium resolves the monthly premium for one plan and one member.
// The eligible return is false when the plan's family-structure table has no
// tier matching the member's household; the plan is then excluded from the
// member's candidates without error.
//
// A plan lacking both table types, or with a negative looked-up cell, is a
// hard RatingDataError: corrupt rate data must never silently coerce to zero.
func ResolvePremium(p *domain.Plan, m *domain.Member, age int) (premium decimal.Decimal, eligible bool, err error) {
	if p.AgeRates != nil {
		rate := p.AgeRates[ClampAge(age)]
		premium = rate.Regular
		if m.UsesTobacco {
			premium = rate.Tobacco
		}
		if premium.IsNegative() {
			return decimal.Zero, false, &domain.RatingDataError{
				PlanID: p.ID,
				Reason: "negative premium cell in age rate table",
			}
		}
		return premium, true, nil
	}

	if len(p.FamilyRates) > 0 {
		tier, ok := FamilyTierFor(m, age)
		if !ok {
			return decimal.Zero, false, nil
		}
		rate, ok := p.FamilyRates[tier]
		if !ok {
			return decimal.Zero, false, nil
		}
		if rate.IsNegative() {
			return decimal.Zero, false, &domain.RatingDataError{
				PlanID: p.ID,
				Reason: "negative premium for tier " + string(tier),
			}
		}
		return rate, true, nil
	}

	return decimal.Zero, false, &domain.RatingDataError{
		PlanID: p.ID,
		Reason: "plan has neither an age rate table nor a family rate table",
	}
}

// ClampAge clamps an age to the rated range [0, MaxRatedAge]. The table has
// no entries above MaxRatedAge; older members use the top rate.
func ClampAge(age int) int {
	if age < 0 {
		return 0
	}
	if age > domain.MaxRatedAge {
		return domain.MaxRatedAge
	}
	return age
}

// ValidatePlan checks a plan's premium determination data. It returns a
// RatingDataError when the plan lacks both table types, carries a negative
// cell, or violates the tobacco >= regular invariant at any age. Validation
// runs at load time; a failing plan is excluded from every pass.
func ValidatePlan(p *domain.Plan) error {
	if p.AgeRates == nil && len(p.FamilyRates) == 0 {
		return &domain.RatingDataError{
			PlanID: p.ID,
			Reason: "plan has neither an age rate table nor a family rate table",
		}
	}

	if p.AgeRates != nil {
		for age, rate := range p.AgeRates {
			if rate.Regular.IsNegative() || rate.Tobacco.IsNegative() {
				return &domain.RatingDataError{
					PlanID: p.ID,
					Reason: "negative premium at age " + strconv.Itoa(age),
				}
			}
			if rate.Tobacco.LessThan(rate.Regular) {
				return &domain.RatingDataError{
					PlanID: p.ID,
					Reason: "tobacco rate below regular rate at age " + strconv.Itoa(age),
				}
			}
		}
	}

	for tier, rate := range p.FamilyRates {
		if rate.IsNegative() {
			return &domain.RatingDataError{
				PlanID: p.ID,
				Reason: "negative premium for tier " + string(tier),
			}
		}
	}

	return nil
}
