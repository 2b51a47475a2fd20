// Package planfilter narrows a plan catalog to the subset matching a
// multi-dimensional filter specification.
package planfilter

import "github.com/benefitflow/ichra-engine/internal/domain"

// Apply returns the order-preserving subset of catalog matching spec. It is
// a pure function: identical inputs always yield an identical result set in
// catalog order, so downstream tie-breaks stay deterministic. An empty
// result is valid and signals that no plans match the current filters.
func Apply(catalog []domain.Plan, spec domain.FilterSpec) []domain.Plan {
	out := make([]domain.Plan, 0, len(catalog))
	for i := range catalog {
		if Matches(&catalog[i], spec) {
			out = append(out, catalog[i])
		}
	}
	return out
}

// Matches evaluates the conjunction of the spec's ten dimensions for one
// plan, short-circuiting on the first failing dimension.
func Matches(p *domain.Plan, spec domain.FilterSpec) bool {
	if !matchesMetal(p, spec.MetalLevels) {
		return false
	}
	if !matchesCarrier(p, spec.Carriers) {
		return false
	}
	if !matchesPlanType(p, spec.PlanTypes) {
		return false
	}
	if spec.Market != "" && p.Market != spec.Market {
		return false
	}
	if !matchesPremium(p, spec.Premium) {
		return false
	}
	if !spec.Deductible.Contains(p.Deductible) {
		return false
	}
	if spec.NetworkSize != "" && p.NetworkSize != spec.NetworkSize {
		return false
	}
	if !spec.HSAEligible.Matches(p.HSAEligible) {
		return false
	}
	if !spec.CoversPrescriptions.Matches(p.CoversPrescriptions) {
		return false
	}
	if spec.ICHRACompliantOnly && !p.ICHRACompliant {
		return false
	}
	return true
}

func matchesMetal(p *domain.Plan, levels []domain.MetalLevel) bool {
	if len(levels) == 0 {
		return true
	}
	for _, l := range levels {
		if p.MetalLevel == l {
			return true
		}
	}
	return false
}

func matchesCarrier(p *domain.Plan, carriers []string) bool {
	if len(carriers) == 0 {
		return true
	}
	for _, c := range carriers {
		if p.Carrier == c {
			return true
		}
	}
	return false
}

func matchesPlanType(p *domain.Plan, types []domain.PlanType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if p.PlanType == t {
			return true
		}
	}
	return false
}

// matchesPremium compares the range against the plan's representative
// premium. A plan without a representative premium (no individual tier)
// cannot be verified against a bounded range and is excluded; an open range
// never excludes.
func matchesPremium(p *domain.Plan, r domain.AmountRange) bool {
	if r.IsOpen() {
		return true
	}
	display, ok := p.DisplayPremium()
	if !ok {
		return false
	}
	return r.Contains(display)
}
