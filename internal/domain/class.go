package domain

import "github.com/shopspring/decimal"

// AgeBand is an inclusive [MinAge, MaxAge] range carrying an override
// contribution. Bands within a class must not overlap; at most one band may
// match a given age.
type AgeBand struct {
	MinAge       int             `yaml:"min_age" json:"min_age"`
	MaxAge       int             `yaml:"max_age" json:"max_age"`
	Contribution decimal.Decimal `yaml:"contribution" json:"contribution"`
}

// Contains reports whether age falls inside the band.
func (b AgeBand) Contains(age int) bool {
	return age >= b.MinAge && age <= b.MaxAge
}

// Overlaps reports whether two bands share any age.
func (b AgeBand) Overlaps(other AgeBand) bool {
	return b.MinAge <= other.MaxAge && other.MinAge <= b.MaxAge
}

// BenefitClass groups employees sharing the same employer-contribution rule.
// The base contribution applies when no age band matches. The spouse,
// children, and family amounts are carried through from the class definition
// but are not stacked onto the employee amount; dependents are priced through
// family-structure plan tiers instead.
type BenefitClass struct {
	ID                   string          `yaml:"id" json:"id"`
	Name                 string          `yaml:"name" json:"name"`
	BaseContribution     decimal.Decimal `yaml:"base_contribution" json:"base_contribution"`
	SpouseContribution   decimal.Decimal `yaml:"spouse_contribution" json:"spouse_contribution"`
	ChildrenContribution decimal.Decimal `yaml:"children_contribution" json:"children_contribution"`
	FamilyContribution   decimal.Decimal `yaml:"family_contribution" json:"family_contribution"`
	AgeBands             []AgeBand       `yaml:"age_bands" json:"age_bands"`
}
