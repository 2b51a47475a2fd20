package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TriState is an explicit three-valued constraint over a boolean plan
// attribute. The zero value is Unconstrained.
type TriState int

const (
	// Unconstrained imposes no restriction on the attribute.
	Unconstrained TriState = iota
	// Required matches only plans where the attribute is true.
	Required
	// Forbidden matches only plans where the attribute is false.
	Forbidden
)

// Matches reports whether a plan attribute value satisfies the constraint.
func (t TriState) Matches(v bool) bool {
	switch t {
	case Required:
		return v
	case Forbidden:
		return !v
	default:
		return true
	}
}

// String returns the canonical text form used by flags and settings.
func (t TriState) String() string {
	switch t {
	case Required:
		return "required"
	case Forbidden:
		return "excluded"
	default:
		return "any"
	}
}

// ParseTriState converts the text form back to a TriState.
func ParseTriState(s string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return Unconstrained, nil
	case "required", "true", "yes":
		return Required, nil
	case "excluded", "forbidden", "false", "no":
		return Forbidden, nil
	default:
		return Unconstrained, fmt.Errorf("unknown tri-state value: %q", s)
	}
}

// AmountRange is an inclusive [Min, Max] constraint over a monetary amount.
// A nil bound is open.
type AmountRange struct {
	Min *decimal.Decimal `yaml:"min,omitempty" json:"min,omitempty"`
	Max *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
}

// Contains reports whether v satisfies the range.
func (r AmountRange) Contains(v decimal.Decimal) bool {
	if r.Min != nil && v.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && v.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// IsOpen reports whether the range imposes no constraint.
func (r AmountRange) IsOpen() bool {
	return r.Min == nil && r.Max == nil
}

// FilterSpec is an immutable set of independent predicates over Plan. An
// empty set or zero value on a dimension means no restriction on that
// dimension. Callers replace the spec wholesale on every change; it is
// never mutated in place.
type FilterSpec struct {
	MetalLevels         []MetalLevel  `yaml:"metal_levels,omitempty" json:"metal_levels,omitempty"`
	Carriers            []string      `yaml:"carriers,omitempty" json:"carriers,omitempty"`
	PlanTypes           []PlanType    `yaml:"plan_types,omitempty" json:"plan_types,omitempty"`
	Market              MarketSegment `yaml:"market,omitempty" json:"market,omitempty"`
	Premium             AmountRange   `yaml:"premium,omitempty" json:"premium,omitempty"`
	Deductible          AmountRange   `yaml:"deductible,omitempty" json:"deductible,omitempty"`
	NetworkSize         NetworkSize   `yaml:"network_size,omitempty" json:"network_size,omitempty"`
	HSAEligible         TriState      `yaml:"hsa_eligible,omitempty" json:"hsa_eligible,omitempty"`
	CoversPrescriptions TriState      `yaml:"covers_prescriptions,omitempty" json:"covers_prescriptions,omitempty"`
	ICHRACompliantOnly  bool          `yaml:"ichra_compliant_only,omitempty" json:"ichra_compliant_only,omitempty"`
}
