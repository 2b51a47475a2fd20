package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is one employee on the roster being quoted. Members are loaded once
// per computation pass and treated as read-only for the life of the pass.
type Member struct {
	ID              string          `yaml:"id" json:"id"`
	Name            string          `yaml:"name" json:"name"`
	BirthDate       time.Time       `yaml:"birth_date" json:"birth_date"`
	ZipCode         string          `yaml:"zip_code" json:"zip_code"`
	RatingArea      string          `yaml:"rating_area" json:"rating_area"`
	UsesTobacco     bool            `yaml:"uses_tobacco" json:"uses_tobacco"`
	HouseholdIncome decimal.Decimal `yaml:"household_income" json:"household_income"` // annual
	FamilySize      int             `yaml:"family_size" json:"family_size"`
	HasSpouse       bool            `yaml:"has_spouse" json:"has_spouse"`
	BenefitClassID  string          `yaml:"benefit_class_id" json:"benefit_class_id"`
	PriorCoverage   PriorCoverage   `yaml:"prior_coverage" json:"prior_coverage"`
}

// PriorCoverage records what the member's previous group coverage cost,
// split into the employer-paid and member-paid portions. All amounts monthly.
type PriorCoverage struct {
	EmployerContribution decimal.Decimal `yaml:"employer_contribution" json:"employer_contribution"`
	MemberContribution   decimal.Decimal `yaml:"member_contribution" json:"member_contribution"`
	PlanName             string          `yaml:"plan_name" json:"plan_name"`
	PlanType             PlanType        `yaml:"plan_type" json:"plan_type"`
	MetalLevel           MetalLevel      `yaml:"metal_level" json:"metal_level"`
}

// TotalCost returns the combined monthly cost of the prior coverage.
func (p PriorCoverage) TotalCost() decimal.Decimal {
	return p.EmployerContribution.Add(p.MemberContribution)
}

// Age calculates the member's age at a given reference date.
func (m *Member) Age(asOf time.Time) int {
	age := asOf.Year() - m.BirthDate.Year()
	if asOf.YearDay() < m.BirthDate.YearDay() {
		age--
	}
	return age
}
