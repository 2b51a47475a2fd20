package domain

import "github.com/shopspring/decimal"

// AffordabilityResult is the outcome of the regulatory affordability test
// for one member/plan/contribution combination.
type AffordabilityResult struct {
	IsAffordable  bool            `json:"is_affordable"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	Threshold     decimal.Decimal `json:"threshold"`
	Margin        decimal.Decimal `json:"margin"` // threshold - employeeShare
}

// MemberOutcome is the per-member result of one computation pass. When
// Resolved is false the member had no eligible plan after filtering;
// Plan is nil and the cost fields are zero, and the member is excluded
// from cost totals.
type MemberOutcome struct {
	MemberID      string              `json:"member_id"`
	MemberName    string              `json:"member_name"`
	Age           int                 `json:"age"`
	Resolved      bool                `json:"resolved"`
	Contribution  decimal.Decimal     `json:"contribution"`
	Plan          *Plan               `json:"plan,omitempty"`
	Premium       decimal.Decimal     `json:"premium"`
	OutOfPocket   decimal.Decimal     `json:"out_of_pocket"`
	PriorCost     decimal.Decimal     `json:"prior_cost"`
	PriorEmployer decimal.Decimal     `json:"prior_employer"`
	PriorMember   decimal.Decimal     `json:"prior_member"`
	Savings       decimal.Decimal     `json:"savings"` // prior - new, resolved members only
	Affordability AffordabilityResult `json:"affordability"`
}

// NewTotalCost returns the combined monthly cost of the selected plan
// (employer contribution plus the member's out-of-pocket share).
func (o *MemberOutcome) NewTotalCost() decimal.Decimal {
	return o.Contribution.Add(o.OutOfPocket)
}

// PremiumStats is a premium distribution bucket: count of plans and
// min/max/average of their representative premiums.
type PremiumStats struct {
	Count   int             `json:"count"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
}

// GroupSummary rolls per-member outcomes up to the group level. Distributions
// cover the candidate plan set, not just selected plans, so callers can show
// how many plans of each kind exist independent of who chose them.
type GroupSummary struct {
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
	TotalEmployeeCost decimal.Decimal `json:"total_employee_cost"`
	TotalSavings      decimal.Decimal `json:"total_savings"`

	MembersWithSavings int `json:"members_with_savings"`
	MembersWithLoss    int `json:"members_with_loss"`
	ResolvedCount      int `json:"resolved_count"`
	UnresolvedCount    int `json:"unresolved_count"`
	AffordableCount    int `json:"affordable_count"`

	// ComplianceRate = affordable / resolved; zero when no member resolved.
	ComplianceRate decimal.Decimal `json:"compliance_rate"`

	CandidateCount int                         `json:"candidate_count"`
	ByCarrier      map[string]PremiumStats     `json:"by_carrier"`
	ByMetalLevel   map[MetalLevel]PremiumStats `json:"by_metal_level"`
}
