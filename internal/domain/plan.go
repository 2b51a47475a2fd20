package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MetalLevel is the ACA-standardized plan tier.
type MetalLevel string

const (
	MetalBronze       MetalLevel = "bronze"
	MetalSilver       MetalLevel = "silver"
	MetalGold         MetalLevel = "gold"
	MetalPlatinum     MetalLevel = "platinum"
	MetalCatastrophic MetalLevel = "catastrophic"
)

// PlanType is the plan's network/funding structure.
type PlanType string

const (
	PlanHMO  PlanType = "HMO"
	PlanPPO  PlanType = "PPO"
	PlanEPO  PlanType = "EPO"
	PlanPOS  PlanType = "POS"
	PlanHDHP PlanType = "HDHP"
)

// MarketSegment distinguishes on-exchange from off-exchange plans.
type MarketSegment string

const (
	MarketOn  MarketSegment = "on_market"
	MarketOff MarketSegment = "off_market"
)

// NetworkSize categorizes the breadth of a plan's provider network.
type NetworkSize string

const (
	NetworkSmall  NetworkSize = "small"
	NetworkMedium NetworkSize = "medium"
	NetworkLarge  NetworkSize = "large"
)

// FamilyTier keys a family-structure rate table.
type FamilyTier string

const (
	TierIndividual   FamilyTier = "individual"
	TierCouple       FamilyTier = "couple"
	TierFamily       FamilyTier = "family"
	TierSingleParent FamilyTier = "single_parent"
	TierChildOnly    FamilyTier = "child_only"
)

// MaxRatedAge is the highest age with its own rate table entry. Ages above
// it are rated at the MaxRatedAge rate.
const MaxRatedAge = 65

// DisplayAge is the reference age used when a single representative premium
// is needed for an age-indexed plan (candidate-set distributions, premium
// range filtering).
const DisplayAge = 40

// AgeRate is one rate-table cell: the regular and tobacco monthly premiums
// for a single integer age.
type AgeRate struct {
	Regular decimal.Decimal `yaml:"regular" json:"regular"`
	Tobacco decimal.Decimal `yaml:"tobacco" json:"tobacco"`
}

// AgeRateTable holds one AgeRate per integer age 0 through MaxRatedAge.
type AgeRateTable [MaxRatedAge + 1]AgeRate

// UnmarshalYAML decodes a sequence of exactly MaxRatedAge+1 entries. A table
// of any other length is authored incorrectly and rejected at load.
func (t *AgeRateTable) UnmarshalYAML(value *yaml.Node) error {
	var rates []AgeRate
	if err := value.Decode(&rates); err != nil {
		return err
	}
	if len(rates) != len(t) {
		return fmt.Errorf("age rate table must have %d entries (ages 0-%d), got %d", len(t), MaxRatedAge, len(rates))
	}
	copy(t[:], rates)
	return nil
}

// FamilyRateTable maps family tiers to fixed monthly premiums.
type FamilyRateTable map[FamilyTier]decimal.Decimal

// Plan is one candidate insurance plan from the catalog.
type Plan struct {
	ID                  string          `yaml:"id" json:"id"`
	Name                string          `yaml:"name" json:"name"`
	Carrier             string          `yaml:"carrier" json:"carrier"`
	MetalLevel          MetalLevel      `yaml:"metal_level" json:"metal_level"`
	PlanType            PlanType        `yaml:"plan_type" json:"plan_type"`
	Market              MarketSegment   `yaml:"market" json:"market"`
	AgeRates            *AgeRateTable   `yaml:"age_rates,omitempty" json:"age_rates,omitempty"`
	FamilyRates         FamilyRateTable `yaml:"family_rates,omitempty" json:"family_rates,omitempty"`
	Deductible          decimal.Decimal `yaml:"deductible" json:"deductible"`
	OutOfPocketMax      decimal.Decimal `yaml:"out_of_pocket_max" json:"out_of_pocket_max"`
	NetworkSize         NetworkSize     `yaml:"network_size" json:"network_size"`
	HSAEligible         bool            `yaml:"hsa_eligible" json:"hsa_eligible"`
	CoversPrescriptions bool            `yaml:"covers_prescriptions" json:"covers_prescriptions"`
	ICHRACompliant      bool            `yaml:"ichra_compliant" json:"ichra_compliant"`
}

// DisplayPremium returns a single representative monthly premium for the
// plan: the non-tobacco rate at DisplayAge for age-indexed plans, or the
// individual tier for family-structure plans. The second return is false
// when the plan has no representative premium (no individual tier).
func (p *Plan) DisplayPremium() (decimal.Decimal, bool) {
	if p.AgeRates != nil {
		return p.AgeRates[DisplayAge].Regular, true
	}
	if rate, ok := p.FamilyRates[TierIndividual]; ok {
		return rate, true
	}
	return decimal.Zero, false
}
