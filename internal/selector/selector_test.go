package selector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefitflow/ichra-engine/internal/affordability"
	"github.com/benefitflow/ichra-engine/internal/domain"
)

var asOf = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func flatRates(regular float64) *domain.AgeRateTable {
	var t domain.AgeRateTable
	r := decimal.NewFromFloat(regular)
	for i := range t {
		t[i] = domain.AgeRate{Regular: r, Tobacco: r.Mul(decimal.NewFromFloat(1.2))}
	}
	return &t
}

func agePlan(id string, premium float64, deductible int64) domain.Plan {
	return domain.Plan{
		ID:         id,
		Name:       id,
		AgeRates:   flatRates(premium),
		Deductible: decimal.NewFromInt(deductible),
	}
}

func testClass(base int64) *domain.BenefitClass {
	return &domain.BenefitClass{
		ID:               "standard",
		BaseContribution: decimal.NewFromInt(base),
	}
}

func testMember(id string) *domain.Member {
	return &domain.Member{
		ID:              id,
		Name:            "Member " + id,
		BirthDate:       time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), // age 34
		HouseholdIncome: decimal.NewFromInt(65000),
		FamilySize:      1,
		BenefitClassID:  "standard",
	}
}

func newSelector() *Selector {
	return New(affordability.NewEvaluator(), asOf)
}

func TestSelectBestPicksLowestOutOfPocket(t *testing.T) {
	candidates := []domain.Plan{
		agePlan("pricey", 700, 2000),
		agePlan("cheap", 480, 5000),
		agePlan("middle", 550, 3500),
	}

	outcome, issues := newSelector().SelectBest(testMember("m1"), testClass(450), candidates)

	require.Empty(t, issues)
	require.True(t, outcome.Resolved)
	assert.Equal(t, "cheap", outcome.Plan.ID)
	assert.Equal(t, "30.00", outcome.OutOfPocket.StringFixed(2))
	assert.Equal(t, "480.00", outcome.Premium.StringFixed(2))
	assert.Equal(t, "450.00", outcome.Contribution.StringFixed(2))
}

func TestSelectBestTieBreaks(t *testing.T) {
	// Contribution 600 covers both premiums fully: out-of-pocket ties at zero,
	// so the lower premium wins.
	candidates := []domain.Plan{
		agePlan("higher-premium", 550, 1000),
		agePlan("lower-premium", 500, 4000),
	}
	outcome, issues := newSelector().SelectBest(testMember("m1"), testClass(600), candidates)
	require.Empty(t, issues)
	require.True(t, outcome.Resolved)
	assert.Equal(t, "lower-premium", outcome.Plan.ID)

	// Identical out-of-pocket and premium: lower deductible wins.
	candidates = []domain.Plan{
		agePlan("high-deductible", 500, 4000),
		agePlan("low-deductible", 500, 1500),
	}
	outcome, issues = newSelector().SelectBest(testMember("m1"), testClass(450), candidates)
	require.Empty(t, issues)
	assert.Equal(t, "low-deductible", outcome.Plan.ID)

	// Full tie on all three: first in catalog order wins.
	candidates = []domain.Plan{
		agePlan("first", 500, 2000),
		agePlan("second", 500, 2000),
	}
	outcome, issues = newSelector().SelectBest(testMember("m1"), testClass(450), candidates)
	require.Empty(t, issues)
	assert.Equal(t, "first", outcome.Plan.ID)
}

func TestSelectBestSkipsIneligibleTiers(t *testing.T) {
	// The cheaper plan only rates couples; the individual member cannot use it.
	candidates := []domain.Plan{
		{
			ID: "couples-only",
			FamilyRates: domain.FamilyRateTable{
				domain.TierCouple: decimal.NewFromInt(300),
			},
		},
		agePlan("individual-ok", 520, 3000),
	}

	outcome, issues := newSelector().SelectBest(testMember("m1"), testClass(450), candidates)

	require.Empty(t, issues)
	require.True(t, outcome.Resolved)
	assert.Equal(t, "individual-ok", outcome.Plan.ID)
}

func TestSelectBestNoEligiblePlan(t *testing.T) {
	candidates := []domain.Plan{
		{
			ID: "couples-only",
			FamilyRates: domain.FamilyRateTable{
				domain.TierCouple: decimal.NewFromInt(300),
			},
		},
	}

	outcome, issues := newSelector().SelectBest(testMember("m1"), testClass(450), candidates)

	require.Empty(t, issues)
	assert.False(t, outcome.Resolved)
	assert.Nil(t, outcome.Plan)
	assert.Equal(t, "450.00", outcome.Contribution.StringFixed(2), "contribution still resolves")
}

func TestSelectBestEmptyCandidates(t *testing.T) {
	outcome, issues := newSelector().SelectBest(testMember("m1"), testClass(450), nil)
	require.Empty(t, issues)
	assert.False(t, outcome.Resolved)
}

func TestSelectBestCollectsRatingErrors(t *testing.T) {
	bad := agePlan("corrupt", 500, 2000)
	bad.AgeRates[34] = domain.AgeRate{Regular: decimal.NewFromInt(-1)}
	candidates := []domain.Plan{bad, agePlan("good", 520, 3000)}

	outcome, issues := newSelector().SelectBest(testMember("m1"), testClass(450), candidates)

	require.Len(t, issues, 1)
	var rde *domain.RatingDataError
	assert.True(t, errors.As(issues[0], &rde))
	require.True(t, outcome.Resolved, "a corrupt plan degrades, not aborts")
	assert.Equal(t, "good", outcome.Plan.ID)
}

func TestSelectBestMissingClass(t *testing.T) {
	outcome, issues := newSelector().SelectBest(testMember("m1"), nil, []domain.Plan{agePlan("p", 500, 2000)})

	require.Len(t, issues, 1)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(issues[0], &cfgErr))
	require.True(t, outcome.Resolved)
	assert.Equal(t, "0.00", outcome.Contribution.StringFixed(2), "missing class means zero contribution")
	assert.Equal(t, "500.00", outcome.OutOfPocket.StringFixed(2))
}

func TestSelectBestSavings(t *testing.T) {
	m := testMember("m1")
	m.PriorCoverage = domain.PriorCoverage{
		EmployerContribution: decimal.NewFromInt(500),
		MemberContribution:   decimal.NewFromInt(150),
	}

	outcome, issues := newSelector().SelectBest(m, testClass(450), []domain.Plan{agePlan("p", 480, 2000)})

	require.Empty(t, issues)
	require.True(t, outcome.Resolved)
	// Prior total 650, new total 450 + 30 = 480.
	assert.Equal(t, "170.00", outcome.Savings.StringFixed(2))
}

func TestEvaluateAllParallelMatchesSerial(t *testing.T) {
	members := make([]domain.Member, 8)
	for i := range members {
		m := testMember(string(rune('a' + i)))
		m.BirthDate = time.Date(1960+i*4, 3, 1, 0, 0, 0, 0, time.UTC)
		members[i] = *m
	}
	classes := map[string]*domain.BenefitClass{"standard": testClass(450)}
	candidates := []domain.Plan{
		agePlan("p1", 700, 2000),
		agePlan("p2", 480, 5000),
	}
	sel := newSelector()

	serial, serialIssues, err := sel.EvaluateAll(context.Background(), members, classes, candidates, 1)
	require.NoError(t, err)
	parallel, parallelIssues, err := sel.EvaluateAll(context.Background(), members, classes, candidates, 4)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, len(serialIssues), len(parallelIssues))
	for i := range serial {
		assert.Equal(t, members[i].ID, serial[i].MemberID, "outcomes stay in roster order")
	}
}

func TestEvaluateAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	members := []domain.Member{*testMember("m1"), *testMember("m2")}
	classes := map[string]*domain.BenefitClass{"standard": testClass(450)}

	_, _, err := newSelector().EvaluateAll(ctx, members, classes, []domain.Plan{agePlan("p", 500, 2000)}, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
