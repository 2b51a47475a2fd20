package aggregate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefitflow/ichra-engine/internal/domain"
)

func resolvedOutcome(id string, contribution, outOfPocket, savings float64, affordable bool) domain.MemberOutcome {
	return domain.MemberOutcome{
		MemberID:      id,
		Resolved:      true,
		Contribution:  decimal.NewFromFloat(contribution),
		OutOfPocket:   decimal.NewFromFloat(outOfPocket),
		Savings:       decimal.NewFromFloat(savings),
		Affordability: domain.AffordabilityResult{IsAffordable: affordable},
	}
}

func flatRates(regular float64) *domain.AgeRateTable {
	var t domain.AgeRateTable
	r := decimal.NewFromFloat(regular)
	for i := range t {
		t[i] = domain.AgeRate{Regular: r, Tobacco: r}
	}
	return &t
}

func TestSummarizeTotals(t *testing.T) {
	outcomes := []domain.MemberOutcome{
		resolvedOutcome("m1", 450, 30, 170, true),
		resolvedOutcome("m2", 450, 120, -45, true),
		resolvedOutcome("m3", 650, 0, 0, false),
		{MemberID: "m4"}, // unresolved
	}

	summary, err := Summarize(outcomes, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ResolvedCount)
	assert.Equal(t, 1, summary.UnresolvedCount)
	assert.Equal(t, "1550.00", summary.TotalEmployerCost.StringFixed(2))
	assert.Equal(t, "150.00", summary.TotalEmployeeCost.StringFixed(2))
	assert.Equal(t, "125.00", summary.TotalSavings.StringFixed(2))
	assert.Equal(t, 1, summary.MembersWithSavings)
	assert.Equal(t, 1, summary.MembersWithLoss, "zero savings lands in neither bucket")
	assert.Equal(t, 2, summary.AffordableCount)
}

func TestSummarizeCostIdentity(t *testing.T) {
	outcomes := []domain.MemberOutcome{
		resolvedOutcome("m1", 450, 30, 0, true),
		resolvedOutcome("m2", 500, 210.50, 0, true),
		{MemberID: "m3"},
	}

	summary, err := Summarize(outcomes, nil)
	require.NoError(t, err)

	// Employer plus employee totals equal the sum of each resolved member's
	// contribution plus out-of-pocket.
	perMember := decimal.Zero
	for _, o := range outcomes {
		if o.Resolved {
			perMember = perMember.Add(o.Contribution).Add(o.OutOfPocket)
		}
	}
	assert.True(t, summary.TotalEmployerCost.Add(summary.TotalEmployeeCost).Equal(perMember))
}

func TestSummarizeComplianceRate(t *testing.T) {
	outcomes := []domain.MemberOutcome{
		resolvedOutcome("m1", 450, 30, 0, true),
		resolvedOutcome("m2", 450, 400, 0, false),
		{MemberID: "m3"}, // unresolved, excluded from both sides
	}

	summary, err := Summarize(outcomes, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.50", summary.ComplianceRate.StringFixed(2))
}

func TestSummarizeComplianceRateNoResolvedMembers(t *testing.T) {
	summary, err := Summarize([]domain.MemberOutcome{{MemberID: "m1"}}, nil)
	require.NoError(t, err)
	assert.True(t, summary.ComplianceRate.IsZero())
}

func TestSummarizeDuplicateMemberID(t *testing.T) {
	outcomes := []domain.MemberOutcome{
		resolvedOutcome("m1", 450, 30, 0, true),
		resolvedOutcome("m1", 450, 30, 0, true),
	}

	_, err := Summarize(outcomes, nil)
	var iv *domain.InvariantViolation
	require.True(t, errors.As(err, &iv))
}

func TestSummarizeEmptyMemberID(t *testing.T) {
	_, err := Summarize([]domain.MemberOutcome{{Resolved: true}}, nil)
	var iv *domain.InvariantViolation
	require.True(t, errors.As(err, &iv))
}

func TestSummarizeDistributions(t *testing.T) {
	candidates := []domain.Plan{
		{ID: "b1", Carrier: "Acme Health", MetalLevel: domain.MetalBronze, AgeRates: flatRates(300)},
		{ID: "b2", Carrier: "Acme Health", MetalLevel: domain.MetalBronze, AgeRates: flatRates(340)},
		{ID: "g1", Carrier: "Beacon Mutual", MetalLevel: domain.MetalGold, AgeRates: flatRates(580)},
		// No individual tier, so no representative premium: excluded from stats.
		{ID: "f1", Carrier: "Beacon Mutual", MetalLevel: domain.MetalGold,
			FamilyRates: domain.FamilyRateTable{domain.TierCouple: decimal.NewFromInt(900)}},
	}

	summary, err := Summarize(nil, candidates)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.CandidateCount)

	bronze := summary.ByMetalLevel[domain.MetalBronze]
	assert.Equal(t, 2, bronze.Count)
	assert.Equal(t, "300.00", bronze.Min.StringFixed(2))
	assert.Equal(t, "340.00", bronze.Max.StringFixed(2))
	assert.Equal(t, "320.00", bronze.Average.StringFixed(2))

	gold := summary.ByMetalLevel[domain.MetalGold]
	assert.Equal(t, 1, gold.Count, "plan without a representative premium is excluded")

	acme := summary.ByCarrier["Acme Health"]
	assert.Equal(t, 2, acme.Count)
	beacon := summary.ByCarrier["Beacon Mutual"]
	assert.Equal(t, 1, beacon.Count)
}
