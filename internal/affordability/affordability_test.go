package affordability

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	eval := NewEvaluator()

	tests := []struct {
		name           string
		annualIncome   decimal.Decimal
		contribution   decimal.Decimal
		premium        decimal.Decimal
		wantAffordable bool
		wantShare      string
		wantThreshold  string
	}{
		{
			name:           "share well under threshold",
			annualIncome:   decimal.NewFromInt(65000),
			contribution:   decimal.NewFromInt(450),
			premium:        decimal.NewFromInt(500),
			wantAffordable: true,
			wantShare:      "50.00",
			wantThreshold:  "514.58",
		},
		{
			name:           "share above threshold",
			annualIncome:   decimal.NewFromInt(30000),
			contribution:   decimal.NewFromInt(100),
			premium:        decimal.NewFromInt(500),
			wantAffordable: false,
			wantShare:      "400.00",
			wantThreshold:  "237.50",
		},
		{
			name:           "contribution covers premium",
			annualIncome:   decimal.NewFromInt(40000),
			contribution:   decimal.NewFromInt(600),
			premium:        decimal.NewFromInt(500),
			wantAffordable: true,
			wantShare:      "0.00",
			wantThreshold:  "316.67",
		},
		{
			name:           "zero income affordable only at zero share",
			annualIncome:   decimal.Zero,
			contribution:   decimal.NewFromInt(500),
			premium:        decimal.NewFromInt(500),
			wantAffordable: true,
			wantShare:      "0.00",
			wantThreshold:  "0.00",
		},
		{
			name:           "zero income with positive share",
			annualIncome:   decimal.Zero,
			contribution:   decimal.Zero,
			premium:        decimal.NewFromInt(1),
			wantAffordable: false,
			wantShare:      "1.00",
			wantThreshold:  "0.00",
		},
		{
			name:           "share exactly at threshold is affordable",
			annualIncome:   decimal.NewFromInt(48000), // threshold 380.00
			contribution:   decimal.NewFromInt(120),
			premium:        decimal.NewFromInt(500),
			wantAffordable: true,
			wantShare:      "380.00",
			wantThreshold:  "380.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eval.Evaluate(tt.annualIncome, tt.contribution, tt.premium)
			assert.Equal(t, tt.wantAffordable, result.IsAffordable)
			assert.Equal(t, tt.wantShare, result.EmployeeShare.StringFixed(2))
			assert.Equal(t, tt.wantThreshold, result.Threshold.StringFixed(2))
			assert.Equal(t, tt.wantThreshold, result.EmployeeShare.Add(result.Margin).StringFixed(2),
				"margin must be threshold minus share")
		})
	}
}

func TestEvaluateCustomThreshold(t *testing.T) {
	eval := NewEvaluatorWithThreshold(decimal.NewFromFloat(0.0912))

	result := eval.Evaluate(decimal.NewFromInt(60000), decimal.Zero, decimal.NewFromInt(450))
	assert.Equal(t, "456.00", result.Threshold.StringFixed(2))
	assert.True(t, result.IsAffordable)
}

func TestEvaluateNegativeMargin(t *testing.T) {
	eval := NewEvaluator()

	result := eval.Evaluate(decimal.NewFromInt(24000), decimal.Zero, decimal.NewFromInt(400))
	assert.False(t, result.IsAffordable)
	assert.True(t, result.Margin.IsNegative())
	assert.Equal(t, "-210.00", result.Margin.StringFixed(2))
}
