package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

func TestSensitivityAnalyzer_InterestRate(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)
	param := domain.SensitivityParameter{
		Name:     "interest_rate",
		Target:   "short",
		MinValue: decimal.RequireFromString("0.03"),
		MaxValue: decimal.RequireFromString("0.07"),
		Steps:    3,
	}

	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), twoTrackConfig(), param)
	require.NoError(t, err)

	assert.Equal(t, "two_tracks", analysis.BaseScenarioName)
	assert.Equal(t, "162905", analysis.Base.TotalCostOfBorrowing.String())
	require.Len(t, analysis.Results, 3)

	// the middle point is the base rate
	assert.True(t, analysis.Results[1].KeyMetrics.CostChange.IsZero())
	assert.True(t, analysis.Results[0].KeyMetrics.CostChange.IsNegative())
	assert.True(t, analysis.Results[2].KeyMetrics.CostChange.IsPositive())
	assert.Equal(t, "two_tracks_interest_rate_0.07", analysis.Results[2].ScenarioName)

	summary := analysis.Summary
	assert.True(t, summary.MinCost.Equal(analysis.Results[0].KeyMetrics.TotalCostOfBorrowing))
	assert.True(t, summary.MaxCost.Equal(analysis.Results[2].KeyMetrics.TotalCostOfBorrowing))
	assert.True(t, summary.SwingPct.IsPositive())
	assert.NotEmpty(t, summary.RiskLevel)
	assert.Contains(t, summary.Recommendations, "Consider shifting weight to fixed tracks to cap rate exposure")
}

func TestSensitivityAnalyzer_ExitYearsUsesExitCost(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(NewCalculationEngine())
	param := domain.SensitivityParameter{
		Name:     "exit_years",
		MinValue: decimal.NewFromInt(5),
		MaxValue: decimal.NewFromInt(10),
		Steps:    2,
	}

	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), twoTrackConfig(), param)
	require.NoError(t, err)

	require.Len(t, analysis.Results, 2)
	assert.Equal(t, "58471", analysis.Results[0].KeyMetrics.TotalCostOfBorrowing.String())
	assert.Equal(t, "77999", analysis.Results[1].KeyMetrics.TotalCostOfBorrowing.String())
}

func TestSensitivityAnalyzer_Errors(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)
	config := twoTrackConfig()

	_, err := analyzer.AnalyzeSingleParameter(context.Background(), config, domain.SensitivityParameter{
		Name: "volatility", MinValue: decimal.Zero, MaxValue: decimal.NewFromInt(1), Steps: 2,
	})
	assert.ErrorContains(t, err, "unknown sensitivity parameter")

	_, err = analyzer.AnalyzeSingleParameter(context.Background(), config, domain.SensitivityParameter{
		Name: "interest_rate", MinValue: decimal.NewFromInt(1), MaxValue: decimal.Zero, Steps: 2,
	})
	assert.Error(t, err)

	_, err = analyzer.AnalyzeSingleParameter(context.Background(), config, domain.SensitivityParameter{
		Name: "interest_rate", Steps: 0,
	})
	assert.Error(t, err)

	// equity needs a property value
	_, err = analyzer.AnalyzeSingleParameter(context.Background(), config, domain.EquityPercentageParam)
	assert.Error(t, err)
}

func TestSensitivityAnalyzer_MultipleParameters(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)
	params := []domain.SensitivityParameter{
		{Name: "interest_only_period", MinValue: decimal.Zero, MaxValue: decimal.NewFromInt(12), Steps: 2},
		{Name: "loan_amount", MinValue: decimal.NewFromInt(100000), MaxValue: decimal.NewFromInt(300000), Steps: 3},
	}

	analyses, err := analyzer.AnalyzeMultipleParameters(context.Background(), twoTrackConfig(), params)
	require.NoError(t, err)
	require.Len(t, analyses, 2)

	io := analyses[0]
	assert.True(t, io.Results[1].KeyMetrics.TotalInterest.GreaterThan(io.Results[0].KeyMetrics.TotalInterest),
		"interest-only months should add interest")

	loan := analyses[1]
	assert.True(t, loan.Results[1].KeyMetrics.CostChange.IsZero(), "200000 is the base loan")
	assert.Equal(t, "Larger equity reduces both interest and exit fees", loan.Summary.Recommendations[len(loan.Summary.Recommendations)-1])
}

func TestLookupParameter(t *testing.T) {
	p, ok := LookupParameter("interest_rate")
	require.True(t, ok)
	assert.Equal(t, domain.InterestRateParam, p)

	_, ok = LookupParameter("nope")
	assert.False(t, ok)
}
