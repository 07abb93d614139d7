package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfiguration() *Configuration {
	pv := decimal.NewFromInt(400000)
	share := decimal.NewFromFloat(0.5)
	return &Configuration{
		Name: "two tracks",
		Mortgage: MortgageSpec{
			PropertyValue: &pv,
			Tracks: []TrackSpec{
				{Name: "fixed", Kind: TrackFixedNotLinked, InterestRate: decimal.NewFromFloat(0.04), NumPayments: 360, Amount: decimal.NewFromInt(100000)},
				{Name: "linked", Kind: TrackFixedLinked, InterestRate: decimal.NewFromFloat(0.03), NumPayments: 240, Amount: decimal.NewFromInt(50000), Share: &share,
					Index: &PathSpec{Kind: PathConstant, AnnualRate: decimal.NewFromFloat(0.02)}},
			},
		},
		ReferenceRates: map[TrackKind]decimal.Decimal{TrackFixedNotLinked: decimal.NewFromFloat(0.02)},
		Exit:           &ExitSpec{Years: 5},
		FeeMonths:      []int{0, 60},
	}
}

func TestMortgageSpec_Helpers(t *testing.T) {
	cfg := sampleConfiguration()

	assert.True(t, cfg.Mortgage.TotalTrackAmount().Equal(decimal.NewFromInt(150000)))
	assert.True(t, cfg.Mortgage.UsesShares())

	track, ok := cfg.Mortgage.FindTrack("linked")
	require.True(t, ok)
	assert.Equal(t, TrackFixedLinked, track.Kind)

	_, ok = cfg.Mortgage.FindTrack("missing")
	assert.False(t, ok)
}

func TestConfiguration_DeepCopyIsIndependent(t *testing.T) {
	cfg := sampleConfiguration()
	cp := cfg.DeepCopy()

	cp.Mortgage.Tracks[0].Amount = decimal.NewFromInt(1)
	*cp.Mortgage.PropertyValue = decimal.NewFromInt(1)
	*cp.Mortgage.Tracks[1].Share = decimal.NewFromInt(1)
	cp.Mortgage.Tracks[1].Index.AnnualRate = decimal.NewFromInt(1)
	cp.ReferenceRates[TrackFixedNotLinked] = decimal.NewFromInt(1)
	cp.Exit.Years = 10
	cp.FeeMonths[0] = 99

	assert.True(t, cfg.Mortgage.Tracks[0].Amount.Equal(decimal.NewFromInt(100000)))
	assert.True(t, cfg.Mortgage.PropertyValue.Equal(decimal.NewFromInt(400000)))
	assert.True(t, cfg.Mortgage.Tracks[1].Share.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, cfg.Mortgage.Tracks[1].Index.AnnualRate.Equal(decimal.NewFromFloat(0.02)))
	assert.True(t, cfg.ReferenceRates[TrackFixedNotLinked].Equal(decimal.NewFromFloat(0.02)))
	assert.Equal(t, 5, cfg.Exit.Years)
	assert.Equal(t, 0, cfg.FeeMonths[0])
}

func TestSensitivityParameter_Values(t *testing.T) {
	values := InterestRateParam.Values()
	require.Len(t, values, 6)
	assert.Equal(t, "0.02", values[0].String())
	assert.Equal(t, "0.03", values[1].String())
	assert.Equal(t, "0.07", values[5].String())

	single := SensitivityParameter{MinValue: decimal.NewFromInt(3), MaxValue: decimal.NewFromInt(9), Steps: 1}
	assert.Len(t, single.Values(), 1)
}

func TestSensitivitySummary_RiskLevel(t *testing.T) {
	tests := []struct {
		swing    float64
		expected string
	}{
		{2, "LOW"},
		{-10, "MEDIUM"},
		{20, "HIGH"},
		{45, "CRITICAL"},
	}

	for _, tt := range tests {
		s := SensitivitySummary{SwingPct: decimal.NewFromFloat(tt.swing)}
		assert.Equal(t, tt.expected, s.DetermineRiskLevel())
	}

	s := SensitivitySummary{SwingPct: decimal.NewFromInt(40)}
	recs := s.GenerateRecommendations("interest_rate")
	assert.Contains(t, recs, "Stress test the mix before committing")
	assert.Contains(t, recs, "Consider shifting weight to fixed tracks to cap rate exposure")
}

func TestMortgageReport_Lookups(t *testing.T) {
	r := &MortgageReport{
		Tracks:           []TrackSummary{{Name: "a"}, {Name: "b"}},
		EarlyPaymentFees: []FeeQuote{{Month: 0, Fee: decimal.NewFromInt(10)}, {Month: 60}},
	}

	q, ok := r.FeeAt(0)
	require.True(t, ok)
	assert.True(t, q.Fee.Equal(decimal.NewFromInt(10)))
	_, ok = r.FeeAt(12)
	assert.False(t, ok)

	tr, ok := r.Track("b")
	require.True(t, ok)
	assert.Equal(t, "b", tr.Name)
}
