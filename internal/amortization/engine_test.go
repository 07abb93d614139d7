package amortization

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedInputs() Inputs {
	return Inputs{
		InterestRate:      0.04,
		NumPayments:       360,
		InitialLoanAmount: decimal.NewFromInt(100000),
	}
}

func TestCompute_FixedNotLinked(t *testing.T) {
	s, err := Compute(fixedInputs())
	require.NoError(t, err)

	assert.Equal(t, 360, s.Len())
	assert.Equal(t, 71870.0, math.Ceil(s.TotalInterestPaid().InexactFloat64()))
	assert.Equal(t, 171870.0, math.Ceil(s.TotalRepayment().InexactFloat64()))
	assert.True(t, s.Balances[359].IsZero(), "fully amortizing loan should close, got %s", s.Balances[359])
	assert.Equal(t, "477.42", s.HighestPayment().StringFixed(2))
	assert.InDelta(t, 100000, s.TotalPrincipal.InexactFloat64(), 0.01)
}

func TestCompute_PaymentIsPrincipalPlusInterest(t *testing.T) {
	inputs := fixedInputs()
	inputs.LinkedIndex = constantPath(0.02/12, 360)

	s, err := Compute(inputs)
	require.NoError(t, err)

	for i := range s.Payments {
		assert.True(t, s.Payments[i].Equal(s.Principal[i].Add(s.Interest[i])), "period %d", i)
	}
}

func TestCompute_LinkedIndexGrowsRepayment(t *testing.T) {
	inputs := fixedInputs()
	inputs.LinkedIndex = constantPath(0.02/12, 360)

	linked, err := Compute(inputs)
	require.NoError(t, err)
	plain, err := Compute(fixedInputs())
	require.NoError(t, err)

	assert.True(t, linked.TotalRepayment().GreaterThan(plain.TotalRepayment()))
	assert.True(t, linked.Payments[359].GreaterThan(linked.Payments[0]), "linked payments should rise with the index")
	assert.InDelta(t, 0, linked.Balances[359].InexactFloat64(), 0.01)
}

func TestCompute_InterestOnlyPeriod(t *testing.T) {
	s, err := Compute(Inputs{
		InterestRate:       0.05,
		NumPayments:        120,
		InitialLoanAmount:  decimal.NewFromInt(100000),
		InterestOnlyPeriod: 12,
	})
	require.NoError(t, err)

	require.Equal(t, 120, s.Len())
	for i := 0; i < 12; i++ {
		assert.True(t, s.Principal[i].IsZero(), "month %d should have no principal", i)
		assert.Equal(t, "416.67", s.Interest[i].StringFixed(2))
		assert.True(t, s.Payments[i].Equal(s.Interest[i]))
		assert.Equal(t, "100000.00", s.Balances[i].StringFixed(2))
	}
	assert.InDelta(t, 1151.73, s.Payments[12].InexactFloat64(), 0.011)
	assert.InDelta(t, 0, s.Balances[119].InexactFloat64(), 0.01)
}

func TestCompute_ZeroRateAmortizesLinearly(t *testing.T) {
	s, err := Compute(Inputs{
		InterestRate:      0,
		NumPayments:       12,
		InitialLoanAmount: decimal.NewFromInt(1200),
	})
	require.NoError(t, err)

	for i, p := range s.Payments {
		assert.Equal(t, "100.00", p.StringFixed(2), "month %d", i)
	}
	assert.True(t, s.Balances[11].IsZero())
	assert.True(t, s.TotalInterestPaid().IsZero())
}

func TestCompute_ForecastReLevelsPayment(t *testing.T) {
	forecast := make([]float64, 360)
	forecast[12] = 0.25 // 4% -> 5% from month 13

	inputs := fixedInputs()
	inputs.ForecastingInterestRate = forecast
	s, err := Compute(inputs)
	require.NoError(t, err)

	assert.InDelta(t, 477.41, s.Payments[11].InexactFloat64(), 0.011)
	assert.InDelta(t, 535.27, s.Payments[12].InexactFloat64(), 0.011)
	assert.InDelta(t, 0, s.Balances[359].InexactFloat64(), 0.01)
}

func TestCompute_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		inputs Inputs
	}{
		{"negative term", Inputs{NumPayments: -1}},
		{"negative amount", Inputs{NumPayments: 12, InitialLoanAmount: decimal.NewFromInt(-1)}},
		{"interest only longer than term", Inputs{NumPayments: 12, InterestOnlyPeriod: 13}},
		{"negative interest only", Inputs{NumPayments: 12, InterestOnlyPeriod: -1}},
		{"short index", Inputs{NumPayments: 12, LinkedIndex: make([]float64, 6)}},
		{"short forecast", Inputs{NumPayments: 12, ForecastingInterestRate: make([]float64, 6)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(tt.inputs)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestCompute_FullInterestOnlyTerm(t *testing.T) {
	s, err := Compute(Inputs{
		InterestRate:       0.06,
		NumPayments:        6,
		InitialLoanAmount:  decimal.NewFromInt(10000),
		InterestOnlyPeriod: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, s.Len())
	assert.Equal(t, "10000.00", s.Balances[5].StringFixed(2))
	assert.Equal(t, "300.00", s.TotalInterestPaid().StringFixed(2))
}

func TestCompute_InterestOnlyTieRoundsToEven(t *testing.T) {
	s, err := Compute(Inputs{
		InterestRate:       0.06,
		NumPayments:        2,
		InitialLoanAmount:  decimal.NewFromInt(1001),
		InterestOnlyPeriod: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "5.00", s.Interest[0].StringFixed(2))
	assert.Equal(t, "5.00", s.Payments[0].StringFixed(2))
	assert.Equal(t, "1001.00", s.Balances[1].Add(s.Principal[1]).StringFixed(2))
}

func TestSchedule_PaymentsFrom(t *testing.T) {
	s, err := Compute(fixedInputs())
	require.NoError(t, err)

	assert.Len(t, s.PaymentsFrom(0), 360)
	assert.Len(t, s.PaymentsFrom(24), 336)
	assert.Empty(t, s.PaymentsFrom(360))
	assert.Empty(t, s.PaymentsFrom(500))
}

func constantPath(v float64, n int) []float64 {
	path := make([]float64, n)
	for i := range path {
		path[i] = v
	}
	return path
}
