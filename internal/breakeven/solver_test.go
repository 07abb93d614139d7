package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/domain"
)

func singleTrackConfig() *domain.Configuration {
	return &domain.Configuration{
		Name: "single",
		Mortgage: domain.MortgageSpec{
			Tracks: []domain.TrackSpec{
				{
					Name:         "fixed",
					Kind:         domain.TrackFixedNotLinked,
					InterestRate: decimal.RequireFromString("0.05"),
					NumPayments:  120,
					Amount:       decimal.NewFromInt(100000),
				},
			},
		},
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewSolver(t *testing.T) {
	calcEngine := calculation.NewCalculationEngine()
	options := DefaultSolverOptions()

	solver := NewSolver(calcEngine, options)

	require.NotNil(t, solver)
	assert.Same(t, calcEngine, solver.CalcEngine)
	assert.Equal(t, options, solver.Options)
	assert.Equal(t, 60, NewDefaultSolver(calcEngine).Options.MaxIterations)
}

func TestSolver_MaxPaymentLoanAmount(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	result, err := solver.Solve(context.Background(), SolveRequest{
		Config:      singleTrackConfig(),
		Target:      TargetLoanAmount,
		Goal:        GoalMaxPayment,
		Constraints: Constraints{MaxMonthlyPayment: dec("1060.66")},
	})
	require.NoError(t, err)

	assert.True(t, result.Success, result.ConvergenceInfo)
	assert.InDelta(t, 100000, result.Value.InexactFloat64(), 20)
	assert.True(t, result.HighestMonthlyPayment.LessThanOrEqual(decimal.RequireFromString("1060.66")))
	assert.True(t, result.Value.Equal(result.Value.Floor()), "loan amounts are whole")
	assert.NotNil(t, result.Report)
}

func TestSolver_MatchCostRate(t *testing.T) {
	engine := calculation.NewCalculationEngine()
	cfg := singleTrackConfig()

	base, err := engine.Run(context.Background(), cfg)
	require.NoError(t, err)
	target := base.TotalCostOfBorrowing

	// start from a different rate so the solver has to find 5% again
	cfg.Mortgage.Tracks[0].InterestRate = decimal.RequireFromString("0.03")

	result, err := NewDefaultSolver(engine).Solve(context.Background(), SolveRequest{
		Config: cfg,
		Target: TargetRate,
		Goal:   GoalMatchCost,
		Constraints: Constraints{
			Track:      "fixed",
			TargetCost: &target,
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success, result.ConvergenceInfo)
	assert.InDelta(t, 0.05, result.Value.InexactFloat64(), 0.0001)
	assert.InDelta(t, target.InexactFloat64(), result.TotalCostOfBorrowing.InexactFloat64(), 5)
	assert.Equal(t, "0.03", cfg.Mortgage.Tracks[0].InterestRate.String(), "base configuration must not change")
}

func TestSolver_TargetOutsideBracket(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	below, err := solver.Solve(context.Background(), SolveRequest{
		Config:      singleTrackConfig(),
		Target:      TargetLoanAmount,
		Goal:        GoalMaxPayment,
		Constraints: Constraints{MaxMonthlyPayment: dec("50")},
	})
	require.NoError(t, err)
	assert.False(t, below.Success)
	assert.Equal(t, "10000", below.Value.String())

	above, err := solver.Solve(context.Background(), SolveRequest{
		Config:      singleTrackConfig(),
		Target:      TargetLoanAmount,
		Goal:        GoalMaxPayment,
		Constraints: Constraints{MaxMonthlyPayment: dec("1000000")},
	})
	require.NoError(t, err)
	assert.True(t, above.Success)
	assert.Equal(t, "300000", above.Value.String())
}

func TestSolver_InvalidRequests(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	tests := []struct {
		name string
		req  SolveRequest
	}{
		{"nil config", SolveRequest{Target: TargetRate, Goal: GoalMatchCost}},
		{"unknown goal", SolveRequest{Config: singleTrackConfig(), Target: TargetRate, Goal: "maximize_joy"}},
		{"unknown target", SolveRequest{Config: singleTrackConfig(), Target: "term", Goal: GoalMatchCost, Constraints: Constraints{TargetCost: dec("1")}}},
		{"match without cost", SolveRequest{Config: singleTrackConfig(), Target: TargetRate, Goal: GoalMatchCost}},
		{"cap without payment", SolveRequest{Config: singleTrackConfig(), Target: TargetRate, Goal: GoalMaxPayment}},
		{"inverted rates", SolveRequest{
			Config: singleTrackConfig(), Target: TargetRate, Goal: GoalMatchCost,
			Constraints: Constraints{MinRate: dec("0.06"), MaxRate: dec("0.02"), TargetCost: dec("1")},
		}},
		{"unknown track", SolveRequest{
			Config: singleTrackConfig(), Target: TargetRate, Goal: GoalMatchCost,
			Constraints: Constraints{Track: "prime", TargetCost: dec("1")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := solver.Solve(context.Background(), tt.req)
			assert.Error(t, err)
			assert.Nil(t, result)

			var beErr *BreakEvenError
			assert.True(t, errors.As(err, &beErr), "expected a BreakEvenError, got %T", err)
		})
	}
}

func TestSolver_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver(calculation.NewCalculationEngine()).Solve(ctx, SolveRequest{
		Config:      singleTrackConfig(),
		Target:      TargetRate,
		Goal:        GoalMatchCost,
		Constraints: Constraints{TargetCost: dec("20000")},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
