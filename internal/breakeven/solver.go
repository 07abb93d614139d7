package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/transform"
)

// Solver finds the rate or loan amount at which a mortgage breaks even
// with a target. Cost and peak payment rise with both parameters, so a
// bisection over the bracket converges.
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

type evaluation struct {
	report *domain.MortgageReport
	metric decimal.Decimal
}

// Solve runs the bisection described by req
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if req.Config == nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "configuration is required"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}

	var threshold decimal.Decimal
	switch req.Goal {
	case GoalMatchCost:
		if req.Constraints.TargetCost == nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "match_cost needs a target_cost"}
		}
		threshold = *req.Constraints.TargetCost
	case GoalMaxPayment:
		if req.Constraints.MaxMonthlyPayment == nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "max_payment needs a max_monthly_payment"}
		}
		threshold = *req.Constraints.MaxMonthlyPayment
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported goal: %s", req.Goal),
		}
	}

	var (
		lo, hi, width decimal.Decimal
		apply         func(decimal.Decimal) transform.ScenarioTransform
	)
	switch req.Target {
	case TargetRate:
		lo, hi = bounds(req.Constraints.MinRate, req.Constraints.MaxRate, decimal.Zero, decimal.NewFromFloat(0.15))
		width = s.Options.RateTolerance
		track := req.Constraints.Track
		apply = func(v decimal.Decimal) transform.ScenarioTransform {
			return &transform.SetInterestRate{Track: track, Rate: v}
		}
	case TargetLoanAmount:
		// shares carry no amounts; the property value caps the loan instead
		ceiling := req.Config.Mortgage.TotalTrackAmount().Mul(decimal.NewFromInt(3))
		if req.Config.Mortgage.UsesShares() && req.Config.Mortgage.PropertyValue != nil {
			ceiling = *req.Config.Mortgage.PropertyValue
		}
		lo, hi = bounds(req.Constraints.MinLoanAmount, req.Constraints.MaxLoanAmount, decimal.NewFromInt(10000), ceiling)
		if !hi.GreaterThan(lo) {
			return nil, &BreakEvenError{Operation: "solve", Message: "loan amount bracket is empty; set max_loan_amount"}
		}
		width = s.Options.AmountTolerance
		apply = func(v decimal.Decimal) transform.ScenarioTransform {
			return &transform.SetLoanAmount{Amount: v.Floor()}
		}
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported target: %s", req.Target),
		}
	}

	evaluate := func(v decimal.Decimal) (evaluation, error) {
		modified, err := transform.ApplyTransforms(req.Config, []transform.ScenarioTransform{apply(v)})
		if err != nil {
			return evaluation{}, &BreakEvenError{Operation: "solve_" + string(req.Target), Message: "failed to apply transform", Cause: err}
		}
		report, err := s.CalcEngine.Run(ctx, modified)
		if err != nil {
			return evaluation{}, &BreakEvenError{Operation: "solve_" + string(req.Target), Message: "failed to calculate mortgage", Cause: err}
		}
		m := compare.NewMetricsCalculator().CalculateMetrics(report)
		metric := m.TotalCostOfBorrowing
		if req.Goal == GoalMaxPayment {
			metric = m.HighestMonthlyPayment
		}
		return evaluation{report: report, metric: metric}, nil
	}

	low, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	if low.metric.GreaterThan(threshold) {
		return s.result(req, lo, low, 1, false,
			fmt.Sprintf("target %s is below the value at the lower bound %s", threshold.StringFixed(2), lo)), nil
	}
	high, err := evaluate(hi)
	if err != nil {
		return nil, err
	}
	if high.metric.LessThanOrEqual(threshold) {
		return s.result(req, hi, high, 2, req.Goal == GoalMaxPayment,
			fmt.Sprintf("target %s is not reached by the upper bound %s", threshold.StringFixed(2), hi)), nil
	}

	two := decimal.NewFromInt(2)
	iterations := 2
	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(width) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++

		mid := lo.Add(hi).Div(two)
		eval, err := evaluate(mid)
		if err != nil {
			return nil, err
		}

		if req.Goal == GoalMatchCost && eval.metric.Sub(threshold).Abs().LessThan(s.Options.CostTolerance) {
			return s.result(req, mid, eval, iterations, true,
				fmt.Sprintf("Converged to target cost within %s", s.Options.CostTolerance.StringFixed(0))), nil
		}

		if eval.metric.LessThanOrEqual(threshold) {
			lo, low = mid, eval
		} else {
			hi = mid
		}
	}

	converged := hi.Sub(lo).LessThanOrEqual(width)
	info := fmt.Sprintf("Bracket narrowed to %s after %d iterations", hi.Sub(lo).String(), iterations)
	return s.result(req, lo, low, iterations, converged, info), nil
}

func (s *Solver) result(req SolveRequest, value decimal.Decimal, eval evaluation, iterations int, success bool, info string) *SolveResult {
	m := compare.NewMetricsCalculator().CalculateMetrics(eval.report)
	if req.Target == TargetLoanAmount {
		value = value.Floor()
	}
	return &SolveResult{
		Target:                req.Target,
		Goal:                  req.Goal,
		Value:                 value,
		Success:               success,
		Iterations:            iterations,
		ConvergenceInfo:       info,
		Report:                eval.report,
		HighestMonthlyPayment: m.HighestMonthlyPayment,
		TotalCostOfBorrowing:  m.TotalCostOfBorrowing,
	}
}

func bounds(lower, upper *decimal.Decimal, defLower, defUpper decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	lo, hi := defLower, defUpper
	if lower != nil {
		lo = *lower
	}
	if upper != nil {
		hi = *upper
	}
	return lo, hi
}
