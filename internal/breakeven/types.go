package breakeven

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// SolveTarget defines which parameter the solver moves
type SolveTarget string

const (
	TargetRate       SolveTarget = "rate"
	TargetLoanAmount SolveTarget = "loan_amount"
)

// SolveGoal defines what outcome to achieve
type SolveGoal string

const (
	GoalMatchCost  SolveGoal = "match_cost"  // cost of borrowing equals TargetCost
	GoalMaxPayment SolveGoal = "max_payment" // largest value whose peak payment fits MaxMonthlyPayment
)

// Constraints define bounds for the solved parameter
type Constraints struct {
	// Track whose rate moves; empty moves every track
	Track string `json:"track,omitempty"`

	MinRate *decimal.Decimal `json:"min_rate,omitempty"`
	MaxRate *decimal.Decimal `json:"max_rate,omitempty"`

	MinLoanAmount *decimal.Decimal `json:"min_loan_amount,omitempty"`
	MaxLoanAmount *decimal.Decimal `json:"max_loan_amount,omitempty"`

	TargetCost        *decimal.Decimal `json:"target_cost,omitempty"`
	MaxMonthlyPayment *decimal.Decimal `json:"max_monthly_payment,omitempty"`
}

// SolveRequest defines the parameters for a solver run
type SolveRequest struct {
	Config        *domain.Configuration
	Target        SolveTarget
	Goal          SolveGoal
	Constraints   Constraints
	MaxIterations int
}

// SolveResult contains the outcome of a solver run
type SolveResult struct {
	Target          SolveTarget     `json:"target"`
	Goal            SolveGoal       `json:"goal"`
	Value           decimal.Decimal `json:"value"`
	Success         bool            `json:"success"`
	Iterations      int             `json:"iterations"`
	ConvergenceInfo string          `json:"convergence_info"`

	// Figures at the solved value
	Report                *domain.MortgageReport `json:"-"`
	HighestMonthlyPayment decimal.Decimal        `json:"highest_monthly_payment"`
	TotalCostOfBorrowing  decimal.Decimal        `json:"total_cost_of_borrowing"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	MaxIterations   int
	RateTolerance   decimal.Decimal // width at which a rate bracket has converged
	AmountTolerance decimal.Decimal // width at which a loan amount bracket has converged
	CostTolerance   decimal.Decimal // a cost within this of the target is a match
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations:   60,
		RateTolerance:   decimal.NewFromFloat(0.000001),
		AmountTolerance: decimal.NewFromInt(1),
		CostTolerance:   decimal.NewFromInt(1),
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinRate != nil && c.MaxRate != nil && c.MinRate.GreaterThan(*c.MaxRate) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_rate cannot be greater than max_rate",
		}
	}
	if c.MinRate != nil && c.MinRate.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_rate cannot be negative",
		}
	}

	if c.MinLoanAmount != nil && c.MaxLoanAmount != nil && c.MinLoanAmount.GreaterThan(*c.MaxLoanAmount) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_loan_amount cannot be greater than max_loan_amount",
		}
	}

	if c.MaxMonthlyPayment != nil && !c.MaxMonthlyPayment.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_monthly_payment must be positive",
		}
	}

	return nil
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
