package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Inputs holds everything the amortization recurrence depends on for a single
// loan track. Rates are annual fractions; LinkedIndex and
// ForecastingInterestRate are per-period fractional changes and default to
// all-zero when nil.
type Inputs struct {
	InterestRate            float64
	NumPayments             int
	InitialLoanAmount       decimal.Decimal
	LinkedIndex             []float64
	ForecastingInterestRate []float64
	InterestOnlyPeriod      int
}

// Schedule is the month-by-month result of amortizing one track. All
// sequences have one entry per payment.
type Schedule struct {
	Principal      []decimal.Decimal `json:"principal"`
	Interest       []decimal.Decimal `json:"interest"`
	Payments       []decimal.Decimal `json:"payments"`
	Balances       []decimal.Decimal `json:"balances"`
	TotalPrincipal decimal.Decimal   `json:"total_principal"`
	TotalInterest  decimal.Decimal   `json:"total_interest"`
}

// Validate checks the inputs before the recurrence runs
func (in Inputs) Validate() error {
	if in.NumPayments < 0 {
		return fmt.Errorf("number of payments cannot be negative: %d", in.NumPayments)
	}
	if in.InitialLoanAmount.IsNegative() {
		return fmt.Errorf("initial loan amount cannot be negative: %s", in.InitialLoanAmount)
	}
	if in.InterestOnlyPeriod < 0 || in.InterestOnlyPeriod > in.NumPayments {
		return fmt.Errorf("interest-only period must be between 0 and %d, got %d", in.NumPayments, in.InterestOnlyPeriod)
	}
	amortizing := in.NumPayments - in.InterestOnlyPeriod
	if in.LinkedIndex != nil && len(in.LinkedIndex) < amortizing {
		return fmt.Errorf("linked index has %d periods, need at least %d", len(in.LinkedIndex), amortizing)
	}
	if in.ForecastingInterestRate != nil && len(in.ForecastingInterestRate) < amortizing {
		return fmt.Errorf("interest forecast has %d periods, need at least %d", len(in.ForecastingInterestRate), amortizing)
	}
	return nil
}

// Compute runs the amortization recurrence. The amortizing payment is
// recomputed every period against the current balance and the remaining term,
// so index growth and rate drift re-level all later payments. Principal,
// interest and balance are rounded to cents each period and the rounded
// balance is carried forward; totals accumulate the unrounded values.
func Compute(in Inputs) (*Schedule, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	n := in.NumPayments
	s := &Schedule{
		Principal: make([]decimal.Decimal, 0, n),
		Interest:  make([]decimal.Decimal, 0, n),
		Payments:  make([]decimal.Decimal, 0, n),
		Balances:  make([]decimal.Decimal, 0, n),
	}

	balance := in.InitialLoanAmount.InexactFloat64()
	rate := in.InterestRate
	monthlyRate := rate / MonthsInYear

	var totalPrincipal, totalInterest float64

	for i := 0; i < in.InterestOnlyPeriod; i++ {
		interest := Round2(balance * monthlyRate)
		totalInterest += interest.InexactFloat64()
		s.Principal = append(s.Principal, decimal.Zero)
		s.Interest = append(s.Interest, interest)
		s.Payments = append(s.Payments, interest)
		s.Balances = append(s.Balances, decimal.NewFromFloat(balance))
	}

	amortizing := n - in.InterestOnlyPeriod
	for period := 1; period <= amortizing; period++ {
		balance *= 1 + at(in.LinkedIndex, period-1)
		rate *= 1 + at(in.ForecastingInterestRate, period-1)
		monthlyRate = rate / MonthsInYear

		interest := balance * monthlyRate
		principal := Payment(monthlyRate, amortizing-(period-1), balance) - interest
		balance -= principal

		totalPrincipal += principal
		totalInterest += interest

		p, r, b := Round2(principal), Round2(interest), Round2(balance)
		balance = b.InexactFloat64()

		s.Principal = append(s.Principal, p)
		s.Interest = append(s.Interest, r)
		s.Payments = append(s.Payments, p.Add(r))
		s.Balances = append(s.Balances, b)
	}

	s.TotalPrincipal = decimal.NewFromFloat(totalPrincipal)
	s.TotalInterest = decimal.NewFromFloat(totalInterest)
	return s, nil
}

// Len returns the number of payments in the schedule
func (s *Schedule) Len() int {
	return len(s.Payments)
}

// HighestPayment returns the largest monthly payment
func (s *Schedule) HighestPayment() decimal.Decimal {
	if len(s.Payments) == 0 {
		return decimal.Zero
	}
	return decimal.Max(s.Payments[0], s.Payments[1:]...)
}

// TotalInterestPaid sums the rounded monthly interest payments
func (s *Schedule) TotalInterestPaid() decimal.Decimal {
	return Sum(s.Interest)
}

// TotalRepayment sums all monthly payments
func (s *Schedule) TotalRepayment() decimal.Decimal {
	return Sum(s.Payments)
}

// PaymentsFrom returns the payments due after the given number of elapsed
// months. It is empty once the schedule has run out.
func (s *Schedule) PaymentsFrom(month int) []float64 {
	if month < 0 {
		month = 0
	}
	if month >= len(s.Payments) {
		return []float64{}
	}
	return Floats(s.Payments[month:])
}

// Sum adds a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Floats converts decimals to float64 for the numeric solvers
func Floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

func at(path []float64, i int) float64 {
	if i < 0 || i >= len(path) {
		return 0
	}
	return path[i]
}
