// Package mortgage models a multi-track mortgage: individually amortized
// tracks, their early-repayment fee rules and the pipeline that aggregates
// them.
package mortgage

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/amortization"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/earlypayment"
)

// DefaultResetPeriod is the rate-reset interval of variable tracks, in months
const DefaultResetPeriod = 60

// TrackParams are the construction inputs of a Track. A zero
// AverageRateWhenTaken defaults to InterestRate and a zero ResetPeriod on a
// variable kind defaults to DefaultResetPeriod.
type TrackParams struct {
	Kind                    domain.TrackKind
	Name                    string
	InterestRate            float64
	NumPayments             int
	InitialLoanAmount       decimal.Decimal
	LinkedIndex             []float64
	ForecastingInterestRate []float64
	AverageRateWhenTaken    float64
	InterestOnlyPeriod      int
	ResetPeriod             int
}

// Track is one sub-loan with its own rate regime. The schedule is computed
// on first access and cached until an input is changed through a setter.
type Track struct {
	params TrackParams
	policy FeePolicy

	mu       sync.Mutex
	schedule *amortization.Schedule
	real     *amortization.Schedule
}

// NewTrack validates params and returns a track of the requested kind
func NewTrack(params TrackParams) (*Track, error) {
	if !params.Kind.Valid() {
		return nil, fmt.Errorf("track %q: %w: %q", params.Name, domain.ErrUnrecognizedVariant, params.Kind)
	}
	if params.AverageRateWhenTaken == 0 {
		params.AverageRateWhenTaken = params.InterestRate
	}
	if params.Kind.HasRateReset() && params.ResetPeriod == 0 {
		params.ResetPeriod = DefaultResetPeriod
	}
	if err := validateParams(params); err != nil {
		return nil, fmt.Errorf("track %q: %w", params.Name, err)
	}

	return &Track{params: params, policy: policyFor(params.Kind)}, nil
}

func validateParams(p TrackParams) error {
	if p.InterestRate < 0 {
		return fmt.Errorf("interest rate cannot be negative: %v", p.InterestRate)
	}
	if p.AverageRateWhenTaken < 0 {
		return fmt.Errorf("average rate when taken cannot be negative: %v", p.AverageRateWhenTaken)
	}
	if p.ResetPeriod < 0 {
		return fmt.Errorf("reset period cannot be negative: %d", p.ResetPeriod)
	}
	if len(p.LinkedIndex) > 0 && !p.Kind.IsIndexLinked() {
		return fmt.Errorf("%s tracks are not index linked", p.Kind)
	}
	if len(p.ForecastingInterestRate) > 0 && !p.Kind.FollowsForecast() {
		return fmt.Errorf("%s tracks have a fixed rate", p.Kind)
	}
	if p.InterestOnlyPeriod > 0 && !p.Kind.AllowsInterestOnly() {
		return fmt.Errorf("%s tracks have no interest-only period", p.Kind)
	}
	return inputsOf(p).Validate()
}

func inputsOf(p TrackParams) amortization.Inputs {
	return amortization.Inputs{
		InterestRate:            p.InterestRate,
		NumPayments:             p.NumPayments,
		InitialLoanAmount:       p.InitialLoanAmount,
		LinkedIndex:             p.LinkedIndex,
		ForecastingInterestRate: p.ForecastingInterestRate,
		InterestOnlyPeriod:      p.InterestOnlyPeriod,
	}
}

// Kind returns the track variant
func (t *Track) Kind() domain.TrackKind {
	return t.snapshot().Kind
}

// Name returns the display name
func (t *Track) Name() string {
	return t.snapshot().Name
}

// NumPayments returns the term in months
func (t *Track) NumPayments() int {
	return t.snapshot().NumPayments
}

// ResetPeriod returns the months between rate resets, 0 for none
func (t *Track) ResetPeriod() int {
	return t.snapshot().ResetPeriod
}

// Params returns a copy of the current inputs
func (t *Track) Params() TrackParams {
	return t.snapshot()
}

// InterestRate returns the annual contract rate
func (t *Track) InterestRate() float64 {
	return t.snapshot().InterestRate
}

// AverageRateWhenTaken returns the average market rate at origination
func (t *Track) AverageRateWhenTaken() float64 {
	return t.snapshot().AverageRateWhenTaken
}

// InitialLoanAmount returns the borrowed principal
func (t *Track) InitialLoanAmount() decimal.Decimal {
	return t.snapshot().InitialLoanAmount
}

// InterestOnlyPeriod returns the number of leading interest-only months
func (t *Track) InterestOnlyPeriod() int {
	return t.snapshot().InterestOnlyPeriod
}

func (t *Track) snapshot() TrackParams {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.params
}

// Schedule returns the memoized amortization schedule
func (t *Track) Schedule() (*amortization.Schedule, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.schedule == nil {
		s, err := amortization.Compute(inputsOf(t.params))
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", t.params.Name, err)
		}
		t.schedule = s
	}
	return t.schedule, nil
}

// realSchedule is the schedule with index linkage removed, used to value
// linked tracks in real terms.
func (t *Track) realSchedule() (*amortization.Schedule, error) {
	if !t.Kind().IsIndexLinked() {
		return t.Schedule()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.real == nil {
		in := inputsOf(t.params)
		in.LinkedIndex = nil
		s, err := amortization.Compute(in)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", t.params.Name, err)
		}
		t.real = s
	}
	return t.real, nil
}

// mustSchedule backs the accessors. Inputs are validated on construction and
// in every setter, so computing the schedule cannot fail here.
func (t *Track) mustSchedule() *amortization.Schedule {
	s, err := t.Schedule()
	if err != nil {
		panic(fmt.Sprintf("mortgage: schedule of validated track failed: %v", err))
	}
	return s
}

// PrincipalPayments returns a copy of the monthly principal
func (t *Track) PrincipalPayments() []decimal.Decimal {
	return clone(t.mustSchedule().Principal)
}

// InterestPayments returns a copy of the monthly interest
func (t *Track) InterestPayments() []decimal.Decimal {
	return clone(t.mustSchedule().Interest)
}

// MonthlyPayments returns a copy of the monthly payments
func (t *Track) MonthlyPayments() []decimal.Decimal {
	return clone(t.mustSchedule().Payments)
}

// RemainingBalances returns a copy of the month-end balances
func (t *Track) RemainingBalances() []decimal.Decimal {
	return clone(t.mustSchedule().Balances)
}

// TotalPrincipalPaid is the unrounded principal accumulated by the recurrence
func (t *Track) TotalPrincipalPaid() decimal.Decimal {
	return t.mustSchedule().TotalPrincipal
}

// TotalInterestPaid is the unrounded interest accumulated by the recurrence
func (t *Track) TotalInterestPaid() decimal.Decimal {
	return t.mustSchedule().TotalInterest
}

// HighestMonthlyPayment is the largest single payment
func (t *Track) HighestMonthlyPayment() decimal.Decimal {
	return t.mustSchedule().HighestPayment()
}

// TotalInterestPayment sums the rounded monthly interest
func (t *Track) TotalInterestPayment() decimal.Decimal {
	return t.mustSchedule().TotalInterestPaid()
}

// TotalRepayment sums every rounded payment
func (t *Track) TotalRepayment() decimal.Decimal {
	return t.mustSchedule().TotalRepayment()
}

// LinkedIndexPayment is the part of the repayment caused by index growth
func (t *Track) LinkedIndexPayment() decimal.Decimal {
	return t.TotalRepayment().Sub(t.TotalInterestPayment()).Sub(t.InitialLoanAmount())
}

// LoanCost is total repayment per unit borrowed
func (t *Track) LoanCost() decimal.Decimal {
	amount := t.InitialLoanAmount()
	if amount.IsZero() {
		return decimal.Zero
	}
	return t.TotalRepayment().Div(amount)
}

// InitialMonthlyPayment is the quoted payment: the annuity at the initial
// rate over the full term, ignoring interest-only months and drift.
func (t *Track) InitialMonthlyPayment() decimal.Decimal {
	p := t.snapshot()
	pmt := amortization.Payment(p.InterestRate/amortization.MonthsInYear, p.NumPayments, p.InitialLoanAmount.InexactFloat64())
	return decimal.NewFromFloat(pmt)
}

// AnnualIRR is the lender's annualized IRR in percent
func (t *Track) AnnualIRR() (float64, error) {
	flows := append([]float64{-t.InitialLoanAmount().InexactFloat64()}, amortization.Floats(t.mustSchedule().Payments)...)
	irr, err := amortization.AnnualizedIRR(flows)
	if err != nil {
		return 0, fmt.Errorf("track %q: %w", t.Name(), err)
	}
	return irr, nil
}

// RateAt returns the annual rate applied to the payment due after month
// elapsed months, following the forecast drift.
func (t *Track) RateAt(month int) float64 {
	p := t.snapshot()
	rate := p.InterestRate
	if len(p.ForecastingInterestRate) == 0 {
		return rate
	}

	amortizing := p.NumPayments - p.InterestOnlyPeriod
	periods := month - p.InterestOnlyPeriod + 1
	if periods > amortizing {
		periods = amortizing
	}
	for i := 0; i < periods; i++ {
		rate *= 1 + p.ForecastingInterestRate[i]
	}
	return rate
}

// EarlyPaymentFee is the fee for repaying this track after monthsElapsed
// months, given the market reference rate for its kind.
func (t *Track) EarlyPaymentFee(monthsElapsed int, referenceRate float64) (int64, error) {
	if err := earlypayment.ValidateArguments(monthsElapsed, referenceRate); err != nil {
		return 0, fmt.Errorf("track %q: %w", t.Name(), err)
	}
	return t.policy.Fee(t, monthsElapsed, referenceRate)
}

// SetInitialLoanAmount changes the amount and drops the cached schedule
func (t *Track) SetInitialLoanAmount(amount decimal.Decimal) error {
	return t.update(func(p *TrackParams) { p.InitialLoanAmount = amount })
}

// SetInterestRate changes the contract rate and drops the cached schedule.
// The average rate when taken follows when it was defaulted from the rate.
func (t *Track) SetInterestRate(rate float64) error {
	return t.update(func(p *TrackParams) {
		if p.AverageRateWhenTaken == p.InterestRate {
			p.AverageRateWhenTaken = rate
		}
		p.InterestRate = rate
	})
}

// SetInterestOnlyPeriod changes the interest-only months and drops the cached schedule
func (t *Track) SetInterestOnlyPeriod(months int) error {
	return t.update(func(p *TrackParams) { p.InterestOnlyPeriod = months })
}

func (t *Track) update(mutate func(*TrackParams)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.params
	mutate(&next)
	if err := validateParams(next); err != nil {
		return fmt.Errorf("track %q: %w", t.params.Name, err)
	}
	t.params = next
	t.schedule = nil
	t.real = nil
	return nil
}

// WithInitialLoanAmount returns an independent copy with a new amount
func (t *Track) WithInitialLoanAmount(amount decimal.Decimal) (*Track, error) {
	c := t.copy()
	return c, c.SetInitialLoanAmount(amount)
}

// WithInterestRate returns an independent copy with a new rate
func (t *Track) WithInterestRate(rate float64) (*Track, error) {
	c := t.copy()
	return c, c.SetInterestRate(rate)
}

// WithInterestOnlyPeriod returns an independent copy with new interest-only months
func (t *Track) WithInterestOnlyPeriod(months int) (*Track, error) {
	c := t.copy()
	return c, c.SetInterestOnlyPeriod(months)
}

func (t *Track) copy() *Track {
	p := t.snapshot()
	p.LinkedIndex = append([]float64(nil), p.LinkedIndex...)
	p.ForecastingInterestRate = append([]float64(nil), p.ForecastingInterestRate...)
	return &Track{params: p, policy: t.policy}
}

func clone(values []decimal.Decimal) []decimal.Decimal {
	return append([]decimal.Decimal(nil), values...)
}
