package mortgage

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/amortization"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/earlypayment"
)

var (
	// ErrEmptyPipeline is returned when a pipeline is built without tracks
	ErrEmptyPipeline = errors.New("pipeline needs at least one track")
	// ErrMissingReferenceRate is returned when no market rate is given for a track kind in the pipeline
	ErrMissingReferenceRate = errors.New("missing reference rate")
)

// ReferenceRates holds the market rate on the prepayment date per track kind
type ReferenceRates map[domain.TrackKind]float64

// Exit describes repaying the whole mortgage after Years years
type Exit struct {
	Years int
	Rates ReferenceRates
}

// Pipeline is an ordered set of tracks forming one mortgage. Monthly views
// sum tracks period by period, padding shorter tracks with zeros.
type Pipeline struct {
	tracks []*Track
}

// NewPipeline groups tracks into a mortgage
func NewPipeline(tracks ...*Track) (*Pipeline, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyPipeline
	}
	for i, t := range tracks {
		if t == nil {
			return nil, fmt.Errorf("track %d is nil", i)
		}
	}
	return &Pipeline{tracks: append([]*Track(nil), tracks...)}, nil
}

// Tracks returns the tracks in pipeline order
func (p *Pipeline) Tracks() []*Track {
	return append([]*Track(nil), p.tracks...)
}

// TotalInitialLoanAmount sums the current track amounts. It is recomputed
// on every call so it stays correct after a track is changed.
func (p *Pipeline) TotalInitialLoanAmount() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.tracks {
		total = total.Add(t.InitialLoanAmount())
	}
	return total
}

// NumPayments is the term of the longest track
func (p *Pipeline) NumPayments() int {
	n := 0
	for _, t := range p.tracks {
		if t.NumPayments() > n {
			n = t.NumPayments()
		}
	}
	return n
}

// PrincipalPayments sums the tracks' monthly principal, padding shorter tracks with zero
func (p *Pipeline) PrincipalPayments() []decimal.Decimal {
	return p.sumPadded((*Track).PrincipalPayments)
}

// InterestPayments sums the tracks' monthly interest
func (p *Pipeline) InterestPayments() []decimal.Decimal {
	return p.sumPadded((*Track).InterestPayments)
}

// MonthlyPayments sums the tracks' monthly payments
func (p *Pipeline) MonthlyPayments() []decimal.Decimal {
	return p.sumPadded((*Track).MonthlyPayments)
}

// RemainingBalances sums the tracks' month-end balances
func (p *Pipeline) RemainingBalances() []decimal.Decimal {
	return p.sumPadded((*Track).RemainingBalances)
}

// AnnualPrincipalPayments sums principal per twelve-month block
func (p *Pipeline) AnnualPrincipalPayments() []decimal.Decimal {
	return annualSums(p.PrincipalPayments())
}

// AnnualInterestPayments sums interest per twelve-month block
func (p *Pipeline) AnnualInterestPayments() []decimal.Decimal {
	return annualSums(p.InterestPayments())
}

// AnnualPayments sums payments per twelve-month block
func (p *Pipeline) AnnualPayments() []decimal.Decimal {
	return annualSums(p.MonthlyPayments())
}

// AnnualRemainingBalances samples the balance at each year end, plus the
// last month when the term is not a whole number of years.
func (p *Pipeline) AnnualRemainingBalances() []decimal.Decimal {
	monthly := p.RemainingBalances()
	out := make([]decimal.Decimal, 0, len(monthly)/amortization.MonthsInYear+1)
	for i := amortization.MonthsInYear - 1; i < len(monthly); i += amortization.MonthsInYear {
		out = append(out, monthly[i])
	}
	if len(monthly)%amortization.MonthsInYear != 0 {
		out = append(out, monthly[len(monthly)-1])
	}
	return out
}

// TotalPayment sums every payment of every track
func (p *Pipeline) TotalPayment() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.tracks {
		total = total.Add(t.TotalRepayment())
	}
	return total
}

// TotalPaymentUntil sums the pipeline payments of the first months months
func (p *Pipeline) TotalPaymentUntil(months int) decimal.Decimal {
	return amortization.Sum(head(p.MonthlyPayments(), months))
}

// InterestPaidUntil sums the pipeline interest of the first months months
func (p *Pipeline) InterestPaidUntil(months int) decimal.Decimal {
	return amortization.Sum(head(p.InterestPayments(), months))
}

// TotalInterestPayment sums the rounded monthly interest of every track
func (p *Pipeline) TotalInterestPayment() decimal.Decimal {
	return amortization.Sum(p.InterestPayments())
}

// LinkedIndexPayment is the part of the total payment caused by index growth
func (p *Pipeline) LinkedIndexPayment() decimal.Decimal {
	return p.TotalPayment().Sub(p.TotalInterestPayment()).Sub(p.TotalInitialLoanAmount())
}

// HighestMonthlyPayment is the largest combined monthly payment
func (p *Pipeline) HighestMonthlyPayment() decimal.Decimal {
	monthly := p.MonthlyPayments()
	if len(monthly) == 0 {
		return decimal.Zero
	}
	return decimal.Max(monthly[0], monthly[1:]...)
}

// InitialMonthlyPayment is the summed quoted payment of all tracks rounded up
func (p *Pipeline) InitialMonthlyPayment() decimal.Decimal {
	return p.rawInitialMonthlyPayment().Ceil()
}

func (p *Pipeline) rawInitialMonthlyPayment() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.tracks {
		total = total.Add(t.InitialMonthlyPayment())
	}
	return total
}

// AnnualIRR is the lender's annualized IRR in percent over the whole pipeline
func (p *Pipeline) AnnualIRR() (float64, error) {
	flows := append([]float64{-p.TotalInitialLoanAmount().InexactFloat64()}, amortization.Floats(p.MonthlyPayments())...)
	return amortization.AnnualizedIRR(flows)
}

// TrackShares returns each track's share of the total loan amount
func (p *Pipeline) TrackShares() []decimal.Decimal {
	total := p.TotalInitialLoanAmount()
	shares := make([]decimal.Decimal, len(p.tracks))
	if total.IsZero() {
		for i := range shares {
			shares[i] = decimal.Zero
		}
		return shares
	}
	for i, t := range p.tracks {
		shares[i] = t.InitialLoanAmount().Div(total)
	}
	return shares
}

// WeightedAverageRate is the amount-weighted contract rate
func (p *Pipeline) WeightedAverageRate() float64 {
	var rate float64
	for i, share := range p.TrackShares() {
		rate += p.tracks[i].InterestRate() * share.InexactFloat64()
	}
	return rate
}

// TrackLoanCosts returns each track's repayment per unit borrowed
func (p *Pipeline) TrackLoanCosts() []decimal.Decimal {
	costs := make([]decimal.Decimal, len(p.tracks))
	for i, t := range p.tracks {
		costs[i] = t.LoanCost()
	}
	return costs
}

// TotalLoanCost is the amount-weighted loan cost of the tracks
func (p *Pipeline) TotalLoanCost() decimal.Decimal {
	total := decimal.Zero
	costs := p.TrackLoanCosts()
	for i, share := range p.TrackShares() {
		total = total.Add(costs[i].Mul(share))
	}
	return total
}

// ResourceAllocation returns each track's share of the initial monthly
// payment. The denominator is the unrounded sum of quoted payments.
func (p *Pipeline) ResourceAllocation() []decimal.Decimal {
	total := p.rawInitialMonthlyPayment()
	out := make([]decimal.Decimal, len(p.tracks))
	for i, t := range p.tracks {
		if total.IsZero() {
			out[i] = decimal.Zero
			continue
		}
		out[i] = t.InitialMonthlyPayment().Div(total)
	}
	return out
}

// LinkageSegmentation sums loan-amount shares per linkage type. Every type
// is present in the result.
func (p *Pipeline) LinkageSegmentation() (map[domain.LinkageType]decimal.Decimal, error) {
	out := make(map[domain.LinkageType]decimal.Decimal, len(domain.LinkageTypes()))
	for _, lt := range domain.LinkageTypes() {
		out[lt] = decimal.Zero
	}
	for i, share := range p.TrackShares() {
		lt, err := domain.ClassifyLinkage(p.tracks[i].Kind())
		if err != nil {
			return nil, err
		}
		out[lt] = out[lt].Add(share)
	}
	return out, nil
}

// InterestTypeSegmentation sums loan-amount shares per interest type. Every
// type is present in the result.
func (p *Pipeline) InterestTypeSegmentation() (map[domain.InterestType]decimal.Decimal, error) {
	out := make(map[domain.InterestType]decimal.Decimal, len(domain.InterestTypes()))
	for _, it := range domain.InterestTypes() {
		out[it] = decimal.Zero
	}
	for i, share := range p.TrackShares() {
		it, err := domain.ClassifyInterest(p.tracks[i].Kind())
		if err != nil {
			return nil, err
		}
		out[it] = out[it].Add(share)
	}
	return out, nil
}

// HasEligibility reports whether any track is a subsidized eligibility track
func (p *Pipeline) HasEligibility() bool {
	for _, t := range p.tracks {
		if t.Kind() == domain.TrackEligibility {
			return true
		}
	}
	return false
}

// EarlyPaymentFee sums the track fees, each at the reference rate of its
// kind, and applies the elapsed-time discount factor once.
func (p *Pipeline) EarlyPaymentFee(monthsElapsed int, rates ReferenceRates) (int64, error) {
	if err := earlypayment.ValidateArguments(monthsElapsed, 0); err != nil {
		return 0, err
	}

	var total int64
	for _, t := range p.tracks {
		rate, ok := rates[t.Kind()]
		if !ok {
			return 0, fmt.Errorf("%w for %s track %q", ErrMissingReferenceRate, t.Kind(), t.Name())
		}
		fee, err := t.EarlyPaymentFee(monthsElapsed, rate)
		if err != nil {
			return 0, err
		}
		total += fee
	}

	factor := decimal.NewFromFloat(earlypayment.DiscountFactor(monthsElapsed, p.HasEligibility()))
	return factor.Mul(decimal.NewFromInt(total)).RoundBank(0).IntPart(), nil
}

// TotalCostOfBorrowing is total payments less the amount borrowed when exit
// is nil. With an exit it is the interest paid up to the exit plus the
// early-repayment fee due then.
func (p *Pipeline) TotalCostOfBorrowing(exit *Exit) (int64, error) {
	if exit == nil {
		return p.TotalPayment().Sub(p.TotalInitialLoanAmount()).RoundBank(0).IntPart(), nil
	}

	interest, fee, err := p.ExitCost(*exit)
	if err != nil {
		return 0, err
	}
	return interest.Add(decimal.NewFromInt(fee)).RoundBank(0).IntPart(), nil
}

// ExitCost splits the cost of exiting after exit.Years years into interest
// paid so far and the early-repayment fee.
func (p *Pipeline) ExitCost(exit Exit) (decimal.Decimal, int64, error) {
	if exit.Years < 0 {
		return decimal.Zero, 0, fmt.Errorf("exit years cannot be negative: %d", exit.Years)
	}
	months := exit.Years * amortization.MonthsInYear
	fee, err := p.EarlyPaymentFee(months, exit.Rates)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("early payment fee at exit: %w", err)
	}
	return p.InterestPaidUntil(months), fee, nil
}

func (p *Pipeline) sumPadded(series func(*Track) []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, p.NumPayments())
	for i := range out {
		out[i] = decimal.Zero
	}
	for _, t := range p.tracks {
		for i, v := range series(t) {
			out[i] = out[i].Add(v)
		}
	}
	return out
}

func annualSums(monthly []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, (len(monthly)+amortization.MonthsInYear-1)/amortization.MonthsInYear)
	for start := 0; start < len(monthly); start += amortization.MonthsInYear {
		end := start + amortization.MonthsInYear
		if end > len(monthly) {
			end = len(monthly)
		}
		out = append(out, amortization.Sum(monthly[start:end]))
	}
	return out
}

func head(values []decimal.Decimal, n int) []decimal.Decimal {
	if n < 0 {
		n = 0
	}
	if n > len(values) {
		n = len(values)
	}
	return values[:n]
}
