package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/earlypayment"
	"github.com/rgehrsitz/mortgo/internal/mortgage"
)

// ErrMixedTrackSizing is returned when some tracks give an amount and others a share
var ErrMixedTrackSizing = errors.New("tracks must all be sized by amount or all by share")

// CalculationEngine turns a configuration into a mortgage report
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger, falling back to a no-op logger for nil
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Run builds the pipeline described by config and computes the full report
func (ce *CalculationEngine) Run(ctx context.Context, config *domain.Configuration) (*domain.MortgageReport, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pipeline, ltv, err := ce.BuildPipeline(config)
	if err != nil {
		return nil, err
	}
	rates := ReferenceRates(config)

	report := &domain.MortgageReport{
		Name:                  config.Name,
		TotalLoanAmount:       pipeline.TotalInitialLoanAmount(),
		PropertyValue:         config.Mortgage.PropertyValue,
		LoanToValue:           ltv,
		NumPayments:           pipeline.NumPayments(),
		InitialMonthlyPayment: pipeline.InitialMonthlyPayment(),
		HighestMonthlyPayment: pipeline.HighestMonthlyPayment(),
		TotalPayment:          pipeline.TotalPayment(),
		TotalInterest:         pipeline.TotalInterestPayment(),
		LinkedIndexPayment:    pipeline.LinkedIndexPayment(),
		TotalLoanCost:         pipeline.TotalLoanCost(),
		WeightedAverageRate:   decimal.NewFromFloat(pipeline.WeightedAverageRate()),
	}

	if irr, err := pipeline.AnnualIRR(); err != nil {
		ce.Logger.Warnf("annual IRR unavailable for %s: %v", config.Name, err)
	} else {
		report.AnnualIRR = decimal.NewFromFloat(irr)
	}

	cost, err := pipeline.TotalCostOfBorrowing(nil)
	if err != nil {
		return nil, err
	}
	report.TotalCostOfBorrowing = decimal.NewFromInt(cost)

	if report.Tracks, err = ce.summarizeTracks(pipeline); err != nil {
		return nil, err
	}
	if report.LinkageSegmentation, err = pipeline.LinkageSegmentation(); err != nil {
		return nil, err
	}
	if report.InterestTypeSegmentation, err = pipeline.InterestTypeSegmentation(); err != nil {
		return nil, err
	}
	report.AnnualSchedule = AnnualSchedule(pipeline)

	if len(config.FeeMonths) > 0 {
		if report.EarlyPaymentFees, err = QuoteFees(pipeline, config.FeeMonths, rates); err != nil {
			return nil, err
		}
	}

	if config.Exit != nil {
		interest, fee, err := pipeline.ExitCost(mortgage.Exit{Years: config.Exit.Years, Rates: rates})
		if err != nil {
			return nil, fmt.Errorf("exit after %d years: %w", config.Exit.Years, err)
		}
		feeAmount := decimal.NewFromInt(fee)
		report.Exit = &domain.ExitResult{
			Years:                config.Exit.Years,
			InterestPaid:         interest,
			EarlyPaymentFee:      feeAmount,
			TotalCostOfBorrowing: interest.Add(feeAmount).RoundBank(0),
		}
	}

	if config.Affordability != nil {
		report.Affordability = Affordability(config.Affordability, pipeline)
	}

	ce.Logger.Infof("computed %s: %d tracks, %s borrowed over %d months",
		config.Name, len(report.Tracks), report.TotalLoanAmount.StringFixed(0), report.NumPayments)
	return report, nil
}

// EarlyPaymentFee builds the pipeline and quotes its fee after monthsElapsed months
func (ce *CalculationEngine) EarlyPaymentFee(ctx context.Context, config *domain.Configuration, monthsElapsed int) (domain.FeeQuote, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeeQuote{}, err
	}
	pipeline, _, err := ce.BuildPipeline(config)
	if err != nil {
		return domain.FeeQuote{}, err
	}
	quotes, err := QuoteFees(pipeline, []int{monthsElapsed}, ReferenceRates(config))
	if err != nil {
		return domain.FeeQuote{}, err
	}
	return quotes[0], nil
}

// BuildPipeline resolves track amounts and paths and constructs the
// pipeline. It also returns the loan-to-value ratio when a property value
// is configured.
func (ce *CalculationEngine) BuildPipeline(config *domain.Configuration) (*mortgage.Pipeline, *decimal.Decimal, error) {
	amounts, ltv, err := resolveTrackAmounts(&config.Mortgage)
	if err != nil {
		return nil, nil, err
	}

	tracks := make([]*mortgage.Track, 0, len(config.Mortgage.Tracks))
	for i, ts := range config.Mortgage.Tracks {
		params, err := trackParams(ts, amounts[i])
		if err != nil {
			return nil, nil, fmt.Errorf("track %q: %w", ts.Name, err)
		}
		track, err := mortgage.NewTrack(params)
		if err != nil {
			return nil, nil, err
		}
		ce.Logger.Debugf("track %s: %s %s at %s over %d months", ts.Name, ts.Kind, amounts[i].StringFixed(2), ts.InterestRate, ts.NumPayments)
		tracks = append(tracks, track)
	}

	pipeline, err := mortgage.NewPipeline(tracks...)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, ltv, nil
}

// ReferenceRates converts the configured market rates for the fee formulas
func ReferenceRates(config *domain.Configuration) mortgage.ReferenceRates {
	rates := make(mortgage.ReferenceRates, len(config.ReferenceRates))
	for kind, rate := range config.ReferenceRates {
		rates[kind] = rate.InexactFloat64()
	}
	return rates
}

// QuoteFees computes the pipeline fee for each month
func QuoteFees(pipeline *mortgage.Pipeline, months []int, rates mortgage.ReferenceRates) ([]domain.FeeQuote, error) {
	quotes := make([]domain.FeeQuote, 0, len(months))
	for _, m := range months {
		fee, err := pipeline.EarlyPaymentFee(m, rates)
		if err != nil {
			return nil, fmt.Errorf("early payment fee at month %d: %w", m, err)
		}
		quotes = append(quotes, domain.FeeQuote{
			Month:          m,
			DiscountFactor: decimal.NewFromFloat(earlypayment.DiscountFactor(m, pipeline.HasEligibility())),
			Fee:            decimal.NewFromInt(fee),
		})
	}
	return quotes, nil
}

// AnnualSchedule zips the pipeline's annual views into rows
func AnnualSchedule(pipeline *mortgage.Pipeline) []domain.AnnualRow {
	principal := pipeline.AnnualPrincipalPayments()
	interest := pipeline.AnnualInterestPayments()
	payments := pipeline.AnnualPayments()
	balances := pipeline.AnnualRemainingBalances()

	rows := make([]domain.AnnualRow, len(payments))
	for i := range rows {
		rows[i] = domain.AnnualRow{
			Year:             i + 1,
			Principal:        principal[i],
			Interest:         interest[i],
			Payment:          payments[i],
			RemainingBalance: balances[i],
		}
	}
	return rows
}

// Affordability sizes the largest loan the payment cap can service and
// compares it with the pipeline's total amount. A zero term uses the
// pipeline's term.
func Affordability(spec *domain.AffordabilitySpec, pipeline *mortgage.Pipeline) *domain.AffordabilityResult {
	rate := mortgage.DefaultAffordabilityRate
	if spec.AnnualRate != nil {
		rate = spec.AnnualRate.InexactFloat64()
	}
	n := spec.NumPayments
	if n == 0 {
		n = pipeline.NumPayments()
	}

	maxLoan := mortgage.MaximumLoanAmount(n, spec.MaxMonthlyPayment, rate).Round(2)
	return &domain.AffordabilityResult{
		MaxMonthlyPayment: spec.MaxMonthlyPayment,
		NumPayments:       n,
		AnnualRate:        decimal.NewFromFloat(rate),
		MaximumLoanAmount: maxLoan,
		WithinLimit:       pipeline.TotalInitialLoanAmount().LessThanOrEqual(maxLoan),
	}
}

func (ce *CalculationEngine) summarizeTracks(pipeline *mortgage.Pipeline) ([]domain.TrackSummary, error) {
	shares := pipeline.TrackShares()
	allocation := pipeline.ResourceAllocation()

	summaries := make([]domain.TrackSummary, 0, len(shares))
	for i, t := range pipeline.Tracks() {
		it, err := domain.ClassifyInterest(t.Kind())
		if err != nil {
			return nil, err
		}
		lt, err := domain.ClassifyLinkage(t.Kind())
		if err != nil {
			return nil, err
		}

		s := domain.TrackSummary{
			Name:                  t.Name(),
			Kind:                  t.Kind(),
			InterestType:          it,
			LinkageType:           lt,
			Amount:                t.InitialLoanAmount(),
			InterestRate:          decimal.NewFromFloat(t.InterestRate()),
			NumPayments:           t.NumPayments(),
			Share:                 shares[i],
			ResourceAllocation:    allocation[i],
			InitialMonthlyPayment: t.InitialMonthlyPayment(),
			HighestMonthlyPayment: t.HighestMonthlyPayment(),
			TotalInterest:         t.TotalInterestPayment(),
			TotalRepayment:        t.TotalRepayment(),
			LoanCost:              t.LoanCost(),
		}
		if irr, err := t.AnnualIRR(); err != nil {
			ce.Logger.Warnf("annual IRR unavailable for track %s: %v", t.Name(), err)
		} else {
			s.AnnualIRR = decimal.NewFromFloat(irr)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// resolveTrackAmounts returns the amount of every track. Share-sized tracks
// split the loan derived from the property value; the last one absorbs the
// rounding remainder.
func resolveTrackAmounts(m *domain.MortgageSpec) ([]decimal.Decimal, *decimal.Decimal, error) {
	if len(m.Tracks) == 0 {
		return nil, nil, mortgage.ErrEmptyPipeline
	}

	shared := 0
	for _, ts := range m.Tracks {
		if ts.Share != nil {
			shared++
		}
	}
	if shared != 0 && shared != len(m.Tracks) {
		return nil, nil, ErrMixedTrackSizing
	}

	amounts := make([]decimal.Decimal, len(m.Tracks))
	if shared == 0 {
		total := decimal.Zero
		for i, ts := range m.Tracks {
			amounts[i] = ts.Amount
			total = total.Add(ts.Amount)
		}
		if m.PropertyValue == nil {
			return amounts, nil, nil
		}
		_, ltv, err := mortgage.ResolveLoanAmount(*m.PropertyValue, &total, m.LoanToValue)
		if err != nil {
			return nil, nil, err
		}
		return amounts, &ltv, nil
	}

	if m.PropertyValue == nil {
		return nil, nil, fmt.Errorf("tracks sized by share need a property value")
	}
	total, ltv, err := mortgage.ResolveLoanAmount(*m.PropertyValue, nil, m.LoanToValue)
	if err != nil {
		return nil, nil, err
	}

	assigned := decimal.Zero
	last := len(m.Tracks) - 1
	for i, ts := range m.Tracks {
		if i == last {
			amounts[i] = total.Sub(assigned)
			break
		}
		amounts[i] = total.Mul(*ts.Share).Round(2)
		assigned = assigned.Add(amounts[i])
	}
	return amounts, &ltv, nil
}

func trackParams(ts domain.TrackSpec, amount decimal.Decimal) (mortgage.TrackParams, error) {
	amortizing := ts.NumPayments - ts.InterestOnlyPeriod
	if amortizing < 0 {
		amortizing = 0
	}

	index, err := mortgage.BuildPath(ts.Index, amortizing)
	if err != nil {
		return mortgage.TrackParams{}, fmt.Errorf("linked index: %w", err)
	}
	forecast, err := mortgage.BuildPath(ts.Forecast, amortizing)
	if err != nil {
		return mortgage.TrackParams{}, fmt.Errorf("rate forecast: %w", err)
	}

	var average float64
	if ts.AverageRateWhenTaken != nil {
		average = ts.AverageRateWhenTaken.InexactFloat64()
	}

	return mortgage.TrackParams{
		Kind:                    ts.Kind,
		Name:                    ts.Name,
		InterestRate:            ts.InterestRate.InexactFloat64(),
		NumPayments:             ts.NumPayments,
		InitialLoanAmount:       amount,
		LinkedIndex:             index,
		ForecastingInterestRate: forecast,
		AverageRateWhenTaken:    average,
		InterestOnlyPeriod:      ts.InterestOnlyPeriod,
		ResetPeriod:             ts.ResetPeriod,
	}, nil
}
