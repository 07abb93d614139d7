package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// SetInterestRate sets the contract rate of one track, or of every track
// when Track is empty.
type SetInterestRate struct {
	Track string
	Rate  decimal.Decimal
}

func (t *SetInterestRate) Name() string {
	return "set_rate"
}

func (t *SetInterestRate) Description() string {
	return fmt.Sprintf("Set the interest rate of %s to %s%%", trackLabel(t.Track), t.Rate.Mul(decimal.NewFromInt(100)).String())
}

func (t *SetInterestRate) Validate(base *domain.Configuration) error {
	if t.Rate.IsNegative() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("rate must be non-negative, got %s", t.Rate), nil)
	}
	return validateTarget(t.Name(), base, t.Track)
}

func (t *SetInterestRate) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	forTargets(modified, t.Track, func(ts *domain.TrackSpec) {
		ts.InterestRate = t.Rate
	})
	return modified, nil
}

// ShiftInterestRate adds Delta to the contract rate of the targeted tracks
type ShiftInterestRate struct {
	Track string
	Delta decimal.Decimal
}

func (t *ShiftInterestRate) Name() string {
	return "shift_rate"
}

func (t *ShiftInterestRate) Description() string {
	return fmt.Sprintf("Shift the interest rate of %s by %s%%", trackLabel(t.Track), t.Delta.Mul(decimal.NewFromInt(100)).String())
}

func (t *ShiftInterestRate) Validate(base *domain.Configuration) error {
	if err := validateTarget(t.Name(), base, t.Track); err != nil {
		return err
	}
	for _, ts := range targets(base, t.Track) {
		if ts.InterestRate.Add(t.Delta).IsNegative() {
			return NewTransformError(t.Name(), "validate", fmt.Sprintf("track %s would get a negative rate", ts.Name), nil)
		}
	}
	return nil
}

func (t *ShiftInterestRate) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	forTargets(modified, t.Track, func(ts *domain.TrackSpec) {
		ts.InterestRate = ts.InterestRate.Add(t.Delta)
	})
	return modified, nil
}

// SetLoanAmount sets the amount of one track, or resizes the whole loan
// keeping the current split between tracks when Track is empty.
type SetLoanAmount struct {
	Track  string
	Amount decimal.Decimal
}

func (t *SetLoanAmount) Name() string {
	return "set_loan_amount"
}

func (t *SetLoanAmount) Description() string {
	return fmt.Sprintf("Set the loan amount of %s to %s", trackLabel(t.Track), t.Amount.StringFixed(0))
}

func (t *SetLoanAmount) Validate(base *domain.Configuration) error {
	if !t.Amount.IsPositive() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("amount must be positive, got %s", t.Amount), nil)
	}
	if err := validateTarget(t.Name(), base, t.Track); err != nil {
		return err
	}
	if t.Track != "" && base.Mortgage.UsesShares() {
		return NewTransformError(t.Name(), "validate", "tracks sized by share cannot be resized individually", nil)
	}
	if t.Track == "" && base.Mortgage.UsesShares() && base.Mortgage.PropertyValue == nil {
		return NewTransformError(t.Name(), "validate", "property value is required to resize a share-based mortgage", nil)
	}
	return nil
}

func (t *SetLoanAmount) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	m := &modified.Mortgage

	switch {
	case t.Track != "":
		ts, _ := m.FindTrack(t.Track)
		ts.Amount = t.Amount
		m.LoanToValue = nil
	case m.UsesShares():
		ltv := t.Amount.Div(*m.PropertyValue)
		m.LoanToValue = &ltv
	default:
		if err := rescaleTracks(m, t.Amount); err != nil {
			return nil, NewTransformError(t.Name(), "apply", "cannot rescale tracks", err)
		}
		m.LoanToValue = nil
	}
	return modified, nil
}

// SetInterestOnlyPeriod sets the interest-only months of the targeted tracks
type SetInterestOnlyPeriod struct {
	Track  string
	Months int
}

func (t *SetInterestOnlyPeriod) Name() string {
	return "set_interest_only"
}

func (t *SetInterestOnlyPeriod) Description() string {
	return fmt.Sprintf("Set %d interest-only months on %s", t.Months, trackLabel(t.Track))
}

func (t *SetInterestOnlyPeriod) Validate(base *domain.Configuration) error {
	if t.Months < 0 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("months must be non-negative, got %d", t.Months), nil)
	}
	if err := validateTarget(t.Name(), base, t.Track); err != nil {
		return err
	}
	for _, ts := range targets(base, t.Track) {
		if t.Track != "" && t.Months > 0 && !ts.Kind.AllowsInterestOnly() {
			return NewTransformError(t.Name(), "validate", fmt.Sprintf("%s tracks have no interest-only period", ts.Kind), nil)
		}
		if t.Months > ts.NumPayments {
			return NewTransformError(t.Name(), "validate", fmt.Sprintf("track %s has only %d payments", ts.Name, ts.NumPayments), nil)
		}
	}
	return nil
}

func (t *SetInterestOnlyPeriod) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	forTargets(modified, t.Track, func(ts *domain.TrackSpec) {
		if ts.Kind.AllowsInterestOnly() {
			ts.InterestOnlyPeriod = t.Months
		}
	})
	return modified, nil
}

// SetEquityPercentage finances the property value not covered by Equity
type SetEquityPercentage struct {
	Equity decimal.Decimal
}

func (t *SetEquityPercentage) Name() string {
	return "set_equity"
}

func (t *SetEquityPercentage) Description() string {
	return fmt.Sprintf("Pay %s%% of the property value from equity", t.Equity.Mul(decimal.NewFromInt(100)).String())
}

func (t *SetEquityPercentage) Validate(base *domain.Configuration) error {
	if t.Equity.IsNegative() || t.Equity.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("equity must be in [0, 1), got %s", t.Equity), nil)
	}
	if base.Mortgage.PropertyValue == nil {
		return NewTransformError(t.Name(), "validate", "property value is required", nil)
	}
	return nil
}

func (t *SetEquityPercentage) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	m := &modified.Mortgage

	ltv := decimal.NewFromInt(1).Sub(t.Equity)
	m.LoanToValue = &ltv
	if !m.UsesShares() {
		if err := rescaleTracks(m, m.PropertyValue.Mul(ltv).RoundBank(0)); err != nil {
			return nil, NewTransformError(t.Name(), "apply", "cannot rescale tracks", err)
		}
	}
	return modified, nil
}

// SetReferenceRate sets the market rate used to price early repayment of
// one track kind, or of every kind already configured when Kind is empty.
type SetReferenceRate struct {
	Kind domain.TrackKind
	Rate decimal.Decimal
}

func (t *SetReferenceRate) Name() string {
	return "set_reference_rate"
}

func (t *SetReferenceRate) Description() string {
	label := "all track kinds"
	if t.Kind != "" {
		label = string(t.Kind) + " tracks"
	}
	return fmt.Sprintf("Price early repayment of %s at %s%%", label, t.Rate.Mul(decimal.NewFromInt(100)).String())
}

func (t *SetReferenceRate) Validate(base *domain.Configuration) error {
	if t.Rate.IsNegative() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("rate must be non-negative, got %s", t.Rate), nil)
	}
	if t.Kind != "" && !t.Kind.Valid() {
		return NewTransformError(t.Name(), "validate", "unknown track kind", fmt.Errorf("%w: %q", domain.ErrUnrecognizedVariant, t.Kind))
	}
	return nil
}

func (t *SetReferenceRate) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	if modified.ReferenceRates == nil {
		modified.ReferenceRates = make(map[domain.TrackKind]decimal.Decimal)
	}

	if t.Kind != "" {
		modified.ReferenceRates[t.Kind] = t.Rate
		return modified, nil
	}
	for _, ts := range modified.Mortgage.Tracks {
		modified.ReferenceRates[ts.Kind] = t.Rate
	}
	return modified, nil
}

// SetExitYears sets the horizon at which the mortgage is repaid early
type SetExitYears struct {
	Years int
}

func (t *SetExitYears) Name() string {
	return "set_exit"
}

func (t *SetExitYears) Description() string {
	return fmt.Sprintf("Repay the mortgage after %d years", t.Years)
}

func (t *SetExitYears) Validate(base *domain.Configuration) error {
	if t.Years < 0 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", t.Years), nil)
	}
	return nil
}

func (t *SetExitYears) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	modified.Exit = &domain.ExitSpec{Years: t.Years}
	return modified, nil
}

func trackLabel(track string) string {
	if track == "" {
		return "all tracks"
	}
	return "track " + track
}

func validateTarget(name string, base *domain.Configuration, track string) error {
	if base == nil {
		return NewTransformError(name, "validate", "base configuration cannot be nil", nil)
	}
	if len(base.Mortgage.Tracks) == 0 {
		return NewTransformError(name, "validate", "mortgage has no tracks", nil)
	}
	if track == "" {
		return nil
	}
	if _, ok := base.Mortgage.FindTrack(track); !ok {
		return NewTransformError(name, "validate", fmt.Sprintf("track %s not found", track), nil)
	}
	return nil
}

func targets(c *domain.Configuration, track string) []domain.TrackSpec {
	if track == "" {
		return c.Mortgage.Tracks
	}
	ts, ok := c.Mortgage.FindTrack(track)
	if !ok {
		return nil
	}
	return []domain.TrackSpec{*ts}
}

func forTargets(c *domain.Configuration, track string, fn func(*domain.TrackSpec)) {
	for i := range c.Mortgage.Tracks {
		if track == "" || c.Mortgage.Tracks[i].Name == track {
			fn(&c.Mortgage.Tracks[i])
		}
	}
}

// rescaleTracks resizes the absolute track amounts to sum to target, keeping
// their proportions. Amounts are kept to cents and the last track absorbs
// the rounding remainder.
func rescaleTracks(m *domain.MortgageSpec, target decimal.Decimal) error {
	current := m.TotalTrackAmount()
	if !current.IsPositive() {
		return fmt.Errorf("current loan amount must be positive, got %s", current)
	}

	assigned := decimal.Zero
	last := len(m.Tracks) - 1
	for i := range m.Tracks {
		if i == last {
			m.Tracks[i].Amount = target.Sub(assigned)
			break
		}
		amount := m.Tracks[i].Amount.Mul(target).Div(current).Round(2)
		m.Tracks[i].Amount = amount
		assigned = assigned.Add(amount)
	}
	return nil
}
