package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration is the top-level scenario input
type Configuration struct {
	Name           string                        `yaml:"name" json:"name"`
	Mortgage       MortgageSpec                  `yaml:"mortgage" json:"mortgage"`
	ReferenceRates map[TrackKind]decimal.Decimal `yaml:"reference_rates" json:"referenceRates"`
	Exit           *ExitSpec                     `yaml:"exit,omitempty" json:"exit,omitempty"`
	FeeMonths      []int                         `yaml:"fee_months,omitempty" json:"feeMonths,omitempty"`
	Affordability  *AffordabilitySpec            `yaml:"affordability,omitempty" json:"affordability,omitempty"`
	Sensitivity    *SensitivityConfig            `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
}

// MortgageSpec describes the loan as a whole. When PropertyValue is set the
// loan amount may be given through LoanToValue and tracks may take a Share
// of it instead of an absolute Amount.
type MortgageSpec struct {
	PropertyValue *decimal.Decimal `yaml:"property_value,omitempty" json:"propertyValue,omitempty"`
	LoanToValue   *decimal.Decimal `yaml:"loan_to_value,omitempty" json:"loanToValue,omitempty"`
	Tracks        []TrackSpec      `yaml:"tracks" json:"tracks"`
}

// TrackSpec describes one sub-loan
type TrackSpec struct {
	Name                 string           `yaml:"name" json:"name"`
	Kind                 TrackKind        `yaml:"kind" json:"kind"`
	InterestRate         decimal.Decimal  `yaml:"interest_rate" json:"interestRate"`
	NumPayments          int              `yaml:"num_payments" json:"numPayments"`
	Amount               decimal.Decimal  `yaml:"amount,omitempty" json:"amount"`
	Share                *decimal.Decimal `yaml:"share,omitempty" json:"share,omitempty"`
	AverageRateWhenTaken *decimal.Decimal `yaml:"average_rate_when_taken,omitempty" json:"averageRateWhenTaken,omitempty"`
	InterestOnlyPeriod   int              `yaml:"interest_only_period,omitempty" json:"interestOnlyPeriod,omitempty"`
	ResetPeriod          int              `yaml:"reset_period,omitempty" json:"resetPeriod,omitempty"`
	Index                *PathSpec        `yaml:"index,omitempty" json:"index,omitempty"`
	Forecast             *PathSpec        `yaml:"forecast,omitempty" json:"forecast,omitempty"`
}

// PathKind selects how a per-period index or rate path is built
type PathKind string

const (
	// PathConstant grows by AnnualRate/12 every month
	PathConstant PathKind = "constant"
	// PathAnchors steps the rate to each anchor level every Period months
	PathAnchors PathKind = "anchors"
	// PathExplicit uses Values verbatim
	PathExplicit PathKind = "explicit"
)

// PathSpec is a compact description of a linked index or rate forecast
type PathSpec struct {
	Kind       PathKind          `yaml:"kind" json:"kind"`
	AnnualRate decimal.Decimal   `yaml:"annual_rate,omitempty" json:"annualRate,omitempty"`
	Anchors    []decimal.Decimal `yaml:"anchors,omitempty" json:"anchors,omitempty"`
	Period     int               `yaml:"period,omitempty" json:"period,omitempty"`
	Values     []decimal.Decimal `yaml:"values,omitempty" json:"values,omitempty"`
}

// ExitSpec is the horizon at which the borrower sells or refinances
type ExitSpec struct {
	Years int `yaml:"years" json:"years"`
}

// AffordabilitySpec caps the monthly payment the borrower can carry
type AffordabilitySpec struct {
	MaxMonthlyPayment decimal.Decimal  `yaml:"max_monthly_payment" json:"maxMonthlyPayment"`
	NumPayments       int              `yaml:"num_payments" json:"numPayments"`
	AnnualRate        *decimal.Decimal `yaml:"annual_rate,omitempty" json:"annualRate,omitempty"`
}

// TotalTrackAmount sums the absolute track amounts
func (m *MortgageSpec) TotalTrackAmount() decimal.Decimal {
	total := decimal.Zero
	for _, t := range m.Tracks {
		total = total.Add(t.Amount)
	}
	return total
}

// UsesShares reports whether any track is sized as a share of the loan
func (m *MortgageSpec) UsesShares() bool {
	for _, t := range m.Tracks {
		if t.Share != nil {
			return true
		}
	}
	return false
}

// FindTrack returns the track with the given name
func (m *MortgageSpec) FindTrack(name string) (*TrackSpec, bool) {
	for i := range m.Tracks {
		if m.Tracks[i].Name == name {
			return &m.Tracks[i], true
		}
	}
	return nil, false
}

// DeepCopy returns a copy that shares no slices, maps or pointers with c
func (c *Configuration) DeepCopy() *Configuration {
	out := *c

	out.Mortgage.PropertyValue = copyDecimal(c.Mortgage.PropertyValue)
	out.Mortgage.LoanToValue = copyDecimal(c.Mortgage.LoanToValue)
	out.Mortgage.Tracks = make([]TrackSpec, len(c.Mortgage.Tracks))
	for i, t := range c.Mortgage.Tracks {
		t.Share = copyDecimal(t.Share)
		t.AverageRateWhenTaken = copyDecimal(t.AverageRateWhenTaken)
		t.Index = t.Index.copy()
		t.Forecast = t.Forecast.copy()
		out.Mortgage.Tracks[i] = t
	}

	if c.ReferenceRates != nil {
		out.ReferenceRates = make(map[TrackKind]decimal.Decimal, len(c.ReferenceRates))
		for k, v := range c.ReferenceRates {
			out.ReferenceRates[k] = v
		}
	}
	if c.Exit != nil {
		exit := *c.Exit
		out.Exit = &exit
	}
	if c.FeeMonths != nil {
		out.FeeMonths = append([]int(nil), c.FeeMonths...)
	}
	if c.Affordability != nil {
		a := *c.Affordability
		a.AnnualRate = copyDecimal(a.AnnualRate)
		out.Affordability = &a
	}
	if c.Sensitivity != nil {
		s := *c.Sensitivity
		s.Parameters = append([]SensitivityParameter(nil), c.Sensitivity.Parameters...)
		out.Sensitivity = &s
	}
	return &out
}

func (p *PathSpec) copy() *PathSpec {
	if p == nil {
		return nil
	}
	out := *p
	out.Anchors = append([]decimal.Decimal(nil), p.Anchors...)
	out.Values = append([]decimal.Decimal(nil), p.Values...)
	return &out
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
