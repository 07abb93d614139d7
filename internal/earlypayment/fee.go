// Package earlypayment implements the Bank of Israel early-repayment fee
// (capitalization differential) and its elapsed-time discount table.
package earlypayment

import (
	"math"

	"github.com/rgehrsitz/mortgo/internal/amortization"
)

// NoReset marks a track without a scheduled rate reset
const NoReset = -1

// Inputs for a single track's fee.
//
// MarketRate is the average market rate on the prepayment date (A),
// OriginationRate the average market rate when the loan was taken (C) and
// CurrentRate the rate applicable to the loan today (R). All three are annual
// fractions. Payments is the remaining monthly payment stream (B) and
// MonthsToReset the number of months until the next rate reset (n); a
// negative or out-of-range value applies the formula over the whole stream.
type Inputs struct {
	MarketRate      float64
	Payments        []float64
	OriginationRate float64
	CurrentRate     float64
	MonthsToReset   int
}

// Fee computes aa + bb - cc - dd rounded half to even. Negative results are
// returned as is.
func Fee(in Inputs) int64 {
	a := in.MarketRate / amortization.MonthsInYear
	c := in.OriginationRate / amortization.MonthsInYear
	r := in.CurrentRate / amortization.MonthsInYear

	n := in.MonthsToReset
	if n < 0 || n > len(in.Payments) {
		n = len(in.Payments)
	}
	untilReset := shifted(in.Payments[:n])
	afterReset := shifted(in.Payments[n:])

	// the lower of origination and current rate caps the penalty
	cEff := math.Min(c, r)

	tail := amortization.NPV(r, afterReset)
	aa := amortization.NPV(a, untilReset)
	bb := tail / math.Pow(1+a, float64(n))
	cc := amortization.NPV(cEff, untilReset)
	dd := tail / math.Pow(1+cEff, float64(n))

	return int64(math.RoundToEven(aa + bb - cc - dd))
}

// DiscountFactor returns the multiplier applied to a pipeline's summed fee
// after monthsElapsed months. Pipelines holding an eligibility track step
// down faster.
func DiscountFactor(monthsElapsed int, eligibilityPresent bool) float64 {
	if eligibilityPresent {
		switch {
		case monthsElapsed >= 48:
			return 0.6
		case monthsElapsed >= 36:
			return 0.7
		case monthsElapsed >= 24:
			return 0.8
		case monthsElapsed >= 12:
			return 0.9
		}
		return 1.0
	}

	switch {
	case monthsElapsed >= 60:
		return 0.7
	case monthsElapsed >= 36:
		return 0.8
	}
	return 1.0
}

// MonthsToReset returns the months from the prepayment date to the next
// scheduled rate reset. It is 0 on a reset boundary after origination and
// NoReset when resetPeriod is not positive.
func MonthsToReset(monthsElapsed, resetPeriod int) int {
	if resetPeriod <= 0 {
		return NoReset
	}
	into := monthsElapsed % resetPeriod
	if into == 0 && monthsElapsed > 0 {
		return 0
	}
	return resetPeriod - into
}

// shifted prepends a zero so the stream is valued starting one period out
func shifted(payments []float64) []float64 {
	out := make([]float64, 0, len(payments)+1)
	out = append(out, 0)
	return append(out, payments...)
}
