package amortization

import (
	"errors"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// MonthsInYear is the number of payment periods per year for monthly loans
const MonthsInYear = 12

const (
	irrTolerance  = 1e-12
	irrMaxIter    = 100
	bisectMaxIter = 300
)

// ErrNoIRR is returned when a cash-flow stream has no internal rate of return
var ErrNoIRR = errors.New("cash flow has no internal rate of return")

// Payment returns the fixed periodic payment that fully amortizes pv over nper
// periods at the given periodic rate (payments at period end, no residual value).
func Payment(rate float64, nper int, pv float64) float64 {
	if nper <= 0 {
		return 0
	}
	if rate == 0 {
		return pv / float64(nper)
	}
	growth := math.Pow(1+rate, float64(nper))
	return pv * rate * growth / (growth - 1)
}

// PresentValue returns the loan amount that a periodic payment of pmt can
// service over nper periods at the given periodic rate.
func PresentValue(rate float64, nper int, pmt float64) float64 {
	if nper <= 0 {
		return 0
	}
	if rate == 0 {
		return pmt * float64(nper)
	}
	return pmt * (1 - math.Pow(1+rate, -float64(nper))) / rate
}

// NPV discounts values at the periodic rate. The first value is at t=0 and is
// not discounted.
func NPV(rate float64, values []float64) float64 {
	var total float64
	factor := 1.0
	for _, v := range values {
		total += v / factor
		factor *= 1 + rate
	}
	return total
}

// IRR returns the periodic internal rate of return of values, i.e. the rate at
// which their NPV is zero. Newton-Raphson is tried first starting from zero and
// bisection is used when it fails to converge.
func IRR(values []float64) (float64, error) {
	if !hasSignChange(values) {
		return 0, ErrNoIRR
	}

	rate := 0.0
	for i := 0; i < irrMaxIter; i++ {
		f, df := npvAndDerivative(rate, values)
		if math.Abs(df) < 1e-15 {
			break
		}
		next := rate - f/df
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if math.Abs(next-rate) < irrTolerance {
			return next, nil
		}
		rate = next
	}

	return bisectIRR(values)
}

// AnnualizedIRR converts the monthly IRR of a loan cash flow into an annual
// percentage from the lender's side: monthly IRR × 12 × 100 × -1.
func AnnualizedIRR(values []float64) (float64, error) {
	monthly, err := IRR(values)
	if err != nil {
		return 0, err
	}
	return monthly * MonthsInYear * 100 * -1, nil
}

// Round2 rounds a monetary amount to cents. The exact binary value is
// rounded, so a float that only prints as a tie (2.675) rounds down and a
// true tie (0.125) goes to the even cent.
func Round2(v float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(v, 'f', 2, 64))
}

func npvAndDerivative(rate float64, values []float64) (float64, float64) {
	var f, df float64
	for t, v := range values {
		disc := math.Pow(1+rate, float64(t))
		f += v / disc
		df += -float64(t) * v / (disc * (1 + rate))
	}
	return f, df
}

func bisectIRR(values []float64) (float64, error) {
	lo, hi := -0.999999, 1.0
	fLo := NPV(lo, values)
	fHi := NPV(hi, values)
	for fLo*fHi > 0 && hi < 1e6 {
		hi *= 10
		fHi = NPV(hi, values)
	}
	if fLo*fHi > 0 {
		return 0, ErrNoIRR
	}

	for i := 0; i < bisectMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, values)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return (lo + hi) / 2, nil
}

func hasSignChange(values []float64) bool {
	var pos, neg bool
	for _, v := range values {
		if v > 0 {
			pos = true
		} else if v < 0 {
			neg = true
		}
	}
	return pos && neg
}
