package mortgage

import (
	"fmt"

	"github.com/rgehrsitz/mortgo/internal/amortization"
	"github.com/rgehrsitz/mortgo/internal/domain"
)

// DefaultTerm is the length of the default index and forecast tables
const DefaultTerm = 360

// ChangeEveryFiveAnchors are the projected rate levels, in percent, at each
// five-year reset of a variable track.
var ChangeEveryFiveAnchors = []float64{1.66, 2.1, 2.29, 2.35, 2.37, 2.37}

// ConstantIndex returns n months of index growth at a constant annual rate
func ConstantIndex(annualRate float64, n int) []float64 {
	path := make([]float64, n)
	for i := range path {
		path[i] = annualRate / amortization.MonthsInYear
	}
	return path
}

// ResetForecast turns rate levels observed every period months into
// relative per-month rate changes. The first anchor is the starting level
// so month 0 carries no change.
func ResetForecast(anchors []float64, period, n int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("reset period must be positive: %d", period)
	}
	path := make([]float64, n)
	for k := 1; k < len(anchors); k++ {
		month := k * period
		if month >= n {
			break
		}
		if anchors[k-1] == 0 {
			return nil, fmt.Errorf("anchor %d is zero", k-1)
		}
		path[month] = anchors[k]/anchors[k-1] - 1
	}
	return path, nil
}

// BuildPath expands a path description to n months. A nil spec yields nil,
// which the engine treats as no change.
func BuildPath(spec *domain.PathSpec, n int) ([]float64, error) {
	if spec == nil {
		return nil, nil
	}

	switch spec.Kind {
	case domain.PathConstant:
		return ConstantIndex(spec.AnnualRate.InexactFloat64(), n), nil
	case domain.PathAnchors:
		anchors := make([]float64, len(spec.Anchors))
		for i, a := range spec.Anchors {
			anchors[i] = a.InexactFloat64()
		}
		if len(anchors) == 0 {
			anchors = ChangeEveryFiveAnchors
		}
		period := spec.Period
		if period == 0 {
			period = DefaultResetPeriod
		}
		return ResetForecast(anchors, period, n)
	case domain.PathExplicit:
		if len(spec.Values) < n {
			return nil, fmt.Errorf("explicit path has %d values, need %d", len(spec.Values), n)
		}
		path := make([]float64, len(spec.Values))
		for i, v := range spec.Values {
			path[i] = v.InexactFloat64()
		}
		return path, nil
	default:
		return nil, fmt.Errorf("unknown path kind %q", spec.Kind)
	}
}
