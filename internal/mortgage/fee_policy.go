package mortgage

import (
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/earlypayment"
)

// FeePolicy prices the early repayment of a single track. Arguments are
// validated by the caller.
type FeePolicy interface {
	Fee(t *Track, monthsElapsed int, referenceRate float64) (int64, error)
}

func policyFor(kind domain.TrackKind) FeePolicy {
	switch kind {
	case domain.TrackFixedNotLinked:
		return fullTermPolicy{}
	case domain.TrackFixedLinked:
		return realTermsPolicy{}
	case domain.TrackVariableLinked, domain.TrackVariableNotLinked:
		return resetBoundedPolicy{}
	default:
		return exemptPolicy{}
	}
}

// fullTermPolicy discounts every remaining payment of the track
type fullTermPolicy struct{}

func (fullTermPolicy) Fee(t *Track, monthsElapsed int, referenceRate float64) (int64, error) {
	s, err := t.Schedule()
	if err != nil {
		return 0, err
	}
	return earlypayment.Fee(earlypayment.Inputs{
		MarketRate:      referenceRate,
		Payments:        s.PaymentsFrom(monthsElapsed),
		OriginationRate: t.AverageRateWhenTaken(),
		CurrentRate:     t.RateAt(monthsElapsed),
		MonthsToReset:   earlypayment.NoReset,
	}), nil
}

// realTermsPolicy applies the full formula to the schedule the track would
// have without index linkage.
type realTermsPolicy struct{}

func (realTermsPolicy) Fee(t *Track, monthsElapsed int, referenceRate float64) (int64, error) {
	s, err := t.realSchedule()
	if err != nil {
		return 0, err
	}
	return earlypayment.Fee(earlypayment.Inputs{
		MarketRate:      referenceRate,
		Payments:        s.PaymentsFrom(monthsElapsed),
		OriginationRate: t.AverageRateWhenTaken(),
		CurrentRate:     t.RateAt(monthsElapsed),
		MonthsToReset:   earlypayment.NoReset,
	}), nil
}

// resetBoundedPolicy freezes the current payment for the rest of the term
// and only charges the differential up to the next rate reset.
type resetBoundedPolicy struct{}

func (resetBoundedPolicy) Fee(t *Track, monthsElapsed int, referenceRate float64) (int64, error) {
	s, err := t.realSchedule()
	if err != nil {
		return 0, err
	}
	if monthsElapsed >= s.Len() {
		return 0, nil
	}

	current := s.Payments[monthsElapsed].InexactFloat64()
	frozen := make([]float64, s.Len()-monthsElapsed)
	for i := range frozen {
		frozen[i] = current
	}

	return earlypayment.Fee(earlypayment.Inputs{
		MarketRate:      referenceRate,
		Payments:        frozen,
		OriginationRate: t.AverageRateWhenTaken(),
		CurrentRate:     t.RateAt(monthsElapsed),
		MonthsToReset:   earlypayment.MonthsToReset(monthsElapsed, t.ResetPeriod()),
	}), nil
}

// exemptPolicy covers eligibility and prime tracks, which carry no fee
type exemptPolicy struct{}

func (exemptPolicy) Fee(*Track, int, float64) (int64, error) {
	return 0, nil
}
