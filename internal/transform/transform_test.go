package transform

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// Helper function to create a basic test configuration
func createTestConfiguration() *domain.Configuration {
	pv := decimal.NewFromInt(1000000)
	return &domain.Configuration{
		Name: "Test Mortgage",
		Mortgage: domain.MortgageSpec{
			PropertyValue: &pv,
			Tracks: []domain.TrackSpec{
				{Name: "fixed", Kind: domain.TrackFixedNotLinked, InterestRate: decimal.NewFromFloat(0.045), NumPayments: 300, Amount: decimal.NewFromInt(300000)},
				{Name: "prime", Kind: domain.TrackPrime, InterestRate: decimal.NewFromFloat(0.06), NumPayments: 360, Amount: decimal.NewFromInt(200000)},
				{Name: "cpi", Kind: domain.TrackFixedLinked, InterestRate: decimal.NewFromFloat(0.03), NumPayments: 240, Amount: decimal.NewFromInt(100000)},
			},
		},
		ReferenceRates: map[domain.TrackKind]decimal.Decimal{
			domain.TrackFixedNotLinked: decimal.NewFromFloat(0.04),
		},
	}
}

func TestApplyTransforms_NilConfiguration(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&SetExitYears{Years: 5}})
	if err == nil {
		t.Error("Expected error for nil configuration, got nil")
	}
}

func TestApplyTransforms_EmptyTransformsCopies(t *testing.T) {
	base := createTestConfiguration()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got the base pointer")
	}

	result.Mortgage.Tracks[0].Amount = decimal.NewFromInt(1)
	if !base.Mortgage.Tracks[0].Amount.Equal(decimal.NewFromInt(300000)) {
		t.Error("Modifying the result changed the base configuration")
	}
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestConfiguration()

	result, err := ApplyTransforms(base, []ScenarioTransform{
		&SetInterestRate{Track: "prime", Rate: decimal.NewFromFloat(0.05)},
		&ShiftInterestRate{Delta: decimal.NewFromFloat(0.01)},
		&SetExitYears{Years: 7},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	prime, _ := result.Mortgage.FindTrack("prime")
	if !prime.InterestRate.Equal(decimal.NewFromFloat(0.06)) {
		t.Errorf("Expected prime rate 0.06, got %s", prime.InterestRate)
	}
	fixed, _ := result.Mortgage.FindTrack("fixed")
	if !fixed.InterestRate.Equal(decimal.NewFromFloat(0.055)) {
		t.Errorf("Expected fixed rate 0.055, got %s", fixed.InterestRate)
	}
	if result.Exit == nil || result.Exit.Years != 7 {
		t.Errorf("Expected exit after 7 years, got %+v", result.Exit)
	}

	basePrime, _ := base.Mortgage.FindTrack("prime")
	if !basePrime.InterestRate.Equal(decimal.NewFromFloat(0.06)) || base.Exit != nil {
		t.Error("Base configuration was modified")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestConfiguration(), []ScenarioTransform{nil})
	if err == nil {
		t.Error("Expected error for nil transform")
	}
}

func TestSetInterestRate_UnknownTrack(t *testing.T) {
	tr := &SetInterestRate{Track: "balloon", Rate: decimal.NewFromFloat(0.05)}
	err := tr.Validate(createTestConfiguration())
	if err == nil {
		t.Fatal("Expected error for unknown track")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError, got %T", err)
	}
	if te.Operation != "validate" {
		t.Errorf("Expected validate operation, got %s", te.Operation)
	}
}

func TestShiftInterestRate_RejectsNegativeResult(t *testing.T) {
	tr := &ShiftInterestRate{Delta: decimal.NewFromFloat(-0.035)}
	if err := tr.Validate(createTestConfiguration()); err == nil {
		t.Error("Expected error when a track rate would go negative")
	}
}

func TestSetLoanAmount_RescalesProportionally(t *testing.T) {
	base := createTestConfiguration()
	tr := &SetLoanAmount{Amount: decimal.NewFromInt(900000)}

	if err := tr.Validate(base); err != nil {
		t.Fatalf("Unexpected validation error: %v", err)
	}
	result, err := tr.Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []int64{450000, 300000, 150000}
	for i, want := range expected {
		if !result.Mortgage.Tracks[i].Amount.Equal(decimal.NewFromInt(want)) {
			t.Errorf("Track %d: expected %d, got %s", i, want, result.Mortgage.Tracks[i].Amount)
		}
	}
	if !result.Mortgage.TotalTrackAmount().Equal(decimal.NewFromInt(900000)) {
		t.Errorf("Expected total 900000, got %s", result.Mortgage.TotalTrackAmount())
	}
}

func TestSetLoanAmount_RemainderGoesToLastTrack(t *testing.T) {
	base := createTestConfiguration()
	result, err := (&SetLoanAmount{Amount: decimal.NewFromInt(100000)}).Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Mortgage.TotalTrackAmount().Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Expected exact total, got %s", result.Mortgage.TotalTrackAmount())
	}
}

func TestSetLoanAmount_SingleTrack(t *testing.T) {
	base := createTestConfiguration()
	result, err := (&SetLoanAmount{Track: "cpi", Amount: decimal.NewFromInt(50000)}).Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cpi, _ := result.Mortgage.FindTrack("cpi")
	if !cpi.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Expected 50000, got %s", cpi.Amount)
	}
	fixed, _ := result.Mortgage.FindTrack("fixed")
	if !fixed.Amount.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("Other tracks should be untouched, got %s", fixed.Amount)
	}
}

func TestSetLoanAmount_ShareBasedMortgage(t *testing.T) {
	base := createTestConfiguration()
	half := decimal.NewFromFloat(0.5)
	for i := range base.Mortgage.Tracks {
		base.Mortgage.Tracks[i].Share = &half
	}

	if err := (&SetLoanAmount{Track: "cpi", Amount: decimal.NewFromInt(1)}).Validate(base); err == nil {
		t.Error("Expected error resizing one track of a share-based mortgage")
	}

	result, err := (&SetLoanAmount{Amount: decimal.NewFromInt(600000)}).Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Mortgage.LoanToValue == nil || !result.Mortgage.LoanToValue.Equal(decimal.NewFromFloat(0.6)) {
		t.Errorf("Expected loan-to-value 0.6, got %v", result.Mortgage.LoanToValue)
	}
}

func TestSetInterestOnlyPeriod(t *testing.T) {
	base := createTestConfiguration()

	if err := (&SetInterestOnlyPeriod{Track: "cpi", Months: 300}).Validate(base); err == nil {
		t.Error("Expected error for interest-only period longer than the track")
	}
	if err := (&SetInterestOnlyPeriod{Months: -1}).Validate(base); err == nil {
		t.Error("Expected error for negative months")
	}

	result, err := (&SetInterestOnlyPeriod{Months: 12}).Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, ts := range result.Mortgage.Tracks {
		if ts.InterestOnlyPeriod != 12 {
			t.Errorf("Track %s: expected 12 interest-only months, got %d", ts.Name, ts.InterestOnlyPeriod)
		}
	}
}

func TestSetInterestOnlyPeriod_EligibilityTrack(t *testing.T) {
	base := createTestConfiguration()
	base.Mortgage.Tracks = append(base.Mortgage.Tracks, domain.TrackSpec{
		Name: "subsidized", Kind: domain.TrackEligibility, InterestRate: decimal.NewFromFloat(0.03), NumPayments: 240, Amount: decimal.NewFromInt(100000),
	})

	if err := (&SetInterestOnlyPeriod{Track: "subsidized", Months: 12}).Validate(base); err == nil {
		t.Error("Expected error for interest-only months on an eligibility track")
	}

	all := &SetInterestOnlyPeriod{Months: 12}
	if err := all.Validate(base); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := all.Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, ts := range result.Mortgage.Tracks {
		want := 12
		if ts.Kind == domain.TrackEligibility {
			want = 0
		}
		if ts.InterestOnlyPeriod != want {
			t.Errorf("Track %s: expected %d interest-only months, got %d", ts.Name, want, ts.InterestOnlyPeriod)
		}
	}
}

func TestSetEquityPercentage(t *testing.T) {
	base := createTestConfiguration()
	tr := &SetEquityPercentage{Equity: decimal.NewFromFloat(0.4)}

	if err := tr.Validate(base); err != nil {
		t.Fatalf("Unexpected validation error: %v", err)
	}
	result, err := tr.Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.Mortgage.LoanToValue.Equal(decimal.NewFromFloat(0.6)) {
		t.Errorf("Expected loan-to-value 0.6, got %s", result.Mortgage.LoanToValue)
	}
	if !result.Mortgage.TotalTrackAmount().Equal(decimal.NewFromInt(600000)) {
		t.Errorf("Expected total 600000, got %s", result.Mortgage.TotalTrackAmount())
	}

	noProperty := createTestConfiguration()
	noProperty.Mortgage.PropertyValue = nil
	if err := tr.Validate(noProperty); err == nil {
		t.Error("Expected error without a property value")
	}
	if err := (&SetEquityPercentage{Equity: decimal.NewFromInt(1)}).Validate(base); err == nil {
		t.Error("Expected error for 100% equity")
	}
}

func TestSetReferenceRate(t *testing.T) {
	base := createTestConfiguration()

	result, err := (&SetReferenceRate{Rate: decimal.NewFromFloat(0.02)}).Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, kind := range []domain.TrackKind{domain.TrackFixedNotLinked, domain.TrackPrime, domain.TrackFixedLinked} {
		if !result.ReferenceRates[kind].Equal(decimal.NewFromFloat(0.02)) {
			t.Errorf("Expected 0.02 for %s, got %s", kind, result.ReferenceRates[kind])
		}
	}
	if !base.ReferenceRates[domain.TrackFixedNotLinked].Equal(decimal.NewFromFloat(0.04)) {
		t.Error("Base reference rates were modified")
	}

	err = (&SetReferenceRate{Kind: "balloon", Rate: decimal.NewFromFloat(0.02)}).Validate(base)
	if !errors.Is(err, domain.ErrUnrecognizedVariant) {
		t.Errorf("Expected unrecognized variant, got %v", err)
	}
}
