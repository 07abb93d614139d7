package mortgage

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/amortization"
)

// DefaultAffordabilityRate is the annual rate assumed when sizing the
// largest loan a payment cap can service.
const DefaultAffordabilityRate = 0.05

var (
	// ErrLoanAmountUnspecified is returned when neither an amount nor a loan-to-value ratio is known
	ErrLoanAmountUnspecified = errors.New("either a loan amount or a loan-to-value ratio is required")
	// ErrLoanAmountMismatch is returned when the amount disagrees with property value times loan-to-value
	ErrLoanAmountMismatch = errors.New("loan amount does not match property value times loan-to-value")
)

// MaximumLoanAmount is the present value of monthlyPayment over numPayments
// months at annualRate.
func MaximumLoanAmount(numPayments int, monthlyPayment decimal.Decimal, annualRate float64) decimal.Decimal {
	pv := amortization.PresentValue(annualRate/amortization.MonthsInYear, numPayments, monthlyPayment.InexactFloat64())
	return decimal.NewFromFloat(pv)
}

// ResolveLoanAmount derives the missing one of amount and loan-to-value from
// the property value. The amount is rounded to whole units and a derived
// ratio to two decimals; when both are given they must agree.
func ResolveLoanAmount(propertyValue decimal.Decimal, amount, loanToValue *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if !propertyValue.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("property value must be positive: %s", propertyValue)
	}

	switch {
	case amount == nil && loanToValue == nil:
		return decimal.Zero, decimal.Zero, ErrLoanAmountUnspecified
	case amount == nil:
		return propertyValue.Mul(*loanToValue).RoundBank(0), *loanToValue, nil
	case loanToValue == nil:
		return *amount, amount.Div(propertyValue).RoundBank(2), nil
	}

	expected := propertyValue.Mul(*loanToValue).RoundBank(0)
	if !amount.Equal(expected) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s != %s x %s", ErrLoanAmountMismatch, amount, propertyValue, loanToValue)
	}
	return *amount, *loanToValue, nil
}
