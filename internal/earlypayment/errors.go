package earlypayment

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every ArgumentError
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a fee request rejected before any computation
type ArgumentError struct {
	Argument string
	Value    interface{}
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %v: %s", ErrInvalidArgument, e.Argument, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// ValidateArguments checks the caller-supplied inputs shared by every fee
// policy: elapsed months and the market reference rate must be non-negative.
func ValidateArguments(monthsElapsed int, referenceRate float64) error {
	if monthsElapsed < 0 {
		return &ArgumentError{Argument: "months", Value: monthsElapsed, Reason: "must be non-negative"}
	}
	if referenceRate < 0 {
		return &ArgumentError{Argument: "reference rate", Value: referenceRate, Reason: "must be non-negative"}
	}
	return nil
}
