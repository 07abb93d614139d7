package transform

import (
	"fmt"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// ScenarioTransform defines the interface for all scenario transformations.
// Transforms are pure: Apply returns a modified copy and never touches the
// base configuration, so sweep iterations cannot observe each other.
type ScenarioTransform interface {
	// Apply transforms a base configuration and returns a new modified one.
	Apply(base *domain.Configuration) (*domain.Configuration, error)

	// Name returns a short identifier for this transform (e.g., "set_rate").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform parameters are valid without applying it.
	Validate(base *domain.Configuration) error
}

// ApplyTransforms applies a sequence of transforms to a base configuration.
// Transforms are applied in order, with each transform receiving the output of the previous one.
func ApplyTransforms(base *domain.Configuration, transforms []ScenarioTransform) (*domain.Configuration, error) {
	if base == nil {
		return nil, fmt.Errorf("base configuration cannot be nil")
	}

	current := base.DeepCopy()
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
