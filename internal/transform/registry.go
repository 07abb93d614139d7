package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_rate", createSetInterestRate)
	registry.Register("shift_rate", createShiftInterestRate)
	registry.Register("set_loan_amount", createSetLoanAmount)
	registry.Register("set_interest_only", createSetInterestOnlyPeriod)
	registry.Register("set_equity", createSetEquityPercentage)
	registry.Register("set_reference_rate", createSetReferenceRate)
	registry.Register("set_exit", createSetExitYears)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_rate:track=prime,rate=0.045"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func createSetInterestRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := requireDecimal(params, "set_rate", "rate")
	if err != nil {
		return nil, err
	}
	return &SetInterestRate{Track: params["track"], Rate: rate}, nil
}

func createShiftInterestRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := requireDecimal(params, "shift_rate", "delta")
	if err != nil {
		return nil, err
	}
	return &ShiftInterestRate{Track: params["track"], Delta: delta}, nil
}

func createSetLoanAmount(params map[string]string) (ScenarioTransform, error) {
	amount, err := requireDecimal(params, "set_loan_amount", "amount")
	if err != nil {
		return nil, err
	}
	return &SetLoanAmount{Track: params["track"], Amount: amount}, nil
}

func createSetInterestOnlyPeriod(params map[string]string) (ScenarioTransform, error) {
	months, err := requireInt(params, "set_interest_only", "months")
	if err != nil {
		return nil, err
	}
	return &SetInterestOnlyPeriod{Track: params["track"], Months: months}, nil
}

func createSetEquityPercentage(params map[string]string) (ScenarioTransform, error) {
	equity, err := requireDecimal(params, "set_equity", "equity")
	if err != nil {
		return nil, err
	}
	return &SetEquityPercentage{Equity: equity}, nil
}

func createSetReferenceRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := requireDecimal(params, "set_reference_rate", "rate")
	if err != nil {
		return nil, err
	}

	var kind domain.TrackKind
	if k, ok := params["kind"]; ok && k != "" {
		kind, err = domain.ParseTrackKind(k)
		if err != nil {
			return nil, fmt.Errorf("invalid kind value: %w", err)
		}
	}
	return &SetReferenceRate{Kind: kind, Rate: rate}, nil
}

func createSetExitYears(params map[string]string) (ScenarioTransform, error) {
	years, err := requireInt(params, "set_exit", "years")
	if err != nil {
		return nil, err
	}
	return &SetExitYears{Years: years}, nil
}

func requireDecimal(params map[string]string, transform, key string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func requireInt(params map[string]string, transform, key string) (int, error) {
	s, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}
