package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// shareTolerance is how far track shares may drift from summing to one
var shareTolerance = decimal.RequireFromString("0.0001")

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file. A missing name
// defaults to the file's base name.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return config, nil
}

// Parse decodes and validates a configuration document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration. Track kinds and
// reference rate keys are normalized in place, so "fixed-linked" and
// "FIXED_LINKED" both become fixed_linked.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateMortgage(&config.Mortgage); err != nil {
		return fmt.Errorf("mortgage validation failed: %w", err)
	}
	if err := ip.validateReferenceRates(config); err != nil {
		return fmt.Errorf("reference rates validation failed: %w", err)
	}

	if config.Exit != nil && config.Exit.Years < 0 {
		return fmt.Errorf("exit years cannot be negative: %d", config.Exit.Years)
	}
	for _, m := range config.FeeMonths {
		if m < 0 {
			return fmt.Errorf("fee month cannot be negative: %d", m)
		}
	}

	if a := config.Affordability; a != nil {
		if !a.MaxMonthlyPayment.IsPositive() {
			return fmt.Errorf("affordability max monthly payment must be positive")
		}
		if a.NumPayments < 0 {
			return fmt.Errorf("affordability num payments cannot be negative: %d", a.NumPayments)
		}
		if a.AnnualRate != nil && a.AnnualRate.IsNegative() {
			return fmt.Errorf("affordability annual rate cannot be negative")
		}
	}

	if config.Sensitivity != nil {
		for i, p := range config.Sensitivity.Parameters {
			if err := ip.validateSensitivityParameter(p); err != nil {
				return fmt.Errorf("sensitivity parameter %d (%s) validation failed: %w", i, p.Name, err)
			}
		}
	}
	return nil
}

func (ip *InputParser) validateMortgage(m *domain.MortgageSpec) error {
	if len(m.Tracks) == 0 {
		return fmt.Errorf("at least one track is required")
	}

	if m.PropertyValue != nil && !m.PropertyValue.IsPositive() {
		return fmt.Errorf("property value must be positive")
	}
	if m.LoanToValue != nil {
		if m.PropertyValue == nil {
			return fmt.Errorf("loan to value requires a property value")
		}
		if !m.LoanToValue.IsPositive() || m.LoanToValue.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("loan to value must be in (0, 1], got %s", m.LoanToValue)
		}
	}

	names := make(map[string]bool, len(m.Tracks))
	shares := decimal.Zero
	shared := 0
	for i := range m.Tracks {
		ts := &m.Tracks[i]
		if err := ip.validateTrack(ts); err != nil {
			return fmt.Errorf("track %d (%s) validation failed: %w", i, ts.Name, err)
		}
		if names[ts.Name] {
			return fmt.Errorf("duplicate track name %q", ts.Name)
		}
		names[ts.Name] = true

		if ts.Share != nil {
			shared++
			shares = shares.Add(*ts.Share)
		}
	}

	if shared == 0 {
		return nil
	}
	if shared != len(m.Tracks) {
		return fmt.Errorf("tracks must all be sized by amount or all by share")
	}
	if m.LoanToValue == nil {
		return fmt.Errorf("tracks sized by share need a property value and a loan to value")
	}
	if shares.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(shareTolerance) {
		return fmt.Errorf("track shares must sum to 1, got %s", shares)
	}
	return nil
}

// validateTrack validates a single track
func (ip *InputParser) validateTrack(ts *domain.TrackSpec) error {
	if ts.Name == "" {
		return fmt.Errorf("name is required")
	}

	kind, err := domain.ParseTrackKind(string(ts.Kind))
	if err != nil {
		return err
	}
	ts.Kind = kind

	if ts.InterestRate.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative")
	}
	if ts.AverageRateWhenTaken != nil && ts.AverageRateWhenTaken.IsNegative() {
		return fmt.Errorf("average rate when taken cannot be negative")
	}
	if ts.NumPayments <= 0 {
		return fmt.Errorf("num payments must be positive, got %d", ts.NumPayments)
	}
	if ts.InterestOnlyPeriod < 0 || ts.InterestOnlyPeriod > ts.NumPayments {
		return fmt.Errorf("interest only period must be between 0 and %d, got %d", ts.NumPayments, ts.InterestOnlyPeriod)
	}
	if ts.InterestOnlyPeriod > 0 && !kind.AllowsInterestOnly() {
		return fmt.Errorf("%s tracks have no interest-only period", kind)
	}
	if ts.ResetPeriod < 0 {
		return fmt.Errorf("reset period cannot be negative")
	}
	if ts.ResetPeriod > 0 && !kind.HasRateReset() {
		return fmt.Errorf("%s tracks have no rate reset", kind)
	}

	if ts.Share != nil {
		if !ts.Share.IsPositive() || ts.Share.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("share must be in (0, 1], got %s", ts.Share)
		}
	} else if !ts.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	if ts.Index != nil {
		if !kind.IsIndexLinked() {
			return fmt.Errorf("%s tracks are not index linked", kind)
		}
		if err := validatePath(ts.Index); err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}
	if ts.Forecast != nil {
		if !kind.FollowsForecast() {
			return fmt.Errorf("%s tracks have a fixed rate", kind)
		}
		if err := validatePath(ts.Forecast); err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
	}
	return nil
}

func validatePath(p *domain.PathSpec) error {
	switch p.Kind {
	case domain.PathConstant:
		return nil
	case domain.PathAnchors:
		if p.Period < 0 {
			return fmt.Errorf("period cannot be negative")
		}
		for i, a := range p.Anchors {
			if !a.IsPositive() {
				return fmt.Errorf("anchor %d must be positive", i)
			}
		}
		return nil
	case domain.PathExplicit:
		if len(p.Values) == 0 {
			return fmt.Errorf("explicit path needs values")
		}
		return nil
	default:
		return fmt.Errorf("unknown path kind %q", p.Kind)
	}
}

func (ip *InputParser) validateReferenceRates(config *domain.Configuration) error {
	if len(config.ReferenceRates) == 0 {
		return nil
	}

	normalized := make(map[domain.TrackKind]decimal.Decimal, len(config.ReferenceRates))
	for k, rate := range config.ReferenceRates {
		kind, err := domain.ParseTrackKind(string(k))
		if err != nil {
			return err
		}
		if rate.IsNegative() {
			return fmt.Errorf("reference rate for %s cannot be negative", kind)
		}
		normalized[kind] = rate
	}
	config.ReferenceRates = normalized
	return nil
}

func (ip *InputParser) validateSensitivityParameter(p domain.SensitivityParameter) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}
	if p.MaxValue.LessThan(p.MinValue) {
		return fmt.Errorf("max value %s is below min value %s", p.MaxValue, p.MinValue)
	}
	return nil
}
