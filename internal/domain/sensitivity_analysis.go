package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	Target      string          `yaml:"target,omitempty" json:"target,omitempty"` // track name, empty for all tracks
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "rate", "currency", "months", "fraction"
	Description string          `yaml:"description" json:"description"`
}

// SensitivityConfig represents configuration for sensitivity analysis
type SensitivityConfig struct {
	Parameters   []SensitivityParameter `yaml:"parameters" json:"parameters"`
	OutputFormat string                 `yaml:"output_format" json:"outputFormat"`
}

// ParameterSensitivityAnalysis is the outcome of sweeping one parameter
type ParameterSensitivityAnalysis struct {
	BaseScenarioName string               `json:"baseScenarioName" yaml:"base_scenario_name"`
	Parameter        SensitivityParameter `json:"parameter" yaml:"parameter"`
	Base             SensitivityMetrics   `json:"base" yaml:"base"`
	Results          []SensitivityResult  `json:"results" yaml:"results"`
	Summary          SensitivitySummary   `json:"summary" yaml:"summary"`
}

// SensitivityResult represents one point of a parameter sweep
type SensitivityResult struct {
	ParameterValue decimal.Decimal    `json:"parameterValue" yaml:"parameter_value"`
	ScenarioName   string             `json:"scenarioName" yaml:"scenario_name"`
	KeyMetrics     SensitivityMetrics `json:"keyMetrics" yaml:"key_metrics"`
}

// SensitivityMetrics are the figures compared across sweep points
type SensitivityMetrics struct {
	InitialMonthlyPayment decimal.Decimal `json:"initialMonthlyPayment" yaml:"initial_monthly_payment"`
	HighestMonthlyPayment decimal.Decimal `json:"highestMonthlyPayment" yaml:"highest_monthly_payment"`
	TotalInterest         decimal.Decimal `json:"totalInterest" yaml:"total_interest"`
	TotalCostOfBorrowing  decimal.Decimal `json:"totalCostOfBorrowing" yaml:"total_cost_of_borrowing"`
	AnnualIRR             decimal.Decimal `json:"annualIrr" yaml:"annual_irr"`
	CostChange            decimal.Decimal `json:"costChange" yaml:"cost_change"`
	CostChangePct         decimal.Decimal `json:"costChangePct" yaml:"cost_change_pct"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MinCost         decimal.Decimal `json:"minCost" yaml:"min_cost"`
	MaxCost         decimal.Decimal `json:"maxCost" yaml:"max_cost"`
	SwingPct        decimal.Decimal `json:"swingPct" yaml:"swing_pct"`
	Recommendations []string        `json:"recommendations" yaml:"recommendations"`
	RiskLevel       string          `json:"riskLevel" yaml:"risk_level"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// Common sensitivity parameters
var (
	InterestRateParam = SensitivityParameter{
		Name:        "interest_rate",
		MinValue:    decimal.NewFromFloat(0.02),
		MaxValue:    decimal.NewFromFloat(0.07),
		Steps:       6,
		BaseValue:   decimal.NewFromFloat(0.04),
		Unit:        "rate",
		Description: "Annual contract rate of the targeted tracks",
	}

	LoanAmountParam = SensitivityParameter{
		Name:        "loan_amount",
		MinValue:    decimal.NewFromInt(500000),
		MaxValue:    decimal.NewFromInt(1500000),
		Steps:       5,
		BaseValue:   decimal.NewFromInt(1000000),
		Unit:        "currency",
		Description: "Total loan amount, split across tracks in their current proportions",
	}

	InterestOnlyPeriodParam = SensitivityParameter{
		Name:        "interest_only_period",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(24),
		Steps:       5,
		BaseValue:   decimal.Zero,
		Unit:        "months",
		Description: "Months of interest-only payments before amortization starts",
	}

	EquityPercentageParam = SensitivityParameter{
		Name:        "equity_percentage",
		MinValue:    decimal.NewFromFloat(0.25),
		MaxValue:    decimal.NewFromFloat(0.75),
		Steps:       5,
		BaseValue:   decimal.NewFromFloat(0.25),
		Unit:        "fraction",
		Description: "Share of the property value paid from equity",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		InterestRateParam,
		LoanAmountParam,
		InterestOnlyPeriodParam,
		EquityPercentageParam,
	}
}

// Values returns the evenly spaced sweep points from MinValue to MaxValue
func (p SensitivityParameter) Values() []decimal.Decimal {
	if p.Steps <= 1 {
		return []decimal.Decimal{p.MinValue}
	}
	step := p.MaxValue.Sub(p.MinValue).Div(decimal.NewFromInt(int64(p.Steps - 1)))
	values := make([]decimal.Decimal, p.Steps)
	for i := range values {
		values[i] = p.MinValue.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	values[len(values)-1] = p.MaxValue
	return values
}

// DetermineRiskLevel grades the swing in total cost of borrowing across the sweep
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	swing := ss.SwingPct.Abs()

	if swing.LessThan(decimal.NewFromFloat(5.0)) {
		return "LOW"
	} else if swing.LessThan(decimal.NewFromFloat(15.0)) {
		return "MEDIUM"
	} else if swing.LessThan(decimal.NewFromFloat(30.0)) {
		return "HIGH"
	} else {
		return "CRITICAL"
	}
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations(parameter string) []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Borrowing cost is robust to this parameter")
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor this parameter before locking the mix")
	case "HIGH":
		recommendations = append(recommendations, "Borrowing cost is sensitive to this parameter")
		recommendations = append(recommendations, "Compare against a mix with more fixed-rate tracks")
	case "CRITICAL":
		recommendations = append(recommendations, "⚠️ Borrowing cost is highly sensitive to this parameter")
		recommendations = append(recommendations, "Stress test the mix before committing")
	}

	switch parameter {
	case "interest_rate":
		recommendations = append(recommendations, "Consider shifting weight to fixed tracks to cap rate exposure")
	case "interest_only_period":
		recommendations = append(recommendations, "Interest-only months defer principal and raise total interest")
	case "equity_percentage", "loan_amount":
		recommendations = append(recommendations, "Larger equity reduces both interest and exit fees")
	}

	return recommendations
}
