package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/transform"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a sensitivity analyzer on top of engine,
// or a fresh engine when nil
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeSingleParameter sweeps one parameter across its range, re-running
// the whole mortgage for each value
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	config *domain.Configuration,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if parameter.Steps < 1 {
		return nil, fmt.Errorf("parameter %s needs at least one step", parameter.Name)
	}
	if parameter.MaxValue.LessThan(parameter.MinValue) {
		return nil, fmt.Errorf("parameter %s: max %s is below min %s", parameter.Name, parameter.MaxValue, parameter.MinValue)
	}

	baseReport, err := sa.calculationEngine.Run(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}
	base := metricsOf(baseReport)
	baseCost := base.TotalCostOfBorrowing

	results := make([]domain.SensitivityResult, 0, parameter.Steps)
	for _, value := range parameter.Values() {
		t, err := transformFor(parameter, value)
		if err != nil {
			return nil, err
		}

		modified, err := transform.ApplyTransforms(config, []transform.ScenarioTransform{t})
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s=%s: %w", parameter.Name, value, err)
		}

		report, err := sa.calculationEngine.Run(ctx, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario for %s=%s: %w", parameter.Name, value, err)
		}

		metrics := metricsOf(report)
		metrics.CostChange = metrics.TotalCostOfBorrowing.Sub(baseCost)
		if !baseCost.IsZero() {
			metrics.CostChangePct = metrics.CostChange.Div(baseCost).Mul(decimal.NewFromInt(100)).Round(2)
		}

		results = append(results, domain.SensitivityResult{
			ParameterValue: value,
			ScenarioName:   fmt.Sprintf("%s_%s_%s", config.Name, parameter.Name, value.String()),
			KeyMetrics:     metrics,
		})
	}

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: config.Name,
		Parameter:        parameter,
		Base:             base,
		Results:          results,
		Summary:          sa.calculateSensitivitySummary(results, parameter, baseCost),
	}, nil
}

// AnalyzeMultipleParameters runs an independent sweep per parameter
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	config *domain.Configuration,
	parameters []domain.SensitivityParameter,
) ([]*domain.ParameterSensitivityAnalysis, error) {
	analyses := make([]*domain.ParameterSensitivityAnalysis, 0, len(parameters))
	for _, param := range parameters {
		analysis, err := sa.AnalyzeSingleParameter(ctx, config, param)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

func (sa *SensitivityAnalyzer) calculateSensitivitySummary(
	results []domain.SensitivityResult,
	parameter domain.SensitivityParameter,
	baseCost decimal.Decimal,
) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{}
	if len(results) == 0 {
		return summary
	}

	summary.MinCost = results[0].KeyMetrics.TotalCostOfBorrowing
	summary.MaxCost = results[0].KeyMetrics.TotalCostOfBorrowing
	for _, r := range results[1:] {
		summary.MinCost = decimal.Min(summary.MinCost, r.KeyMetrics.TotalCostOfBorrowing)
		summary.MaxCost = decimal.Max(summary.MaxCost, r.KeyMetrics.TotalCostOfBorrowing)
	}

	if !baseCost.IsZero() {
		summary.SwingPct = summary.MaxCost.Sub(summary.MinCost).Div(baseCost.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
	}
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations(parameter.Name)
	return summary
}

// metricsOf picks the sweep figures from a report. With an exit configured
// the cost of borrowing is the cost at the exit.
func metricsOf(report *domain.MortgageReport) domain.SensitivityMetrics {
	cost := report.TotalCostOfBorrowing
	if report.Exit != nil {
		cost = report.Exit.TotalCostOfBorrowing
	}
	return domain.SensitivityMetrics{
		InitialMonthlyPayment: report.InitialMonthlyPayment,
		HighestMonthlyPayment: report.HighestMonthlyPayment,
		TotalInterest:         report.TotalInterest,
		TotalCostOfBorrowing:  cost,
		AnnualIRR:             report.AnnualIRR,
	}
}

// transformFor maps a swept parameter onto the scenario transform that sets it
func transformFor(p domain.SensitivityParameter, value decimal.Decimal) (transform.ScenarioTransform, error) {
	switch p.Name {
	case domain.InterestRateParam.Name:
		return &transform.SetInterestRate{Track: p.Target, Rate: value}, nil
	case domain.LoanAmountParam.Name:
		return &transform.SetLoanAmount{Track: p.Target, Amount: value.RoundBank(0)}, nil
	case domain.InterestOnlyPeriodParam.Name:
		return &transform.SetInterestOnlyPeriod{Track: p.Target, Months: int(value.Round(0).IntPart())}, nil
	case domain.EquityPercentageParam.Name:
		return &transform.SetEquityPercentage{Equity: value}, nil
	case "reference_rate":
		kind := domain.TrackKind("")
		if p.Target != "" {
			k, err := domain.ParseTrackKind(p.Target)
			if err != nil {
				return nil, err
			}
			kind = k
		}
		return &transform.SetReferenceRate{Kind: kind, Rate: value}, nil
	case "exit_years":
		return &transform.SetExitYears{Years: int(value.Round(0).IntPart())}, nil
	default:
		return nil, fmt.Errorf("unknown sensitivity parameter: %s", p.Name)
	}
}

// LookupParameter returns the preset for name, if there is one
func LookupParameter(name string) (domain.SensitivityParameter, bool) {
	for _, p := range domain.GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return domain.SensitivityParameter{}, false
}
