package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// ComparisonResult represents a single mortgage comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                 `json:"scenarioName"`
	Description  string                 `json:"description,omitempty"`
	Report       *domain.MortgageReport `json:"-"`

	// Key Metrics
	InitialMonthlyPayment decimal.Decimal `json:"initialMonthlyPayment"`
	HighestMonthlyPayment decimal.Decimal `json:"highestMonthlyPayment"`
	TotalInterest         decimal.Decimal `json:"totalInterest"`
	EarlyPaymentFee       decimal.Decimal `json:"earlyPaymentFee"`
	TotalCostOfBorrowing  decimal.Decimal `json:"totalCostOfBorrowing"`
	AnnualIRR             decimal.Decimal `json:"annualIrr"`
	ExitYears             int             `json:"exitYears,omitempty"`

	// Comparison to Base
	CostDiffFromBase    decimal.Decimal `json:"costDiffFromBase"`
	CostPctFromBase     decimal.Decimal `json:"costPctFromBase"`
	PaymentDiffFromBase decimal.Decimal `json:"paymentDiffFromBase"`
	IRRDiffFromBase     decimal.Decimal `json:"irrDiffFromBase"`
}

// ComparisonSet represents a collection of mortgage comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// MetricsCalculator extracts key metrics from mortgage reports
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for a report. When the
// report carries an exit, cost and fee are those at the exit.
func (mc *MetricsCalculator) CalculateMetrics(report *domain.MortgageReport) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:          report.Name,
		Report:                report,
		InitialMonthlyPayment: report.InitialMonthlyPayment,
		HighestMonthlyPayment: report.HighestMonthlyPayment,
		TotalInterest:         report.TotalInterest,
		TotalCostOfBorrowing:  report.TotalCostOfBorrowing,
		AnnualIRR:             report.AnnualIRR,
	}

	if report.Exit != nil {
		result.ExitYears = report.Exit.Years
		result.EarlyPaymentFee = report.Exit.EarlyPaymentFee
		result.TotalCostOfBorrowing = report.Exit.TotalCostOfBorrowing
	}

	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.CostDiffFromBase = scenario.TotalCostOfBorrowing.Sub(base.TotalCostOfBorrowing)

	if !base.TotalCostOfBorrowing.IsZero() {
		scenario.CostPctFromBase = scenario.CostDiffFromBase.
			Div(base.TotalCostOfBorrowing.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	scenario.PaymentDiffFromBase = scenario.InitialMonthlyPayment.Sub(base.InitialMonthlyPayment)
	scenario.IRRDiffFromBase = scenario.AnnualIRR.Sub(base.AnnualIRR)

	return scenario
}

// GenerateRecommendations points out alternatives that beat the base
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	cheapest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalCostOfBorrowing.LessThan(cheapest.TotalCostOfBorrowing) {
			cheapest = alt
		}
	}
	if cheapest != base {
		savings := base.TotalCostOfBorrowing.Sub(cheapest.TotalCostOfBorrowing)
		recommendations = append(recommendations,
			"Lowest Cost: "+cheapest.ScenarioName+" saves "+savings.StringFixed(0)+
				" in cost of borrowing over the base")
	}

	lowestPayment := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.InitialMonthlyPayment.LessThan(lowestPayment.InitialMonthlyPayment) {
			lowestPayment = alt
		}
	}
	if lowestPayment != base {
		diff := base.InitialMonthlyPayment.Sub(lowestPayment.InitialMonthlyPayment)
		recommendations = append(recommendations,
			"Lowest Payment: "+lowestPayment.ScenarioName+" starts "+diff.StringFixed(0)+
				" a month below the base")
	}

	// payment shock: how far the highest payment climbs over the first one
	for _, alt := range compSet.AlternativeResults {
		if alt.InitialMonthlyPayment.IsZero() {
			continue
		}
		shock := alt.HighestMonthlyPayment.Div(alt.InitialMonthlyPayment)
		if shock.GreaterThan(decimal.NewFromFloat(1.25)) {
			recommendations = append(recommendations,
				fmt.Sprintf("Payment Shock: %s peaks at %s%% of its first payment",
					alt.ScenarioName, shock.Mul(decimal.NewFromInt(100)).StringFixed(0)))
		}
	}

	return recommendations
}
