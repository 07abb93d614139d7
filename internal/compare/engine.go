package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/transform"
)

// CompareEngine orchestrates mortgage comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates  []string // List of template names to apply to the base
	ConfigPath string
}

// Compare runs the base configuration against each named template
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {
	baseResult, err := ce.calculate(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base mortgage: %w", err)
	}

	alternatives := make([]ComparisonResult, 0, len(options.Templates))
	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(config, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = config.Name + "_" + template.Name

		altResult, err := ce.calculate(ctx, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate template %s: %w", templateName, err)
		}
		altResult.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	return ce.newSet(baseResult, alternatives, options.ConfigPath), nil
}

// CompareConfigurations compares whole mortgage configurations, e.g. offers
// from different banks, against a base
func (ce *CompareEngine) CompareConfigurations(
	ctx context.Context,
	base *domain.Configuration,
	alternatives []*domain.Configuration,
) (*ComparisonSet, error) {
	baseResult, err := ce.calculate(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base mortgage: %w", err)
	}

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, alt := range alternatives {
		altResult, err := ce.calculate(ctx, alt)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate mortgage %s: %w", alt.Name, err)
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	return ce.newSet(baseResult, results, ""), nil
}

func (ce *CompareEngine) calculate(ctx context.Context, config *domain.Configuration) (ComparisonResult, error) {
	report, err := ce.CalcEngine.Run(ctx, config)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(report), nil
}

func (ce *CompareEngine) newSet(base ComparisonResult, alternatives []ComparisonResult, configPath string) *ComparisonSet {
	compSet := &ComparisonSet{
		BaseScenarioName:   base.ScenarioName,
		BaseResult:         &base,
		AlternativeResults: alternatives,
		ConfigPath:         configPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}
