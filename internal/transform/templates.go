package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common mortgage what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "rates_up_1pct",
		Description: "Raise every track rate by one percentage point",
		Transforms: []ScenarioTransform{
			&ShiftInterestRate{Delta: decimal.NewFromFloat(0.01)},
		},
	})

	registry.Register(Template{
		Name:        "rates_down_1pct",
		Description: "Lower every track rate by one percentage point",
		Transforms: []ScenarioTransform{
			&ShiftInterestRate{Delta: decimal.NewFromFloat(-0.01)},
		},
	})

	registry.Register(Template{
		Name:        "interest_only_1yr",
		Description: "Pay only interest for the first 12 months on every track",
		Transforms: []ScenarioTransform{
			&SetInterestOnlyPeriod{Months: 12},
		},
	})

	registry.Register(Template{
		Name:        "exit_5yr",
		Description: "Repay the mortgage after 5 years",
		Transforms: []ScenarioTransform{
			&SetExitYears{Years: 5},
		},
	})

	registry.Register(Template{
		Name:        "exit_10yr",
		Description: "Repay the mortgage after 10 years",
		Transforms: []ScenarioTransform{
			&SetExitYears{Years: 10},
		},
	})

	registry.Register(Template{
		Name:        "market_rates_fall",
		Description: "Price early repayment at a 1% market rate on every track",
		Transforms: []ScenarioTransform{
			&SetReferenceRate{Rate: decimal.NewFromFloat(0.01)},
		},
	})

	registry.Register(Template{
		Name:        "stress",
		Description: "Rates up one point and an exit after 5 years",
		Transforms: []ScenarioTransform{
			&ShiftInterestRate{Delta: decimal.NewFromFloat(0.01)},
			&SetExitYears{Years: 5},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base configuration
func ApplyTemplate(base *domain.Configuration, template Template) (*domain.Configuration, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, name := range registry.List() {
		t := registry.templates[name]
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
	}

	sb.WriteString("\nUsage:\n")
	sb.WriteString("  mortgo calculate mortgage.yaml --template rates_up_1pct\n")
	sb.WriteString("  mortgo calculate mortgage.yaml --template stress,interest_only_1yr\n")

	return sb.String()
}
