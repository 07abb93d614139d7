package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analyses []*domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// GetSensitivityFormatter returns the sweep formatter for format, or nil
func GetSensitivityFormatter(format string) SensitivityFormatter {
	switch strings.ToLower(format) {
	case "console", "console-verbose", "verbose", "text":
		return SensitivityConsoleFormatter{}
	case "json":
		return SensitivityStructuredFormatter{Encoding: "json"}
	case "yaml", "yml":
		return SensitivityStructuredFormatter{Encoding: "yaml"}
	default:
		return nil
	}
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analyses []*domain.ParameterSensitivityAnalysis) (string, error) {
	var buf bytes.Buffer
	for i, analysis := range analyses {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		if err := scf.formatSingleAnalysis(&buf, analysis); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatSingleAnalysis(buf *bytes.Buffer, analysis *domain.ParameterSensitivityAnalysis) error {
	if analysis == nil || len(analysis.Results) == 0 {
		return fmt.Errorf("no results in analysis")
	}

	param := analysis.Parameter
	fmt.Fprintln(buf, TitleStyle.Render("SENSITIVITY ANALYSIS: "+strings.ToUpper(strings.ReplaceAll(param.Name, "_", " "))))
	if param.Target != "" {
		fmt.Fprintf(buf, "Target: %s\n", param.Target)
	}
	fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n", param.MinValue, param.MaxValue, param.Steps)
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintf(buf, "Base cost of borrowing: %s\n", FormatWhole(analysis.Base.TotalCostOfBorrowing))
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%12s %12s %16s %16s %10s\n", "Value", "Initial", "Interest", "Cost", "Change")
	for _, r := range analysis.Results {
		m := r.KeyMetrics
		change := m.CostChangePct.StringFixed(2) + "%"
		switch {
		case m.CostChange.IsPositive():
			change = NegativeStyle.Render("+" + change)
		case m.CostChange.IsNegative():
			change = PositiveStyle.Render(change)
		}
		fmt.Fprintf(buf, "%12s %12s %16s %16s %10s\n", r.ParameterValue.String(),
			FormatWhole(m.InitialMonthlyPayment), FormatCurrency(m.TotalInterest), FormatWhole(m.TotalCostOfBorrowing), change)
	}

	s := analysis.Summary
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Cost range: %s to %s (swing %s%%)\n", FormatWhole(s.MinCost), FormatWhole(s.MaxCost), s.SwingPct.StringFixed(2))
	fmt.Fprintf(buf, "Risk level: %s\n", s.RiskLevel)
	for _, rec := range s.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}
	return nil
}

// SensitivityStructuredFormatter emits analyses as JSON or YAML
type SensitivityStructuredFormatter struct {
	Encoding string
}

func (s SensitivityStructuredFormatter) Name() string { return s.Encoding }

func (s SensitivityStructuredFormatter) FormatSensitivityAnalysis(analyses []*domain.ParameterSensitivityAnalysis) (string, error) {
	var (
		data []byte
		err  error
	)
	switch s.Encoding {
	case "json":
		data, err = json.MarshalIndent(analyses, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(analyses)
	default:
		return "", fmt.Errorf("unsupported encoding: %s", s.Encoding)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
