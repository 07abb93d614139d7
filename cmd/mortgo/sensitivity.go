package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/output"
)

// sweepable lists the parameters the analyzer knows how to set, including
// those without a preset range
var sweepable = map[string]string{
	"interest_rate":        "Track interest rate",
	"loan_amount":          "Total loan amount",
	"interest_only_period": "Interest-only months",
	"equity_percentage":    "Share of the property value paid up front",
	"reference_rate":       "Bank of Israel reference rate",
	"exit_years":           "Years until the loan is repaid early",
}

func sensitivityCmd(settings config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [input-file]",
		Short: "Sweep a parameter and measure its effect on borrowing cost",
		Long: `Perform sensitivity analysis to see how the cost of a mortgage responds
to a single parameter.

Examples:
  # Sweep every track rate
  mortgo sensitivity mortgage.yaml --parameter interest_rate:0.03-0.07:5

  # Sweep one track only
  mortgo sensitivity mortgage.yaml --parameter interest_rate@prime:0.04-0.08:5

  # Use the preset parameters
  mortgo sensitivity mortgage.yaml --parameter-set common --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			paramSpecs, _ := cmd.Flags().GetStringArray("parameter")
			setName, _ := cmd.Flags().GetString("parameter-set")
			parameters, err := selectParameters(cfg, paramSpecs, setName)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("output")
			if !cmd.Flags().Changed("output") && cfg.Sensitivity != nil && cfg.Sensitivity.OutputFormat != "" {
				format = cfg.Sensitivity.OutputFormat
			}
			formatter := output.GetSensitivityFormatter(format)
			if formatter == nil {
				return fmt.Errorf("unsupported sensitivity output format %q", format)
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)
			analyses, err := calculation.NewSensitivityAnalyzer(engine).AnalyzeMultipleParameters(cmd.Context(), cfg, parameters)
			if err != nil {
				return err
			}

			text, err := formatter.FormatSensitivityAnalysis(analyses)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringArray("parameter", nil, "Parameter to sweep (format: name[@track]:min-max[:steps]), repeatable")
	cmd.Flags().String("parameter-set", "", "Use a predefined parameter set (common)")
	cmd.Flags().String("output", sensitivityDefault(settings.OutputFormat), "Output format (console, json, yaml)")
	return cmd
}

// selectParameters resolves the sweep from flags first, then from the file
func selectParameters(cfg *domain.Configuration, specs []string, setName string) ([]domain.SensitivityParameter, error) {
	switch {
	case setName != "":
		return predefinedParameterSet(setName)
	case len(specs) > 0:
		parameters := make([]domain.SensitivityParameter, 0, len(specs))
		for _, spec := range specs {
			p, err := parseParameterString(spec)
			if err != nil {
				return nil, fmt.Errorf("error parsing parameter '%s': %w", spec, err)
			}
			parameters = append(parameters, p)
		}
		return parameters, nil
	case cfg.Sensitivity != nil && len(cfg.Sensitivity.Parameters) > 0:
		return cfg.Sensitivity.Parameters, nil
	default:
		return nil, fmt.Errorf("must specify --parameter, --parameter-set or a sensitivity section in the configuration")
	}
}

func predefinedParameterSet(name string) ([]domain.SensitivityParameter, error) {
	switch name {
	case "common":
		return domain.GetCommonParameters(), nil
	case "rates":
		return []domain.SensitivityParameter{domain.InterestRateParam}, nil
	default:
		return nil, fmt.Errorf("unknown parameter set: %s", name)
	}
}

func parseParameterString(paramStr string) (domain.SensitivityParameter, error) {
	// Format: name[@track]:min-max[:steps]
	parts := strings.Split(paramStr, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid parameter format: %s (expected name:min-max:steps)", paramStr)
	}

	name, target, _ := strings.Cut(parts[0], "@")
	description, ok := sweepable[name]
	if !ok {
		return domain.SensitivityParameter{}, fmt.Errorf("unknown parameter %q", name)
	}

	param, found := calculation.LookupParameter(name)
	if !found {
		param = domain.SensitivityParameter{Name: name, Description: description, Steps: 5}
	}
	param.Target = target

	minMax := strings.Split(parts[1], "-")
	if len(minMax) != 2 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid range format: %s (expected min-max)", parts[1])
	}
	minValue, err := decimal.NewFromString(strings.TrimSpace(minMax[0]))
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid min value: %w", err)
	}
	maxValue, err := decimal.NewFromString(strings.TrimSpace(minMax[1]))
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid max value: %w", err)
	}
	if maxValue.LessThan(minValue) {
		return domain.SensitivityParameter{}, fmt.Errorf("max value %s is below min value %s", maxValue, minValue)
	}
	param.MinValue = minValue
	param.MaxValue = maxValue

	if len(parts) == 3 {
		steps, err := strconv.Atoi(parts[2])
		if err != nil || steps < 1 {
			return domain.SensitivityParameter{}, fmt.Errorf("invalid steps: %s", parts[2])
		}
		param.Steps = steps
	}

	return param, nil
}

// sensitivityDefault maps the report format setting onto one the sweep
// formatters understand
func sensitivityDefault(format string) string {
	switch format {
	case "json", "yaml":
		return format
	default:
		return "console"
	}
}
