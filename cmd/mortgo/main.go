package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/output"
	"github.com/rgehrsitz/mortgo/internal/transform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(settings).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Settings supply flag defaults.
func newRootCmd(settings config.Settings) *cobra.Command {
	root := &cobra.Command{
		Use:   "mortgo",
		Short: "Mortgage amortization and early repayment calculator",
		Long: `Amortize multi-track mortgages, aggregate them into a single repayment
schedule and price early repayment fees the way Israeli banks must.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", settings.LogLevel, "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", settings.LogFormat, "Log format (text, json)")

	root.AddCommand(
		calculateCmd(settings),
		feeCmd(),
		compareCmd(),
		breakevenCmd(),
		validateCmd(),
		sensitivityCmd(settings),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mortgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func calculateCmd(settings config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate a mortgage report",
		Long: `Calculate the amortization, costs and early repayment fees of a mortgage.

Examples:
  mortgo calculate mortgage.yaml
  mortgo calculate mortgage.yaml --format json
  mortgo calculate mortgage.yaml --transform set_rate:track=prime,rate=0.06
  mortgo calculate mortgage.yaml --template stress
  mortgo calculate --list-templates`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := transform.CreateBuiltInTemplates()
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(templates))
				return nil
			}

			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			specs, _ := cmd.Flags().GetStringArray("transform")
			names, _ := cmd.Flags().GetString("template")
			cfg, err = applyWhatIfs(cfg, specs, transform.ParseTemplateList(names), templates, logger)
			if err != nil {
				return err
			}

			if months, _ := cmd.Flags().GetIntSlice("fee-months"); len(months) > 0 {
				cfg.FeeMonths = months
			}
			if cmd.Flags().Changed("exit-years") {
				years, _ := cmd.Flags().GetInt("exit-years")
				cfg.Exit = &domain.ExitSpec{Years: years}
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)
			report, err := engine.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unsupported format %q (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}

			if write, _ := cmd.Flags().GetBool("write"); write {
				filename, err := output.WriteFormatted(formatter, report, extensionFor(formatter.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := formatter.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringP("format", "f", settings.OutputFormat, "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringArrayP("transform", "t", nil, "What-if transform (format: name:key=value,key=value), repeatable")
	cmd.Flags().String("template", "", "Comma-separated built-in what-if templates")
	cmd.Flags().Bool("list-templates", false, "List the built-in what-if templates")
	cmd.Flags().IntSlice("fee-months", nil, "Quote the early repayment fee after these months")
	cmd.Flags().Int("exit-years", 0, "Repay the mortgage after this many years")
	cmd.Flags().Bool("write", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func feeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee [input-file]",
		Short: "Quote the early repayment fee after a number of months",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			months, _ := cmd.Flags().GetInt("months")
			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)
			quote, err := engine.EarlyPaymentFee(cmd.Context(), cfg, months)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Early repayment fee after %d months: %s (discount factor %s)\n",
				quote.Month, output.FormatWhole(quote.Fee), quote.DiscountFactor.StringFixed(1))
			return nil
		},
	}
	cmd.Flags().IntP("months", "m", 0, "Months elapsed since the loan was taken")
	_ = cmd.MarkFlagRequired("months")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			// building the tracks catches path and amount problems the
			// parser cannot see on its own
			if _, _, err := calculation.NewCalculationEngine().BuildPipeline(cfg); err != nil {
				return fmt.Errorf("configuration %s is invalid: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", args[0])
			return nil
		},
	}
}

func applyWhatIfs(cfg *domain.Configuration, specs, templateNames []string, templates *transform.TemplateRegistry, logger *logrus.Logger) (*domain.Configuration, error) {
	var transforms []transform.ScenarioTransform

	for _, name := range templateNames {
		tpl, ok := templates.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(templates.List(), ", "))
		}
		transforms = append(transforms, tpl.Transforms...)
	}

	registry := transform.NewTransformRegistry()
	for _, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		transforms = append(transforms, t)
	}

	if len(transforms) == 0 {
		return cfg, nil
	}
	for _, t := range transforms {
		logger.WithField("transform", t.Name()).Debug(t.Description())
	}
	return transform.ApplyTransforms(cfg, transforms)
}

func extensionFor(format string) string {
	switch format {
	case "console", "console-verbose":
		return "txt"
	case "detailed-csv":
		return "csv"
	default:
		return format
	}
}

// loggerFor builds the logrus logger described by the persistent flags
func loggerFor(cmd *cobra.Command) (*logrus.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return newLogger(cmd.ErrOrStderr(), level, format)
}

