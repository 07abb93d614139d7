package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/transform"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [base-file] [alternative-files...]",
		Short: "Compare a mortgage against what-if templates or other offers",
		Long: `Compare the cost of a mortgage against alternatives.

Alternatives are either built-in what-if templates applied to the base or
other configuration files, such as offers from different banks.

Examples:
  mortgo compare mortgage.yaml --templates rates_up_1pct,exit_5yr
  mortgo compare bank_a.yaml bank_b.yaml bank_c.yaml --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}

			names, _ := cmd.Flags().GetString("templates")
			templates := transform.ParseTemplateList(names)
			if len(templates) > 0 && len(args) > 1 {
				return fmt.Errorf("use either --templates or alternative files, not both")
			}
			if len(templates) == 0 && len(args) == 1 {
				return fmt.Errorf("nothing to compare: pass --templates or alternative files")
			}

			parser := config.NewInputParser()
			base, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)
			compareEngine := compare.NewCompareEngine(engine)

			var compSet *compare.ComparisonSet
			if len(templates) > 0 {
				compSet, err = compareEngine.Compare(cmd.Context(), base, compare.CompareOptions{
					Templates:  templates,
					ConfigPath: args[0],
				})
			} else {
				alternatives := make([]*domain.Configuration, 0, len(args)-1)
				for _, path := range args[1:] {
					alt, err := parser.LoadFromFile(path)
					if err != nil {
						return err
					}
					alternatives = append(alternatives, alt)
				}
				compSet, err = compareEngine.CompareConfigurations(cmd.Context(), base, alternatives)
				if compSet != nil {
					compSet.ConfigPath = args[0]
				}
			}
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			var text string
			switch format {
			case "table", "console":
				text = (&compare.TableFormatter{}).Format(compSet)
			case "compact":
				text = (&compare.TableFormatter{}).FormatCompact(compSet) + "\n"
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(compSet)
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
			default:
				return fmt.Errorf("unsupported compare format %q (table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().String("templates", "", "Comma-separated built-in what-if templates to compare against")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}
