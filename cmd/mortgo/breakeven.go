package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/breakeven"
	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/config"
)

func breakevenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven [input-file]",
		Short: "Solve for the rate or loan amount that meets a cost or payment target",
		Long: `Find the break-even point of a mortgage by bisection.

Examples:
  # Highest prime rate at which this mix still costs no more than another offer
  mortgo breakeven mortgage.yaml --target rate --track prime --match other_bank.yaml

  # Largest loan whose peak monthly payment stays within 7,500
  mortgo breakeven mortgage.yaml --target loan_amount --max-payment 7500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}

			parser := config.NewInputParser()
			cfg, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)

			target, _ := cmd.Flags().GetString("target")
			req := breakeven.SolveRequest{Config: cfg, Target: breakeven.SolveTarget(target)}
			req.Constraints.Track, _ = cmd.Flags().GetString("track")

			matchFile, _ := cmd.Flags().GetString("match")
			switch {
			case matchFile != "":
				other, err := parser.LoadFromFile(matchFile)
				if err != nil {
					return err
				}
				report, err := engine.Run(cmd.Context(), other)
				if err != nil {
					return fmt.Errorf("failed to calculate %s: %w", matchFile, err)
				}
				cost := compare.NewMetricsCalculator().CalculateMetrics(report).TotalCostOfBorrowing
				req.Goal = breakeven.GoalMatchCost
				req.Constraints.TargetCost = &cost
			case cmd.Flags().Changed("target-cost"):
				cost, err := decimalFlag(cmd, "target-cost")
				if err != nil {
					return err
				}
				req.Goal = breakeven.GoalMatchCost
				req.Constraints.TargetCost = &cost
			case cmd.Flags().Changed("max-payment"):
				payment, err := decimalFlag(cmd, "max-payment")
				if err != nil {
					return err
				}
				req.Goal = breakeven.GoalMaxPayment
				req.Constraints.MaxMonthlyPayment = &payment
			default:
				return fmt.Errorf("one of --match, --target-cost or --max-payment is required")
			}

			for flag, dst := range map[string]**decimal.Decimal{
				"min": lowerBound(&req),
				"max": upperBound(&req),
			} {
				if !cmd.Flags().Changed(flag) {
					continue
				}
				v, err := decimalFlag(cmd, flag)
				if err != nil {
					return err
				}
				*dst = &v
			}

			result, err := breakeven.NewDefaultSolver(engine).Solve(cmd.Context(), req)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			var text string
			switch format {
			case "console":
				text = breakeven.FormatResult(result)
			case "json":
				text, err = breakeven.FormatResultJSON(result)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported breakeven format %q (console, json)", format)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().String("target", string(breakeven.TargetRate), "Parameter to solve for (rate, loan_amount)")
	cmd.Flags().String("track", "", "Track whose rate moves (default: every track)")
	cmd.Flags().String("match", "", "Configuration whose cost of borrowing is the target")
	cmd.Flags().String("target-cost", "", "Cost of borrowing to match")
	cmd.Flags().String("max-payment", "", "Highest acceptable monthly payment")
	cmd.Flags().String("min", "", "Lower bound of the search")
	cmd.Flags().String("max", "", "Upper bound of the search")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	return cmd
}

func lowerBound(req *breakeven.SolveRequest) **decimal.Decimal {
	if req.Target == breakeven.TargetLoanAmount {
		return &req.Constraints.MinLoanAmount
	}
	return &req.Constraints.MinRate
}

func upperBound(req *breakeven.SolveRequest) **decimal.Decimal {
	if req.Target == breakeven.TargetLoanAmount {
		return &req.Constraints.MaxLoanAmount
	}
	return &req.Constraints.MaxRate
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return v, nil
}
