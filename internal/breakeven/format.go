package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/mortgo/internal/output"
)

// FormatResult renders a solver result for the console
func FormatResult(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString(output.TitleStyle.Render("BREAK-EVEN ANALYSIS") + "\n")
	sb.WriteString(fmt.Sprintf("Target: %s   Goal: %s\n\n", result.Target, result.Goal))

	status := output.PositiveStyle.Render("converged")
	if !result.Success {
		status = output.NegativeStyle.Render("not reached")
	}

	value := output.FormatWhole(result.Value)
	if result.Target == TargetRate {
		value = output.FormatPercentage(result.Value)
	}

	rows := [][2]string{
		{"Solved value", value},
		{"Status", status},
		{"Highest monthly payment", output.FormatCurrency(result.HighestMonthlyPayment)},
		{"Total cost of borrowing", output.FormatWhole(result.TotalCostOfBorrowing)},
		{"Iterations", fmt.Sprintf("%d", result.Iterations)},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-26s %s\n", output.LabelStyle.Render(row[0]+":"), row[1]))
	}
	sb.WriteString("\n" + result.ConvergenceInfo + "\n")

	return sb.String()
}

// FormatResultJSON renders a solver result as indented JSON
func FormatResultJSON(result *SolveResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
