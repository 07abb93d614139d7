package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/output"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing mortgages
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(output.TitleStyle.Render("MORTGAGE COMPARISON") + "\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	sb.WriteString(fmt.Sprintf("Base Mortgage: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Mortgage",
		numWidth, "1st Payment",
		numWidth, "Peak Payment",
		numWidth, "Total Interest",
		numWidth, "Cost"))
	sb.WriteString(strings.Repeat("-", 88) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 88) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			// lower cost is better
			sb.WriteString(fmt.Sprintf("  Cost of Borrowing: %s%s (%s%%)\n",
				tf.deltaSymbol(alt.CostDiffFromBase),
				output.FormatWhole(alt.CostDiffFromBase),
				alt.CostPctFromBase.StringFixed(1)))

			if !alt.PaymentDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  First Payment:     %s%s\n",
					tf.deltaSymbol(alt.PaymentDiffFromBase),
					output.FormatCurrency(alt.PaymentDiffFromBase)))
			}
			if alt.ExitYears > 0 {
				sb.WriteString(fmt.Sprintf("  Exit Fee:          %s after %d years\n",
					output.FormatWhole(alt.EarlyPaymentFee), alt.ExitYears))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, output.FormatCurrency(result.InitialMonthlyPayment),
		numWidth, output.FormatCurrency(result.HighestMonthlyPayment),
		numWidth, output.FormatWhole(result.TotalInterest),
		numWidth, output.FormatWhole(result.TotalCostOfBorrowing))
}

// deltaSymbol prefixes non-negative deltas; negative amounts carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of the cost deltas
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.CostDiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.CostDiffFromBase) + output.FormatWhole(alt.CostDiffFromBase)
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
