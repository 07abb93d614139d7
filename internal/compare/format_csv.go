package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Mortgage",
		"Type",
		"Initial Monthly Payment",
		"Highest Monthly Payment",
		"Total Interest",
		"Exit Years",
		"Early Payment Fee",
		"Total Cost of Borrowing",
		"Annual IRR",
		"Cost Diff from Base",
		"Cost % Change",
		"Payment Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, kind string) []string {
	return []string{
		result.ScenarioName,
		kind,
		result.InitialMonthlyPayment.StringFixed(2),
		result.HighestMonthlyPayment.StringFixed(2),
		result.TotalInterest.StringFixed(2),
		strconv.Itoa(result.ExitYears),
		result.EarlyPaymentFee.StringFixed(0),
		result.TotalCostOfBorrowing.StringFixed(2),
		result.AnnualIRR.StringFixed(2),
		result.CostDiffFromBase.StringFixed(2),
		result.CostPctFromBase.StringFixed(2),
		result.PaymentDiffFromBase.StringFixed(2),
	}
}
