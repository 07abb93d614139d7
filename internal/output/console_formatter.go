package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// ConsoleFormatter renders a human readable summary. Verbose adds the
// year-by-year schedule.
type ConsoleFormatter struct {
	Verbose bool
}

func (c ConsoleFormatter) Name() string {
	if c.Verbose {
		return "console-verbose"
	}
	return "console"
}

func (c ConsoleFormatter) Format(report *domain.MortgageReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, TitleStyle.Render("MORTGAGE SUMMARY: "+report.Name))
	fmt.Fprintln(&buf)

	rows := [][2]string{
		{"Total loan amount", FormatCurrency(report.TotalLoanAmount)},
	}
	if report.PropertyValue != nil {
		rows = append(rows, [2]string{"Property value", FormatCurrency(*report.PropertyValue)})
	}
	if report.LoanToValue != nil {
		rows = append(rows, [2]string{"Loan to value", FormatPercentage(*report.LoanToValue)})
	}
	rows = append(rows,
		[2]string{"Term (months)", fmt.Sprintf("%d", report.NumPayments)},
		[2]string{"Initial monthly payment", FormatWhole(report.InitialMonthlyPayment)},
		[2]string{"Highest monthly payment", FormatCurrency(report.HighestMonthlyPayment)},
		[2]string{"Total payment", FormatCurrency(report.TotalPayment)},
		[2]string{"Total interest", FormatCurrency(report.TotalInterest)},
		[2]string{"Linked index payment", FormatCurrency(report.LinkedIndexPayment)},
		[2]string{"Total cost of borrowing", FormatWhole(report.TotalCostOfBorrowing)},
		[2]string{"Loan cost per unit", report.TotalLoanCost.StringFixed(2)},
		[2]string{"Weighted average rate", FormatPercentage(report.WeightedAverageRate)},
		[2]string{"Annual IRR", report.AnnualIRR.StringFixed(2) + "%"},
	)
	writeRows(&buf, rows)

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, SectionStyle.Render("TRACKS"))
	fmt.Fprintf(&buf, "%-16s %-20s %14s %8s %6s %8s %12s %14s\n",
		"Name", "Kind", "Amount", "Rate", "Term", "Share", "Initial", "Interest")
	for _, t := range report.Tracks {
		fmt.Fprintf(&buf, "%-16s %-20s %14s %8s %6d %8s %12s %14s\n",
			t.Name, t.Kind, FormatCurrency(t.Amount), FormatPercentage(t.InterestRate), t.NumPayments,
			FormatPercentage(t.Share), FormatCurrency(t.InitialMonthlyPayment), FormatCurrency(t.TotalInterest))
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, SectionStyle.Render("SEGMENTATION"))
	for _, lt := range domain.LinkageTypes() {
		fmt.Fprintf(&buf, "  %-28s %s\n", LabelStyle.Render(string(lt)), FormatPercentage(report.LinkageSegmentation[lt]))
	}
	for _, it := range domain.InterestTypes() {
		fmt.Fprintf(&buf, "  %-28s %s\n", LabelStyle.Render(string(it)), FormatPercentage(report.InterestTypeSegmentation[it]))
	}

	if len(report.EarlyPaymentFees) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, SectionStyle.Render("EARLY PAYMENT FEES"))
		fmt.Fprintf(&buf, "%8s %10s %14s\n", "Month", "Discount", "Fee")
		for _, q := range report.EarlyPaymentFees {
			fmt.Fprintf(&buf, "%8d %10s %14s\n", q.Month, q.DiscountFactor.StringFixed(1), FormatWhole(q.Fee))
		}
	}

	if e := report.Exit; e != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, SectionStyle.Render(fmt.Sprintf("EXIT AFTER %d YEARS", e.Years)))
		writeRows(&buf, [][2]string{
			{"Interest paid", FormatCurrency(e.InterestPaid)},
			{"Early payment fee", FormatWhole(e.EarlyPaymentFee)},
			{"Total cost of borrowing", FormatWhole(e.TotalCostOfBorrowing)},
		})
	}

	if a := report.Affordability; a != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, SectionStyle.Render("AFFORDABILITY"))
		verdict := PositiveStyle.Render("within limit")
		if !a.WithinLimit {
			verdict = NegativeStyle.Render("exceeds limit")
		}
		writeRows(&buf, [][2]string{
			{"Max monthly payment", FormatCurrency(a.MaxMonthlyPayment)},
			{"Assumed rate", FormatPercentage(a.AnnualRate)},
			{"Maximum loan amount", FormatCurrency(a.MaximumLoanAmount)},
			{"Requested loan", verdict},
		})
	}

	if c.Verbose {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, SectionStyle.Render("ANNUAL SCHEDULE"))
		fmt.Fprintf(&buf, "%5s %14s %14s %14s %16s\n", "Year", "Principal", "Interest", "Payment", "Balance")
		for _, r := range report.AnnualSchedule {
			fmt.Fprintf(&buf, "%5d %14s %14s %14s %16s\n", r.Year,
				FormatCurrency(r.Principal), FormatCurrency(r.Interest), FormatCurrency(r.Payment), FormatCurrency(r.RemainingBalance))
		}
	}

	return buf.Bytes(), nil
}

func writeRows(buf *bytes.Buffer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		label := LabelStyle.Render(r[0] + ":" + strings.Repeat(" ", width-len(r[0])))
		fmt.Fprintln(buf, lipgloss.JoinHorizontal(lipgloss.Top, "  ", label, " ", r[1]))
	}
}
