package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// CSVFormatter writes the aggregated annual schedule, one row per year
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.MortgageReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Principal", "Interest", "Payment", "RemainingBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.AnnualSchedule {
		row := []string{
			strconv.Itoa(r.Year),
			r.Principal.StringFixed(2),
			r.Interest.StringFixed(2),
			r.Payment.StringFixed(2),
			r.RemainingBalance.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes one row per track
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(report *domain.MortgageReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Track", "Kind", "InterestType", "LinkageType", "Amount", "InterestRate", "NumPayments",
		"Share", "ResourceAllocation", "InitialMonthlyPayment", "HighestMonthlyPayment",
		"TotalInterest", "TotalRepayment", "LoanCost", "AnnualIRR",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, t := range report.Tracks {
		row := []string{
			t.Name,
			string(t.Kind),
			string(t.InterestType),
			string(t.LinkageType),
			t.Amount.StringFixed(2),
			t.InterestRate.String(),
			strconv.Itoa(t.NumPayments),
			t.Share.StringFixed(4),
			t.ResourceAllocation.StringFixed(4),
			t.InitialMonthlyPayment.StringFixed(2),
			t.HighestMonthlyPayment.StringFixed(2),
			t.TotalInterest.StringFixed(2),
			t.TotalRepayment.StringFixed(2),
			t.LoanCost.StringFixed(4),
			t.AnnualIRR.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
