package compare

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		BaseScenarioName: "Base Mix",
		ConfigPath:       "/path/to/mortgage.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:          "Base Mix",
			InitialMonthlyPayment: decimal.NewFromInt(5000),
			HighestMonthlyPayment: decimal.NewFromInt(5400),
			TotalInterest:         decimal.NewFromInt(650000),
			TotalCostOfBorrowing:  decimal.NewFromInt(700000),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:          "Base Mix_exit_5yr",
				Description:           "Repay the mortgage after 5 years",
				InitialMonthlyPayment: decimal.NewFromInt(5000),
				HighestMonthlyPayment: decimal.NewFromInt(5400),
				TotalInterest:         decimal.NewFromInt(650000),
				ExitYears:             5,
				EarlyPaymentFee:       decimal.NewFromInt(18548),
				TotalCostOfBorrowing:  decimal.NewFromInt(220000),
				CostDiffFromBase:      decimal.NewFromInt(-480000),
				CostPctFromBase:       decimal.NewFromFloat(-68.57),
			},
		},
		Recommendations: []string{
			"Lowest Cost: Base Mix_exit_5yr saves 480000 in cost of borrowing over the base",
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.Format(sampleSet())

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}

	expected := []string{
		"MORTGAGE COMPARISON",
		"Base Mortgage: Base Mix",
		"Configuration: /path/to/mortgage.yaml",
		"Base Mix (base)",
		"Base Mix_exit_5yr",
		"Repay the mortgage after 5 years",
		"-480,000 (-68.6%)",
		"18,548 after 5 years",
		"RECOMMENDATIONS",
	}
	for _, want := range expected {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in output:\n%s", want, result)
		}
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	formatter := &TableFormatter{}

	compSet := sampleSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	result := formatter.Format(compSet)

	if !strings.Contains(result, "Base Mix (base)") {
		t.Error("Expected base mortgage in table")
	}
	if strings.Contains(result, "COMPARISON TO BASE") {
		t.Error("Should not have a comparison section without alternatives")
	}
	if strings.Contains(result, "RECOMMENDATIONS") {
		t.Error("Should not have a recommendations section")
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}

	compSet := sampleSet()
	compSet.AlternativeResults = append(compSet.AlternativeResults, ComparisonResult{ScenarioName: "Same"})

	got := formatter.FormatCompact(compSet)
	want := "Base: Base Mix | Base Mix_exit_5yr: -480,000 | Same: ="
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTableFormatter_truncate(t *testing.T) {
	formatter := &TableFormatter{}

	if got := formatter.truncate("short", 10); got != "short" {
		t.Errorf("Expected short names untouched, got %q", got)
	}
	if got := formatter.truncate("a_very_long_mortgage_name", 10); got != "a_very_..." {
		t.Errorf("Expected truncated name, got %q", got)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}

	result, err := formatter.Format(sampleSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(result)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "Mortgage" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][1] != "base" || records[2][1] != "alternative" {
		t.Errorf("Unexpected row types: %s, %s", records[1][1], records[2][1])
	}
	if records[2][5] != "5" || records[2][6] != "18548" {
		t.Errorf("Unexpected exit columns: %v", records[2])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		formatter := &JSONFormatter{Pretty: pretty}

		result, err := formatter.Format(sampleSet())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		for _, field := range []string{`"baseScenarioName"`, `"Base Mix"`, `"alternativeResults"`, `"recommendations"`} {
			if !strings.Contains(result, field) {
				t.Errorf("Expected %s in JSON (pretty=%v)", field, pretty)
			}
		}
		if strings.Contains(result, `"Report"`) {
			t.Error("Report should not be serialized")
		}
	}
}
