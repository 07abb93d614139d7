package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

func buildTestReport() *domain.MortgageReport {
	ltv := decimal.RequireFromString("0.5")
	pv := decimal.NewFromInt(400000)
	return &domain.MortgageReport{
		Name:                  "two_tracks",
		TotalLoanAmount:       decimal.NewFromInt(200000),
		PropertyValue:         &pv,
		LoanToValue:           &ltv,
		NumPayments:           360,
		InitialMonthlyPayment: decimal.NewFromInt(1539),
		HighestMonthlyPayment: decimal.RequireFromString("1643.66"),
		TotalPayment:          decimal.RequireFromString("362905.12"),
		TotalInterest:         decimal.RequireFromString("117746.50"),
		TotalLoanCost:         decimal.RequireFromString("1.8145"),
		WeightedAverageRate:   decimal.RequireFromString("0.045"),
		AnnualIRR:             decimal.RequireFromString("-5.74"),
		TotalCostOfBorrowing:  decimal.NewFromInt(162905),
		Tracks: []domain.TrackSummary{
			{Name: "linked", Kind: domain.TrackFixedLinked, InterestType: domain.InterestFixed, LinkageType: domain.LinkageLinked,
				Amount: decimal.NewFromInt(100000), InterestRate: decimal.RequireFromString("0.04"), NumPayments: 360,
				Share: decimal.RequireFromString("0.5"), InitialMonthlyPayment: decimal.RequireFromString("477.42")},
			{Name: "short", Kind: domain.TrackFixedNotLinked, InterestType: domain.InterestFixed, LinkageType: domain.LinkageNotLinked,
				Amount: decimal.NewFromInt(100000), InterestRate: decimal.RequireFromString("0.05"), NumPayments: 120,
				Share: decimal.RequireFromString("0.5"), InitialMonthlyPayment: decimal.RequireFromString("1060.66")},
		},
		LinkageSegmentation: map[domain.LinkageType]decimal.Decimal{
			domain.LinkageLinked: decimal.RequireFromString("0.5"), domain.LinkageNotLinked: decimal.RequireFromString("0.5"), domain.LinkagePrime: decimal.Zero,
		},
		InterestTypeSegmentation: map[domain.InterestType]decimal.Decimal{
			domain.InterestFixed: decimal.NewFromInt(1), domain.InterestVariable: decimal.Zero, domain.InterestPrime: decimal.Zero,
		},
		EarlyPaymentFees: []domain.FeeQuote{
			{Month: 84, DiscountFactor: decimal.RequireFromString("0.7"), Fee: decimal.NewFromInt(14792)},
		},
		Exit: &domain.ExitResult{Years: 5, InterestPaid: decimal.RequireFromString("39923.03"),
			EarlyPaymentFee: decimal.NewFromInt(18548), TotalCostOfBorrowing: decimal.NewFromInt(58471)},
		AnnualSchedule: []domain.AnnualRow{
			{Year: 1, Principal: decimal.RequireFromString("7685.60"), Interest: decimal.RequireFromString("10833.70"),
				Payment: decimal.RequireFromString("18519.30"), RemainingBalance: decimal.RequireFromString("192314.40")},
			{Year: 2, Principal: decimal.RequireFromString("8000.00"), Interest: decimal.RequireFromString("10500.00"),
				Payment: decimal.RequireFromString("18500.00"), RemainingBalance: decimal.RequireFromString("184314.40")},
		},
		Affordability: &domain.AffordabilityResult{MaxMonthlyPayment: decimal.NewFromInt(1000), NumPayments: 360,
			AnnualRate: decimal.RequireFromString("0.05"), MaximumLoanAmount: decimal.RequireFromString("186281.62"), WithinLimit: false},
	}
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var receivedReport *domain.MortgageReport

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *domain.MortgageReport) ([]byte, error) {
			called = true
			receivedReport = report
			return []byte("test output"), nil
		},
	}

	testReport := buildTestReport()
	output, err := formatter.Format(testReport)

	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, testReport, receivedReport, "Should pass the report")
	assert.Equal(t, []byte("test output"), output, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	// Create a temporary directory for testing
	t.Chdir(t.TempDir())

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *domain.MortgageReport) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, buildTestReport(), "txt")

	require.NoError(t, err, "Should not error")
	assert.Contains(t, filename, "mortgage_report_", "Should have correct prefix")
	assert.Contains(t, filename, ".txt", "Should have correct extension")

	content, err := os.ReadFile(filename)
	require.NoError(t, err, "Should be able to read the file")
	assert.Equal(t, "test output content", string(content), "Should have correct content")
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(report *domain.MortgageReport) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, buildTestReport(), "txt")

	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error", "Should propagate formatter error")
}

func TestConsoleFormatter_Format(t *testing.T) {
	output, err := ConsoleFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(output)
	assert.Contains(t, content, "MORTGAGE SUMMARY: two_tracks", "Should have header")
	assert.Contains(t, content, "200,000.00", "Should group thousands")
	assert.Contains(t, content, "1,539")
	assert.Contains(t, content, "162,905")
	assert.Contains(t, content, "50.00%", "Should show loan to value")
	assert.Contains(t, content, "TRACKS")
	assert.Contains(t, content, "fixed_not_linked")
	assert.Contains(t, content, "EARLY PAYMENT FEES")
	assert.Contains(t, content, "14,792")
	assert.Contains(t, content, "EXIT AFTER 5 YEARS")
	assert.Contains(t, content, "58,471")
	assert.Contains(t, content, "exceeds limit")
	assert.NotContains(t, content, "ANNUAL SCHEDULE", "Schedule is verbose only")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	formatter := ConsoleFormatter{Verbose: true}
	assert.Equal(t, "console-verbose", formatter.Name())

	output, err := formatter.Format(buildTestReport())
	require.NoError(t, err)
	assert.Contains(t, string(output), "ANNUAL SCHEDULE")
	assert.Contains(t, string(output), "192,314.40")
}

func TestConsoleFormatter_NilReport(t *testing.T) {
	_, err := ConsoleFormatter{}.Format(nil)
	assert.Error(t, err)
}

func TestCSVFormatter_Format(t *testing.T) {
	output, err := CSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(output))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Year", "Principal", "Interest", "Payment", "RemainingBalance"}, records[0])
	assert.Equal(t, []string{"1", "7685.60", "10833.70", "18519.30", "192314.40"}, records[1])
}

func TestDetailedCSVFormatter_Format(t *testing.T) {
	output, err := DetailedCSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(output))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Track", records[0][0])
	assert.Equal(t, []string{"short", "fixed_not_linked", "fixed", "not_linked"}, records[2][:4])
}

func TestJSONFormatter_Format(t *testing.T) {
	output, err := JSONFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(output, &decoded))
	assert.Equal(t, "two_tracks", decoded["name"])
	assert.Equal(t, "1539", decoded["initialMonthlyPayment"])
	assert.Len(t, decoded["tracks"], 2)
}

func TestYAMLFormatter_Format(t *testing.T) {
	output, err := YAMLFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	var decoded domain.MortgageReport
	require.NoError(t, yaml.Unmarshal(output, &decoded))
	assert.Equal(t, "two_tracks", decoded.Name)
	assert.True(t, decoded.TotalCostOfBorrowing.Equal(decimal.NewFromInt(162905)))
	require.NotNil(t, decoded.Exit)
	assert.Equal(t, 5, decoded.Exit.Years)
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "console-verbose", "csv", "detailed-csv", "json", "yaml"}, AvailableFormatterNames())
	assert.Equal(t, []string{"text", "verbose", "yml"}, AvailableFormatAliases())
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range AvailableFormatterNames() {
		formatter := GetFormatterByName(name)
		require.NotNil(t, formatter, name)
		assert.Equal(t, name, formatter.Name())
	}

	assert.Equal(t, "console-verbose", GetFormatterByName("verbose").Name())
	assert.Equal(t, "yaml", GetFormatterByName(" YML ").Name())
	assert.Nil(t, GetFormatterByName("non-existent"), "Should return nil formatter for non-existent name")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatCurrency(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-20,371", FormatWhole(decimal.NewFromInt(-20371)))
	assert.Equal(t, "4.50%", FormatPercentage(decimal.RequireFromString("0.045")))
}
