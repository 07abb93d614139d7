package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// Formatter renders a mortgage report into bytes
type Formatter interface {
	Name() string
	Format(report *domain.MortgageReport) ([]byte, error)
}

// FormatterFunc adapts a plain function to Formatter
type FormatterFunc struct {
	ID string
	F  func(report *domain.MortgageReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.MortgageReport) ([]byte, error) {
	return f.F(report)
}

var formatters = map[string]Formatter{
	"console":         ConsoleFormatter{},
	"console-verbose": ConsoleFormatter{Verbose: true},
	"csv":             CSVFormatter{},
	"detailed-csv":    DetailedCSVFormatter{},
	"json":            JSONFormatter{},
	"yaml":            YAMLFormatter{},
}

var formatAliases = map[string]string{
	"verbose": "console-verbose",
	"text":    "console",
	"yml":     "yaml",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil when there is none
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted formats report and writes it to a timestamped file in the
// working directory, returning the file name
func WriteFormatted(f Formatter, report *domain.MortgageReport, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("mortgage_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
