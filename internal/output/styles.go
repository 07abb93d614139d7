package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorMuted   = lipgloss.Color("#767676")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorDanger  = lipgloss.Color("#FF5F87")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorPrimary)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	NegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)
)

// printer groups thousands for every amount shown on the console
var printer = message.NewPrinter(language.English)

// FormatCurrency formats a decimal as an amount with grouped thousands
func FormatCurrency(amount decimal.Decimal) string {
	return printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// FormatWhole formats a decimal rounded to whole units
func FormatWhole(amount decimal.Decimal) string {
	return printer.Sprintf("%d", amount.RoundBank(0).IntPart())
}

// FormatPercentage formats a fraction as a percentage
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
