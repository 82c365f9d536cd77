package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders a currency amount with thousands separators, matching
// the $1,234.56 style the consolidated reports have always used.
func FormatMoney(v float64) string {
	return printer.Sprintf("$%v", number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatNumber renders a plain numeric cell.
func FormatNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// formatCompact renders large magnitudes (revenue, market cap) without
// decimals so statement tables stay readable.
func formatCompact(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%v", number.Decimal(int64(v)))
	}
	return FormatNumber(v)
}

func formatVolume(v int64) string {
	return printer.Sprintf("%v", number.Decimal(v))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return fmt.Sprintf("%s...", string(runes[:max]))
}
