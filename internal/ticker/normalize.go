package ticker

import (
	"context"
	"regexp"
	"strings"

	"portfolio-reporter/internal/logger"
)

// specificOverrides maps symbols stored under foreign listings or index
// aliases to the canonical US symbol.
var specificOverrides = map[string]string{
	"NVD.F":   "NVDA",
	"NVDA.F":  "NVDA",
	"GOOGL.F": "GOOGL",
	"GOOG.F":  "GOOGL",
	"AAPL.F":  "AAPL",
	"MSFT.F":  "MSFT",
	"AMZN.F":  "AMZN",
	"TSLA.F":  "TSLA",
	"META.F":  "META",
	"NFLX.F":  "NFLX",
	"^SPX":    "^GSPC",
}

// cryptoBases are pairs quoted as BASEUSD that canonicalize to BASE-USD.
var cryptoBases = map[string]bool{
	"BTC": true, "ETH": true, "ADA": true, "SOL": true,
	"DOT": true, "DOGE": true, "MATIC": true, "XRP": true,
	"LINK": true, "LTC": true, "UNI": true, "XLM": true,
}

var commodityOverrides = map[string]string{
	"PAXGUSD":   "PAXG-USD",
	"GOLDUSD":   "GOLD-USD",
	"SILVERUSD": "SILVER-USD",
	"XAUUSD":    "GLD",
	"XAGUSD":    "SLV",
}

// marketSuffixes are exchange listing suffixes stripped when no override
// matched. The remainder is assumed to trade under the bare US symbol.
var marketSuffixes = []string{
	".F", ".DE", ".L", ".PA", ".AS", ".MI",
	".MC", ".SW", ".TO", ".AX", ".HK", ".T",
}

// Normalize converts a portfolio symbol to its canonical market-data form.
// It is total: unknown symbols pass through trimmed and upper-cased.
func Normalize(ctx context.Context, raw string) string {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return sym
	}

	if canonical, ok := specificOverrides[sym]; ok {
		logger.Debug(ctx, "Ticker normalized via override", "raw", raw, "canonical", canonical)
		return canonical
	}

	if base, ok := strings.CutSuffix(sym, "USD"); ok && cryptoBases[base] {
		canonical := base + "-USD"
		logger.Debug(ctx, "Ticker normalized as crypto pair", "raw", raw, "canonical", canonical)
		return canonical
	}

	if canonical, ok := commodityOverrides[sym]; ok {
		logger.Debug(ctx, "Ticker normalized as commodity", "raw", raw, "canonical", canonical)
		return canonical
	}

	for _, suffix := range marketSuffixes {
		if base, ok := strings.CutSuffix(sym, suffix); ok && base != "" {
			logger.Debug(ctx, "Ticker market suffix stripped", "raw", raw, "canonical", base)
			return base
		}
	}

	return sym
}

var (
	invalidFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	dashRuns         = regexp.MustCompile(`-+`)
)

// SanitizeFilename makes a symbol safe for use inside an object path.
func SanitizeFilename(name string) string {
	s := invalidFileChars.ReplaceAllString(name, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "reporte"
	}
	return s
}
