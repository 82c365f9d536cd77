package report

import (
	tickerpkg "portfolio-reporter/internal/ticker"
)

// Downstream consumers key on these names; they must never change.
const (
	ConsolidatedFileName   = "informe_consolidado.md"
	PremarketVideoFileName = "informe_video_premercado.md"
	MarketVisionFileName   = "vision de mercado.md"

	MarkdownContentType = "text/markdown; charset=utf-8"
)

// TickerReportFileName derives the per-ticker report name from the
// canonical symbol.
func TickerReportFileName(symbol string) string {
	return tickerpkg.SanitizeFilename(symbol) + "_analisis_financiero.md"
}
