package report

import (
	"fmt"
	"strings"
	"time"

	"portfolio-reporter/internal/types"
)

// consolidatedDelimiter separates per-ticker blocks in the consolidated
// document. Downstream viewers rely on this exact sequence.
const consolidatedDelimiter = "\n\n<br><hr><br>\n\n"

// Consolidate joins every per-ticker report into one titled document.
func Consolidate(client types.Client, reports []types.TickerReport, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Análisis Financiero Consolidado - Cliente: %s\n", client.FullName())
	fmt.Fprintf(&b, "## User ID: %s\n", client.UserID)

	tickers := make([]string, 0, len(reports))
	for _, rep := range reports {
		tickers = append(tickers, rep.Ticker)
	}
	fmt.Fprintf(&b, "## Portfolio: %s\n", strings.Join(tickers, ", "))
	fmt.Fprintf(&b, "## Generado el: %s\n\n", now.Format(generatedAtLayout))

	blocks := make([]string, 0, len(reports))
	for _, rep := range reports {
		blocks = append(blocks, rep.Markdown)
	}
	b.WriteString(strings.Join(blocks, consolidatedDelimiter))
	return b.String()
}
