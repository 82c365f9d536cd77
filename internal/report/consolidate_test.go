package report

import (
	"strings"
	"testing"

	"portfolio-reporter/internal/types"
)

func TestConsolidate(t *testing.T) {
	client := types.Client{UserID: "u-1", FirstName: "Ana", LastName: "García"}
	reports := []types.TickerReport{
		{Ticker: "AAPL", Markdown: "# Análisis Financiero de AAPL"},
		{Ticker: "NVDA", Markdown: "# Análisis Financiero de NVDA"},
	}

	doc := Consolidate(client, reports, testNow)

	if !strings.HasPrefix(doc, "# Análisis Financiero Consolidado - Cliente: Ana García\n") {
		t.Errorf("unexpected title: %q", strings.SplitN(doc, "\n", 2)[0])
	}
	if !strings.Contains(doc, "## User ID: u-1\n") {
		t.Error("missing user id line")
	}
	if !strings.Contains(doc, "## Portfolio: AAPL, NVDA\n") {
		t.Error("missing portfolio summary line")
	}
	if !strings.Contains(doc, "## Generado el: 2026-08-28 09:30:00\n") {
		t.Error("missing generation timestamp")
	}

	if got := strings.Count(doc, consolidatedDelimiter); got != 1 {
		t.Errorf("expected exactly 1 delimiter between 2 reports, got %d", got)
	}

	aapl := strings.Index(doc, "de AAPL")
	nvda := strings.Index(doc, "de NVDA")
	if aapl < 0 || nvda < 0 || aapl > nvda {
		t.Error("report blocks out of order")
	}
}

func TestConsolidateSingleReportHasNoDelimiter(t *testing.T) {
	client := types.Client{UserID: "u-2"}
	doc := Consolidate(client, []types.TickerReport{{Ticker: "AAPL", Markdown: "body"}}, testNow)

	if strings.Contains(doc, "<br><hr><br>") {
		t.Error("single report should not contain the block delimiter")
	}
	if !strings.Contains(doc, "Cliente: u-2") {
		t.Error("client without names should fall back to user id")
	}
}
