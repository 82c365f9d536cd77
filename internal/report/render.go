// Package report renders market data bundles into the Spanish markdown
// documents stored per client.
package report

import (
	"fmt"
	"strings"
	"time"

	"portfolio-reporter/internal/types"
)

const generatedAtLayout = "2006-01-02 15:04:05"

// maxLookback caps how many price rows each table shows.
const intradayTableLimit = 100

// Renderer produces the per-ticker analysis document. Sections whose facet
// is missing carry an explicit Spanish absence sentence instead of being
// dropped, so every report has the same skeleton.
type Renderer struct {
	lookbackDays int
}

func NewRenderer(lookbackDays int) *Renderer {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &Renderer{lookbackDays: lookbackDays}
}

// RenderTicker builds the full markdown analysis for one ticker.
func (r *Renderer) RenderTicker(bundle types.MarketDataBundle, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Análisis Financiero de %s\n\n", bundle.Ticker)
	fmt.Fprintf(&b, "Generado el: %s\n\n", now.Format(generatedAtLayout))
	b.WriteString("---\n\n")

	r.writeProfile(&b, bundle)
	r.writeFundamentals(&b, bundle)
	r.writePrices(&b, bundle)
	r.writeNews(&b, bundle)

	b.WriteString("---\n\n")
	b.WriteString("_Análisis generado automáticamente. Los datos pueden variar según la disponibilidad de la API y los límites del plan._\n")
	return b.String()
}

func (r *Renderer) writeProfile(b *strings.Builder, bundle types.MarketDataBundle) {
	b.WriteString("## 1. Perfil y Datos Generales\n")
	p := bundle.Profile
	if p == nil {
		b.WriteString("No se pudo obtener el perfil de la empresa.\n\n")
		return
	}

	fmt.Fprintf(b, "* **Nombre de la Empresa:** %s\n", orNA(p.Name))
	fmt.Fprintf(b, "* **Símbolo:** %s\n", orNA(p.Symbol))
	fmt.Fprintf(b, "* **Sector:** %s\n", orNA(p.Sector))
	fmt.Fprintf(b, "* **Industria:** %s\n", orNA(p.Industry))
	if p.MarketCap > 0 {
		fmt.Fprintf(b, "* **Capitalización de Mercado:** %s\n", FormatMoney(p.MarketCap))
	} else {
		b.WriteString("* **Capitalización de Mercado:** N/A\n")
	}
	fmt.Fprintf(b, "* **Moneda:** %s\n", orNA(p.Currency))
	if p.Price > 0 {
		fmt.Fprintf(b, "* **Último Precio de Cierre:** %s\n", FormatMoney(p.Price))
	} else {
		b.WriteString("* **Último Precio de Cierre:** N/A\n")
	}
	if p.Description != "" {
		fmt.Fprintf(b, "* **Descripción:** %s\n", truncate(p.Description, 500))
	}
	b.WriteString("\n")
}

func (r *Renderer) writeFundamentals(b *strings.Builder, bundle types.MarketDataBundle) {
	b.WriteString("## 2. Datos Fundamentales Clave\n")

	if bundle.Income != nil {
		b.WriteString("### 2.1. Estado de Resultados (Income Statement)\n")
		writeStatementTable(b, bundle.Income)
	} else {
		b.WriteString("No se pudo obtener el Estado de Resultados.\n")
	}

	if bundle.Balance != nil {
		b.WriteString("### 2.2. Balance General (Balance Sheet)\n")
		writeStatementTable(b, bundle.Balance)
	} else {
		b.WriteString("No se pudo obtener el Balance General.\n")
	}

	if bundle.CashFlow != nil {
		b.WriteString("### 2.3. Flujo de Caja (Cash Flow Statement)\n")
		writeStatementTable(b, bundle.CashFlow)
	} else {
		b.WriteString("No se pudo obtener el Flujo de Caja.\n")
	}
	b.WriteString("\n")
}

func (r *Renderer) writePrices(b *strings.Builder, bundle types.MarketDataBundle) {
	b.WriteString("## 3. Datos Históricos de Precios e Indicadores\n")

	if s := bundle.DailyPrimary; s != nil {
		rows := s.Tail(r.lookbackDays)
		fmt.Fprintf(b, "### 3.1. Precios Diarios (%s - Últimos %d datos)\n", s.Source, len(rows))
		writePriceTable(b, rows)
	} else {
		b.WriteString("No se pudieron obtener los precios diarios de la fuente principal.\n")
	}

	if s := bundle.DailySecondary; s != nil {
		rows := s.Tail(r.lookbackDays)
		fmt.Fprintf(b, "### 3.2. Precios Diarios (%s - Últimos %d datos)\n", s.Source, len(rows))
		writePriceTable(b, rows)
	} else {
		b.WriteString("No se pudieron obtener los precios diarios de la fuente secundaria.\n")
	}

	if s := bundle.Intraday; s != nil {
		b.WriteString("### 3.3. Precios Intradía\n")
		b.WriteString("_Intervalo 1h durante los últimos 5 días._\n")
		writePriceTable(b, s.Tail(intradayTableLimit))
	} else {
		b.WriteString("No se pudieron obtener los precios intradía.\n")
	}
	b.WriteString("\n")
}

func (r *Renderer) writeNews(b *strings.Builder, bundle types.MarketDataBundle) {
	b.WriteString("## 4. Noticias Recientes y Eventos\n")
	if len(bundle.News) == 0 {
		fmt.Fprintf(b, "No se encontraron noticias recientes para %s.\n\n", bundle.Ticker)
		return
	}

	b.WriteString("| Fecha | Título | Fuente | Enlace |\n")
	b.WriteString("|---|---|---|---|\n")
	for i, n := range bundle.News {
		if i >= 10 {
			break
		}
		date := "N/A"
		if !n.PublishedAt.IsZero() {
			date = n.PublishedAt.Format("2006-01-02")
		}
		link := "N/A"
		if n.URL != "" {
			link = fmt.Sprintf("[link](%s)", n.URL)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			date, sanitizeCell(n.Title), sanitizeCell(orNA(n.Publisher)), link)
	}
	b.WriteString("\n")
}

func writeStatementTable(b *strings.Builder, st *types.FinancialStatement) {
	b.WriteString("| Fecha |")
	for _, col := range st.Columns {
		fmt.Fprintf(b, " %s |", col)
	}
	b.WriteString("\n|---|")
	for range st.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, row := range st.Rows {
		fmt.Fprintf(b, "| %s |", row.Date)
		for _, col := range st.Columns {
			if v, ok := row.Values[col]; ok {
				fmt.Fprintf(b, " %s |", formatCompact(v))
			} else {
				b.WriteString(" N/A |")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writePriceTable(b *strings.Builder, points []types.PricePoint) {
	b.WriteString("| Fecha | Open | High | Low | Close | Volumen |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, p := range points {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			p.Date.Format("2006-01-02 15:04"),
			FormatNumber(p.Open), FormatNumber(p.High),
			FormatNumber(p.Low), FormatNumber(p.Close),
			formatVolume(p.Volume))
	}
	b.WriteString("\n")
}

// sanitizeCell keeps markdown table rows on one line.
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
