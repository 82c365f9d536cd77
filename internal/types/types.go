package types

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup (client, video, record) has no result.
var ErrNotFound = errors.New("not found")

// Holding is a single asset position inside a portfolio.
type Holding struct {
	AssetID          int64
	PortfolioID      int64
	Ticker           string
	Quantity         *float64
	AcquisitionPrice *float64
	AcquisitionDate  *time.Time
}

type Portfolio struct {
	ID          int64
	UserID      string
	Name        string
	Description string
	Holdings    []Holding
}

type Client struct {
	UserID     string
	FirstName  string
	LastName   string
	Email      string
	Portfolios []Portfolio
}

func (c Client) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	}
	return c.UserID
}

// UniqueTickers returns the raw ticker symbols across all portfolios,
// deduplicated, preserving first-seen order.
func (c Client) UniqueTickers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.Portfolios {
		for _, h := range p.Holdings {
			if h.Ticker == "" {
				continue
			}
			if _, ok := seen[h.Ticker]; ok {
				continue
			}
			seen[h.Ticker] = struct{}{}
			out = append(out, h.Ticker)
		}
	}
	return out
}

func (c Client) HoldingCount() int {
	n := 0
	for _, p := range c.Portfolios {
		n += len(p.Holdings)
	}
	return n
}

// CompanyProfile carries identity and valuation facts about a listed company.
type CompanyProfile struct {
	Symbol      string
	Name        string
	Exchange    string
	Sector      string
	Industry    string
	Currency    string
	Country     string
	Website     string
	Description string
	Price       float64
	MarketCap   float64
	Beta        float64
}

// StatementRow holds the metric values of one fiscal period. Metrics absent
// from the provider payload have no entry in Values.
type StatementRow struct {
	Date   string
	Values map[string]float64
}

// FinancialStatement is a metric table across fiscal periods, oldest first.
type FinancialStatement struct {
	Columns []string
	Rows    []StatementRow
}

type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries is an ordered run of price points from one source, oldest first.
type PriceSeries struct {
	Source   string
	Interval string
	Points   []PricePoint
}

// Tail returns the newest n points, or all points when fewer exist.
func (s *PriceSeries) Tail(n int) []PricePoint {
	if s == nil || n <= 0 {
		return nil
	}
	if len(s.Points) <= n {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

type NewsItem struct {
	PublishedAt time.Time
	Title       string
	Publisher   string
	URL         string
}

// MarketDataBundle aggregates every facet fetched for one ticker. A nil
// facet means no provider could supply it; the bundle is still renderable.
type MarketDataBundle struct {
	Ticker         string
	Profile        *CompanyProfile
	Income         *FinancialStatement
	Balance        *FinancialStatement
	CashFlow       *FinancialStatement
	DailyPrimary   *PriceSeries
	DailySecondary *PriceSeries
	Intraday       *PriceSeries
	News           []NewsItem
}

// FacetCount returns how many facets of the bundle carry data.
func (b MarketDataBundle) FacetCount() int {
	n := 0
	if b.Profile != nil {
		n++
	}
	for _, st := range []*FinancialStatement{b.Income, b.Balance, b.CashFlow} {
		if st != nil {
			n++
		}
	}
	for _, ps := range []*PriceSeries{b.DailyPrimary, b.DailySecondary, b.Intraday} {
		if ps != nil {
			n++
		}
	}
	if len(b.News) > 0 {
		n++
	}
	return n
}

// VideoResult identifies a located channel video. TitleMatched reports
// whether the title contained the search query after normalization, or the
// result is only the most recent upload.
type VideoResult struct {
	VideoID      string
	URL          string
	Title        string
	Query        string
	TitleMatched bool
}

// TickerReport is one rendered per-ticker markdown document.
type TickerReport struct {
	Ticker   string
	FileName string
	Markdown string
}

// ClientStats summarizes the outcome of processing a single client.
type ClientStats struct {
	ClientID         string
	ClientName       string
	Portfolios       int
	Holdings         int
	UniqueTickers    int
	ReportsGenerated int
	Errors           int
	FailedTickers    []string
}

// RunStats summarizes a full pipeline run.
type RunStats struct {
	StartedAt        time.Time
	FinishedAt       time.Time
	ClientsProcessed int
	ClientsSkipped   int
	ReportsGenerated int
	Errors           int
	PerClient        []ClientStats
}

func (r RunStats) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
