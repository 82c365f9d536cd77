package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portfolio-reporter/internal/types"
)

// StooqClient fetches daily price history as CSV from stooq.com. It acts
// as the second daily source so the report can cross-check Yahoo data.
type StooqClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rateLimiter
}

func NewStooqClient() *StooqClient {
	return &StooqClient{
		baseURL: "https://stooq.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: newRateLimiter(3, time.Second),
	}
}

// stooqSymbol maps a canonical ticker to stooq's naming. Plain US equities
// carry a .us suffix; indexes and crypto pairs keep their form.
func stooqSymbol(ticker string) string {
	sym := strings.ToLower(ticker)
	if strings.HasPrefix(sym, "^") || strings.Contains(sym, "-") || strings.Contains(sym, ".") {
		return sym
	}
	return sym + ".us"
}

// FetchDaily returns daily candles between from and to, oldest first.
func (c *StooqClient) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (*types.PriceSeries, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("s", stooqSymbol(ticker))
	params.Set("d1", from.Format("20060102"))
	params.Set("d2", to.Format("20060102"))
	params.Set("i", "d")
	reqURL := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq request for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq request for %s: status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stooq response: %w", err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(body)), "No data") {
		return nil, ErrNoData
	}

	return parseStooqCSV(body)
}

// parseStooqCSV decodes the Date,Open,High,Low,Close,Volume layout. Rows
// with unparseable numbers are skipped.
func parseStooqCSV(data []byte) (*types.PriceSeries, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse stooq csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoData
	}

	series := &types.PriceSeries{Source: "Stooq", Interval: "1d"}
	for _, rec := range records[1:] {
		if len(rec) < 5 {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		closePx, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		p := types.PricePoint{Date: date, Open: open, High: high, Low: low, Close: closePx}
		if len(rec) > 5 {
			if vol, err := strconv.ParseFloat(rec[5], 64); err == nil {
				p.Volume = int64(vol)
			}
		}
		series.Points = append(series.Points, p)
	}

	if len(series.Points) == 0 {
		return nil, ErrNoData
	}
	return series, nil
}
