package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"portfolio-reporter/internal/types"
)

// YahooClient fetches daily and intraday price history from the public
// Yahoo Finance chart endpoint.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	limiter    *rateLimiter
}

func NewYahooClient() *YahooClient {
	return &YahooClient{
		baseURL: "https://query1.finance.yahoo.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// The chart endpoint rejects requests without a browser user agent.
		headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			"Accept":     "application/json",
		},
		limiter: newRateLimiter(5, 300*time.Millisecond),
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily returns daily candles between from and to, oldest first.
func (c *YahooClient) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (*types.PriceSeries, error) {
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))
	params.Set("interval", "1d")
	return c.fetchChart(ctx, ticker, params, "1d")
}

// FetchIntraday returns hourly candles for the last five sessions.
func (c *YahooClient) FetchIntraday(ctx context.Context, ticker string) (*types.PriceSeries, error) {
	params := url.Values{}
	params.Set("range", "5d")
	params.Set("interval", "1h")
	return c.fetchChart(ctx, ticker, params, "1h")
}

func (c *YahooClient) fetchChart(ctx context.Context, ticker string, params url.Values, interval string) (*types.PriceSeries, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		c.baseURL, url.PathEscape(ticker), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s: status %d", ticker, resp.StatusCode)
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode chart for %s: %w", ticker, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := &types.PriceSeries{Source: "Yahoo Finance", Interval: interval}
	for i, ts := range result.Timestamp {
		// The chart API pads sessions with nulls; skip incomplete candles.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		p := types.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			p.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			p.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			p.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			p.Volume = *quote.Volume[i]
		}
		series.Points = append(series.Points, p)
	}

	if len(series.Points) == 0 {
		return nil, ErrNoData
	}
	return series, nil
}
