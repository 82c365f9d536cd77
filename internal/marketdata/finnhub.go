package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"portfolio-reporter/internal/types"
)

// FinnhubClient fetches recent company news from the Finnhub API.
type FinnhubClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rateLimiter
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	return &FinnhubClient{
		baseURL: "https://finnhub.io/api/v1",
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Free tier allows 60 calls/minute.
		limiter: newRateLimiter(10, time.Second),
	}
}

type finnhubNewsItem struct {
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// FetchCompanyNews returns news published in [from, to], newest first.
func (c *FinnhubClient) FetchCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("token", c.apiKey)
	reqURL := fmt.Sprintf("%s/company-news?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news request for %s: status %d", ticker, resp.StatusCode)
	}

	var raw []finnhubNewsItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode news for %s: %w", ticker, err)
	}
	if len(raw) == 0 {
		return nil, ErrNoData
	}

	items := make([]types.NewsItem, 0, len(raw))
	for _, n := range raw {
		if n.Headline == "" {
			continue
		}
		items = append(items, types.NewsItem{
			PublishedAt: time.Unix(n.Datetime, 0).UTC(),
			Title:       n.Headline,
			Publisher:   n.Source,
			URL:         n.URL,
		})
	}
	if len(items) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items, nil
}
