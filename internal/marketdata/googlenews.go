package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"portfolio-reporter/internal/types"
)

// GoogleNewsScraper collects headlines from the Google News RSS feed. It
// backs up Finnhub when the API has no coverage for a symbol.
type GoogleNewsScraper struct {
	timeout time.Duration
}

func NewGoogleNewsScraper() *GoogleNewsScraper {
	return &GoogleNewsScraper{timeout: 20 * time.Second}
}

// Fetch returns up to maxItems recent headlines mentioning the ticker.
func (s *GoogleNewsScraper) Fetch(ctx context.Context, ticker string, maxItems int) ([]types.NewsItem, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	items := []types.NewsItem{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnXML("//item", func(e *colly.XMLElement) {
		if len(items) >= maxItems {
			return
		}

		title := e.ChildText("title")
		link := e.ChildText("link")
		if title == "" || link == "" {
			return
		}

		item := types.NewsItem{
			Title:     title,
			URL:       link,
			Publisher: e.ChildText("source"),
		}
		if item.Publisher == "" {
			item.Publisher = "Google News"
		}
		if pub, err := time.Parse(time.RFC1123, e.ChildText("pubDate")); err == nil {
			item.PublishedAt = pub.UTC()
		}
		items = append(items, item)
	})

	searchQuery := url.QueryEscape(ticker + " stock")
	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", searchQuery)

	if err := c.Visit(feedURL); err != nil {
		return nil, fmt.Errorf("google news feed for %s: %w", ticker, err)
	}
	c.Wait()

	if len(items) == 0 {
		return nil, ErrNoData
	}
	return items, nil
}
