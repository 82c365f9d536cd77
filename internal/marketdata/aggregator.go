// Package marketdata aggregates company facts, price history and news
// from several free providers into one renderable bundle per ticker.
package marketdata

import (
	"context"
	"time"

	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/types"
)

// Provider seams, satisfied by the concrete clients in this package and by
// mocks in tests.
type fundamentalsProvider interface {
	FetchProfile(ctx context.Context, ticker string) (*types.CompanyProfile, error)
	FetchIncomeStatement(ctx context.Context, ticker string) (*types.FinancialStatement, error)
	FetchBalanceSheet(ctx context.Context, ticker string) (*types.FinancialStatement, error)
	FetchCashFlow(ctx context.Context, ticker string) (*types.FinancialStatement, error)
}

type dailyPriceProvider interface {
	FetchDaily(ctx context.Context, ticker string, from, to time.Time) (*types.PriceSeries, error)
}

type intradayPriceProvider interface {
	FetchIntraday(ctx context.Context, ticker string) (*types.PriceSeries, error)
}

type newsProvider interface {
	FetchCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error)
}

type newsScraper interface {
	Fetch(ctx context.Context, ticker string, maxItems int) ([]types.NewsItem, error)
}

// Aggregator fans one ticker out to every configured provider. Each facet
// degrades independently: a failed fetch leaves its slot nil and the rest
// of the bundle intact.
type Aggregator struct {
	fundamentals fundamentalsProvider
	daily        dailyPriceProvider
	dailySecond  dailyPriceProvider
	intraday     intradayPriceProvider
	news         newsProvider
	newsFallback newsScraper

	lookbackDays int
	maxNews      int
	probeTicker  string
}

// Options carries the provider configuration for NewAggregator. Providers
// whose API key is absent are left unset and their facets degrade.
type Options struct {
	FMPAPIKey     string
	FinnhubAPIKey string
	LookbackDays  int
	MaxNews       int
	ProbeTicker   string
}

func NewAggregator(opts Options) *Aggregator {
	yahoo := NewYahooClient()
	agg := &Aggregator{
		daily:        yahoo,
		dailySecond:  NewStooqClient(),
		intraday:     yahoo,
		newsFallback: NewGoogleNewsScraper(),
		lookbackDays: opts.LookbackDays,
		maxNews:      opts.MaxNews,
		probeTicker:  opts.ProbeTicker,
	}
	if agg.lookbackDays <= 0 {
		agg.lookbackDays = 30
	}
	if agg.maxNews <= 0 {
		agg.maxNews = 10
	}
	if agg.probeTicker == "" {
		agg.probeTicker = "AAPL"
	}
	if opts.FMPAPIKey != "" {
		agg.fundamentals = NewFMPClient(opts.FMPAPIKey)
	}
	if opts.FinnhubAPIKey != "" {
		agg.news = NewFinnhubClient(opts.FinnhubAPIKey)
	}
	return agg
}

// Aggregate fetches every facet for the ticker. It never fails as a whole.
func (a *Aggregator) Aggregate(ctx context.Context, ticker string) types.MarketDataBundle {
	timer := logger.StartOperation(ctx, "marketdata.aggregate", "ticker", ticker)

	bundle := types.MarketDataBundle{Ticker: ticker}
	to := time.Now()
	from := to.AddDate(0, 0, -a.lookbackDays)

	if a.fundamentals != nil {
		if profile, err := a.fundamentals.FetchProfile(ctx, ticker); err != nil {
			logger.Degraded(ctx, ticker, "profile", "FMP", err)
		} else {
			bundle.Profile = profile
		}
		if income, err := a.fundamentals.FetchIncomeStatement(ctx, ticker); err != nil {
			logger.Degraded(ctx, ticker, "income_statement", "FMP", err)
		} else {
			bundle.Income = income
		}
		if balance, err := a.fundamentals.FetchBalanceSheet(ctx, ticker); err != nil {
			logger.Degraded(ctx, ticker, "balance_sheet", "FMP", err)
		} else {
			bundle.Balance = balance
		}
		if cashFlow, err := a.fundamentals.FetchCashFlow(ctx, ticker); err != nil {
			logger.Degraded(ctx, ticker, "cash_flow", "FMP", err)
		} else {
			bundle.CashFlow = cashFlow
		}
	}

	if daily, err := a.daily.FetchDaily(ctx, ticker, from, to); err != nil {
		logger.Degraded(ctx, ticker, "daily_prices", "Yahoo Finance", err)
	} else {
		bundle.DailyPrimary = daily
	}

	if daily, err := a.dailySecond.FetchDaily(ctx, ticker, from, to); err != nil {
		logger.Degraded(ctx, ticker, "daily_prices_secondary", "Stooq", err)
	} else {
		bundle.DailySecondary = daily
	}

	if intraday, err := a.intraday.FetchIntraday(ctx, ticker); err != nil {
		logger.Degraded(ctx, ticker, "intraday_prices", "Yahoo Finance", err)
	} else {
		bundle.Intraday = intraday
	}

	bundle.News = a.fetchNews(ctx, ticker, from, to)

	timer.End("facets", bundle.FacetCount())
	return bundle
}

// fetchNews tries the news API first and falls back to the RSS scraper.
func (a *Aggregator) fetchNews(ctx context.Context, ticker string, from, to time.Time) []types.NewsItem {
	if a.news != nil {
		items, err := a.news.FetchCompanyNews(ctx, ticker, from, to)
		if err == nil {
			if len(items) > a.maxNews {
				items = items[:a.maxNews]
			}
			return items
		}
		logger.Degraded(ctx, ticker, "news", "Finnhub", err)
	}

	if a.newsFallback == nil {
		return nil
	}
	items, err := a.newsFallback.Fetch(ctx, ticker, a.maxNews)
	if err != nil {
		logger.Degraded(ctx, ticker, "news", "Google News", err)
		return nil
	}
	logger.Info(ctx, "News served from fallback scraper", "ticker", ticker, "items", len(items))
	return items
}

// Verify probes each configured provider with a known-good symbol and
// returns the failures keyed by source name.
func (a *Aggregator) Verify(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	if a.fundamentals != nil {
		if _, err := a.fundamentals.FetchProfile(ctx, a.probeTicker); err != nil {
			failures["FMP"] = err
		}
	}
	if _, err := a.daily.FetchDaily(ctx, a.probeTicker, from, to); err != nil {
		failures["Yahoo Finance"] = err
	}
	if _, err := a.dailySecond.FetchDaily(ctx, a.probeTicker, from, to); err != nil {
		failures["Stooq"] = err
	}
	if a.news != nil {
		if _, err := a.news.FetchCompanyNews(ctx, a.probeTicker, from, to); err != nil {
			failures["Finnhub"] = err
		}
	}
	return failures
}
