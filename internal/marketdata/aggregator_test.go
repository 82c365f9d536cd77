package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-reporter/internal/types"
)

type mockFundamentals struct {
	profile *types.CompanyProfile
	income  *types.FinancialStatement
	err     error
}

func (m *mockFundamentals) FetchProfile(_ context.Context, _ string) (*types.CompanyProfile, error) {
	return m.profile, m.err
}
func (m *mockFundamentals) FetchIncomeStatement(_ context.Context, _ string) (*types.FinancialStatement, error) {
	if m.income == nil && m.err == nil {
		return nil, ErrNoData
	}
	return m.income, m.err
}
func (m *mockFundamentals) FetchBalanceSheet(_ context.Context, _ string) (*types.FinancialStatement, error) {
	return nil, ErrNoData
}
func (m *mockFundamentals) FetchCashFlow(_ context.Context, _ string) (*types.FinancialStatement, error) {
	return nil, ErrNoData
}

type mockDaily struct {
	series *types.PriceSeries
	err    error
	calls  int
}

func (m *mockDaily) FetchDaily(_ context.Context, _ string, _, _ time.Time) (*types.PriceSeries, error) {
	m.calls++
	return m.series, m.err
}

type mockIntraday struct {
	series *types.PriceSeries
	err    error
}

func (m *mockIntraday) FetchIntraday(_ context.Context, _ string) (*types.PriceSeries, error) {
	return m.series, m.err
}

type mockNews struct {
	items []types.NewsItem
	err   error
}

func (m *mockNews) FetchCompanyNews(_ context.Context, _ string, _, _ time.Time) ([]types.NewsItem, error) {
	return m.items, m.err
}

type mockScraper struct {
	items []types.NewsItem
	err   error
	calls int
}

func (m *mockScraper) Fetch(_ context.Context, _ string, _ int) ([]types.NewsItem, error) {
	m.calls++
	return m.items, m.err
}

func sampleSeries(source string) *types.PriceSeries {
	return &types.PriceSeries{
		Source:   source,
		Interval: "1d",
		Points: []types.PricePoint{
			{Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Close: 101.5},
		},
	}
}

func TestAggregateAllFacetsAvailable(t *testing.T) {
	agg := &Aggregator{
		fundamentals: &mockFundamentals{
			profile: &types.CompanyProfile{Symbol: "AAPL", Name: "Apple Inc."},
			income:  &types.FinancialStatement{Columns: []string{"Total Revenue"}},
		},
		daily:        &mockDaily{series: sampleSeries("Yahoo Finance")},
		dailySecond:  &mockDaily{series: sampleSeries("Stooq")},
		intraday:     &mockIntraday{series: sampleSeries("Yahoo Finance")},
		news:         &mockNews{items: []types.NewsItem{{Title: "Apple beats estimates"}}},
		lookbackDays: 30,
		maxNews:      10,
	}

	bundle := agg.Aggregate(context.Background(), "AAPL")

	if bundle.Profile == nil || bundle.Profile.Name != "Apple Inc." {
		t.Error("expected profile facet")
	}
	if bundle.Income == nil {
		t.Error("expected income statement facet")
	}
	if bundle.DailyPrimary == nil || bundle.DailySecondary == nil {
		t.Error("expected both daily series")
	}
	if len(bundle.News) != 1 {
		t.Errorf("expected 1 news item, got %d", len(bundle.News))
	}
}

func TestAggregateDegradesPerFacet(t *testing.T) {
	agg := &Aggregator{
		fundamentals: &mockFundamentals{err: errors.New("rate limited")},
		daily:        &mockDaily{err: errors.New("http 500")},
		dailySecond:  &mockDaily{series: sampleSeries("Stooq")},
		intraday:     &mockIntraday{err: ErrNoData},
		lookbackDays: 30,
		maxNews:      10,
	}

	bundle := agg.Aggregate(context.Background(), "ZZZZ")

	if bundle.Profile != nil || bundle.DailyPrimary != nil || bundle.Intraday != nil {
		t.Error("failed facets should be nil")
	}
	if bundle.DailySecondary == nil {
		t.Error("surviving facet should still be present")
	}
	if bundle.Ticker != "ZZZZ" {
		t.Errorf("bundle ticker = %q", bundle.Ticker)
	}
}

func TestAggregateWithoutConfiguredProviders(t *testing.T) {
	agg := &Aggregator{
		daily:        &mockDaily{series: sampleSeries("Yahoo Finance")},
		dailySecond:  &mockDaily{err: ErrNoData},
		intraday:     &mockIntraday{err: ErrNoData},
		lookbackDays: 30,
		maxNews:      10,
	}

	bundle := agg.Aggregate(context.Background(), "AAPL")
	if bundle.Profile != nil {
		t.Error("profile should be nil when fundamentals provider is absent")
	}
	if bundle.DailyPrimary == nil {
		t.Error("daily series should survive")
	}
}

func TestFetchNewsFallsBackToScraper(t *testing.T) {
	scraper := &mockScraper{items: []types.NewsItem{{Title: "fallback headline"}}}
	agg := &Aggregator{
		news:         &mockNews{err: errors.New("api down")},
		newsFallback: scraper,
		lookbackDays: 30,
		maxNews:      10,
	}

	items := agg.fetchNews(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	if scraper.calls != 1 {
		t.Errorf("expected 1 scraper call, got %d", scraper.calls)
	}
	if len(items) != 1 || items[0].Title != "fallback headline" {
		t.Errorf("unexpected fallback items %v", items)
	}
}

func TestFetchNewsTruncatesToMax(t *testing.T) {
	many := make([]types.NewsItem, 25)
	agg := &Aggregator{
		news:    &mockNews{items: many},
		maxNews: 10,
	}

	items := agg.fetchNews(context.Background(), "AAPL", time.Now(), time.Now())
	if len(items) != 10 {
		t.Errorf("expected 10 items after truncation, got %d", len(items))
	}
}

func TestVerifyReportsFailuresPerSource(t *testing.T) {
	agg := &Aggregator{
		fundamentals: &mockFundamentals{err: errors.New("bad key")},
		daily:        &mockDaily{series: sampleSeries("Yahoo Finance")},
		dailySecond:  &mockDaily{err: errors.New("timeout")},
		probeTicker:  "AAPL",
	}

	failures := agg.Verify(context.Background())
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d: %v", len(failures), failures)
	}
	if _, ok := failures["FMP"]; !ok {
		t.Error("expected FMP failure")
	}
	if _, ok := failures["Stooq"]; !ok {
		t.Error("expected Stooq failure")
	}
}

func TestNewAggregatorDefaults(t *testing.T) {
	agg := NewAggregator(Options{})
	if agg.lookbackDays != 30 || agg.maxNews != 10 || agg.probeTicker != "AAPL" {
		t.Errorf("unexpected defaults: %d %d %q", agg.lookbackDays, agg.maxNews, agg.probeTicker)
	}
	if agg.fundamentals != nil {
		t.Error("fundamentals should be nil without an API key")
	}
	if agg.news != nil {
		t.Error("news provider should be nil without an API key")
	}
}
