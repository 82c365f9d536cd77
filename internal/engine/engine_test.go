package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"portfolio-reporter/internal/store"
	"portfolio-reporter/internal/types"
)

type mockDirectory struct {
	clients []types.Client
	err     error
}

func (m *mockDirectory) ListActiveClients(_ context.Context) ([]types.Client, error) {
	return m.clients, m.err
}

func (m *mockDirectory) GetClient(_ context.Context, userID string) (*types.Client, error) {
	for _, c := range m.clients {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, types.ErrNotFound
}

type mockMarketData struct {
	panicTickers map[string]bool
	verify       map[string]error
}

func (m *mockMarketData) Aggregate(_ context.Context, ticker string) types.MarketDataBundle {
	if m.panicTickers[ticker] {
		panic("provider blew up")
	}
	return types.MarketDataBundle{
		Ticker:  ticker,
		Profile: &types.CompanyProfile{Symbol: ticker, Name: ticker + " Corp"},
	}
}

func (m *mockMarketData) Verify(_ context.Context) map[string]error {
	return m.verify
}

type mockReportStore struct {
	uploads     map[string]string
	failPaths   map[string]bool
	folderCalls []string
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{uploads: make(map[string]string), failPaths: make(map[string]bool)}
}

func (m *mockReportStore) Upload(_ context.Context, path, content, _ string) error {
	if m.failPaths[path] {
		return errors.New("storage rejected upload")
	}
	m.uploads[path] = content
	return nil
}

func (m *mockReportStore) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.uploads[path]
	return ok, nil
}

func (m *mockReportStore) EnsureClientFolder(_ context.Context, clientID string) error {
	m.folderCalls = append(m.folderCalls, clientID)
	return nil
}

type mockLocator struct {
	result *types.VideoResult
	err    error
}

func (m *mockLocator) Find(_ context.Context, _, _ string) (*types.VideoResult, error) {
	return m.result, m.err
}

func (m *mockLocator) FindWithFallback(_ context.Context, _ string, _ []string) (*types.VideoResult, error) {
	return m.result, m.err
}

func (m *mockLocator) Verify(_ context.Context, _ string) error { return nil }

type mockAnalyzer struct {
	text string
	err  error
}

func (m *mockAnalyzer) Analyze(_ context.Context, _, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text + " (" + prompt[:10] + ")", nil
}

func (m *mockAnalyzer) Verify(_ context.Context) error { return nil }

type recordingWaiter struct {
	waits []time.Duration
}

func (w *recordingWaiter) Wait(_ context.Context, d time.Duration) {
	w.waits = append(w.waits, d)
}

func testConfig() *store.Config {
	var cfg store.Config
	cfg.Video.ChannelID = "UCtest"
	cfg.Video.Query = "PRE MERCADO |"
	cfg.Market.LookbackDays = 30
	cfg.Storage.BasePrefix = "Informes"
	cfg.Delays.TickerSeconds = 15
	cfg.Delays.ClientSeconds = 30
	return &cfg
}

func twoClients() []types.Client {
	return []types.Client{
		{
			UserID: "client-a", FirstName: "Ana",
			Portfolios: []types.Portfolio{{ID: 1, Holdings: []types.Holding{
				{Ticker: "NVDA"}, {Ticker: "AAPL"},
			}}},
		},
		{
			UserID: "client-b", FirstName: "Bruno",
			Portfolios: []types.Portfolio{{ID: 2, Holdings: []types.Holding{
				{Ticker: "MSFT"},
			}}},
		},
	}
}

func newTestEngine(dir *mockDirectory, md *mockMarketData, rs *mockReportStore,
	waiter *recordingWaiter, opts Options) *Engine {
	e := New(testConfig(), dir, md, rs,
		&mockLocator{err: types.ErrNotFound},
		&mockAnalyzer{text: "analysis"}, waiter, opts)
	e.now = func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) }
	return e
}

func TestRunProcessesAllClients(t *testing.T) {
	rs := newMockReportStore()
	waiter := &recordingWaiter{}
	e := newTestEngine(&mockDirectory{clients: twoClients()}, &mockMarketData{}, rs,
		waiter, Options{SkipVideo: true})

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.ClientsProcessed != 2 {
		t.Errorf("expected 2 clients processed, got %d", stats.ClientsProcessed)
	}
	// 2 ticker reports + consolidated for A, 1 + consolidated for B.
	if stats.ReportsGenerated != 5 {
		t.Errorf("expected 5 reports, got %d", stats.ReportsGenerated)
	}
	if _, ok := rs.uploads["client-a/NVDA_analisis_financiero.md"]; !ok {
		t.Error("missing NVDA report for client-a")
	}
	if _, ok := rs.uploads["client-a/informe_consolidado.md"]; !ok {
		t.Error("missing consolidated report for client-a")
	}
	if _, ok := rs.uploads["client-b/informe_consolidado.md"]; !ok {
		t.Error("missing consolidated report for client-b")
	}
	if len(rs.folderCalls) != 2 {
		t.Errorf("expected folder ensured per client, got %v", rs.folderCalls)
	}
}

func TestRunAppliesDelays(t *testing.T) {
	waiter := &recordingWaiter{}
	e := newTestEngine(&mockDirectory{clients: twoClients()}, &mockMarketData{},
		newMockReportStore(), waiter, Options{SkipVideo: true})

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// One 15s pause between client-a's two tickers, one 30s pause between clients.
	var ticker, client int
	for _, d := range waiter.waits {
		switch d {
		case 15 * time.Second:
			ticker++
		case 30 * time.Second:
			client++
		default:
			t.Errorf("unexpected wait %v", d)
		}
	}
	if ticker != 1 || client != 1 {
		t.Errorf("expected 1 ticker and 1 client pause, got %d/%d", ticker, client)
	}
}

func TestRunNormalizesAndDeduplicatesTickers(t *testing.T) {
	rs := newMockReportStore()
	clients := []types.Client{{
		UserID: "client-a",
		Portfolios: []types.Portfolio{
			{ID: 1, Holdings: []types.Holding{{Ticker: "NVD.F"}, {Ticker: "BTCUSD"}}},
			{ID: 2, Holdings: []types.Holding{{Ticker: "NVD.F"}}},
		},
	}}
	e := newTestEngine(&mockDirectory{clients: clients}, &mockMarketData{}, rs,
		&recordingWaiter{}, Options{SkipVideo: true})

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := rs.uploads["client-a/NVDA_analisis_financiero.md"]; !ok {
		t.Error("NVD.F should be reported under its canonical NVDA name")
	}
	if _, ok := rs.uploads["client-a/BTC-USD_analisis_financiero.md"]; !ok {
		t.Error("BTCUSD should be reported as BTC-USD")
	}
	// Duplicate holding must not produce a third ticker report.
	if stats.ReportsGenerated != 3 {
		t.Errorf("expected 2 ticker reports + consolidated, got %d", stats.ReportsGenerated)
	}
}

func TestRunIsolatesFailingTicker(t *testing.T) {
	rs := newMockReportStore()
	rs.failPaths["client-a/NVDA_analisis_financiero.md"] = true
	e := newTestEngine(&mockDirectory{clients: twoClients()}, &mockMarketData{}, rs,
		&recordingWaiter{}, Options{SkipVideo: true})

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Errors != 1 {
		t.Errorf("expected 1 error, got %d", stats.Errors)
	}
	if _, ok := rs.uploads["client-a/AAPL_analisis_financiero.md"]; !ok {
		t.Error("AAPL should still be processed after NVDA failed")
	}
	cs := stats.PerClient[0]
	if len(cs.FailedTickers) != 1 || cs.FailedTickers[0] != "NVDA" {
		t.Errorf("unexpected failed tickers %v", cs.FailedTickers)
	}
	// Consolidated report for client-a only contains the surviving ticker.
	doc := rs.uploads["client-a/informe_consolidado.md"]
	if strings.Contains(doc, "de NVDA") {
		t.Error("failed ticker must not appear in the consolidated document")
	}
}

func TestRunRecoversFromProviderPanic(t *testing.T) {
	rs := newMockReportStore()
	md := &mockMarketData{panicTickers: map[string]bool{"NVDA": true}}
	e := newTestEngine(&mockDirectory{clients: twoClients()}, md, rs,
		&recordingWaiter{}, Options{SkipVideo: true})

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Errors != 1 {
		t.Errorf("expected panicking ticker counted as error, got %d", stats.Errors)
	}
	if _, ok := rs.uploads["client-b/MSFT_analisis_financiero.md"]; !ok {
		t.Error("later clients should be unaffected by a panic")
	}
}

func TestRunSkipsClientWithoutHoldings(t *testing.T) {
	clients := []types.Client{{UserID: "empty-client"}}
	e := newTestEngine(&mockDirectory{clients: clients}, &mockMarketData{},
		newMockReportStore(), &recordingWaiter{}, Options{SkipVideo: true})

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.ClientsSkipped != 1 || stats.ClientsProcessed != 0 {
		t.Errorf("expected client skipped, got %+v", stats)
	}
}

func TestRunTargetClient(t *testing.T) {
	rs := newMockReportStore()
	e := newTestEngine(&mockDirectory{clients: twoClients()}, &mockMarketData{}, rs,
		&recordingWaiter{}, Options{SkipVideo: true, TargetClientID: "client-b"})

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.ClientsProcessed != 1 {
		t.Errorf("expected only the target client, got %d", stats.ClientsProcessed)
	}
	if _, ok := rs.uploads["client-a/informe_consolidado.md"]; ok {
		t.Error("client-a should not be processed in targeted mode")
	}
}

func TestRunTargetClientNotFound(t *testing.T) {
	e := newTestEngine(&mockDirectory{}, &mockMarketData{}, newMockReportStore(),
		&recordingWaiter{}, Options{SkipVideo: true, TargetClientID: "ghost"})

	if _, err := e.Run(context.Background()); err == nil {
		t.Fatal("expected error for unknown target client")
	}
}

func TestVideoStageStoresPremarketReport(t *testing.T) {
	rs := newMockReportStore()
	e := New(testConfig(), &mockDirectory{}, &mockMarketData{}, rs,
		&mockLocator{result: &types.VideoResult{
			VideoID: "v1", URL: "https://www.youtube.com/watch?v=v1",
			Title: "PRE MERCADO | hoy", TitleMatched: true,
		}},
		&mockAnalyzer{text: "analysis"}, &recordingWaiter{}, Options{})
	e.now = func() time.Time { return time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC) }

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := rs.uploads["Informes/informe_video_premercado.md"]; !ok {
		t.Error("missing pre-market video report")
	}
	if _, ok := rs.uploads["Informes/vision de mercado.md"]; ok {
		t.Error("market vision must not run outside configured weekdays")
	}
}

func TestVideoStageWeeklyVision(t *testing.T) {
	rs := newMockReportStore()
	cfg := testConfig()
	cfg.Video.WeeklyWeekdays = []string{"FRI"}
	e := New(cfg, &mockDirectory{}, &mockMarketData{}, rs,
		&mockLocator{result: &types.VideoResult{VideoID: "v1", URL: "u", Title: "t", TitleMatched: true}},
		&mockAnalyzer{text: "analysis"}, &recordingWaiter{}, Options{})
	// 2026-08-28 is a Friday.
	e.now = func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) }

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := rs.uploads["Informes/vision de mercado.md"]; !ok {
		t.Error("missing weekly market vision report on configured weekday")
	}
}

func TestVideoStageAbsentVideoDoesNotFailRun(t *testing.T) {
	rs := newMockReportStore()
	e := New(testConfig(), &mockDirectory{clients: twoClients()}, &mockMarketData{}, rs,
		&mockLocator{err: types.ErrNotFound},
		&mockAnalyzer{text: "analysis"}, &recordingWaiter{}, Options{})
	e.now = func() time.Time { return time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC) }

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.ClientsProcessed != 2 {
		t.Error("client fan-out should proceed without a video")
	}
	if _, ok := rs.uploads["Informes/informe_video_premercado.md"]; ok {
		t.Error("no video report should exist when no video was found")
	}
}
