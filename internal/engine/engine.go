// Package engine orchestrates a full reporting run: source verification,
// the video analysis stage, and the per-client report fan-out.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-reporter/internal/analysis"
	"portfolio-reporter/internal/interfaces"
	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/report"
	"portfolio-reporter/internal/storage"
	"portfolio-reporter/internal/store"
	"portfolio-reporter/internal/ticker"
	"portfolio-reporter/internal/types"
)

// Options select which part of the pipeline a run covers.
type Options struct {
	// TargetClientID limits the fan-out to a single client.
	TargetClientID string
	// SkipVideo disables the video analysis stage.
	SkipVideo bool
}

type Engine struct {
	cfg      *store.Config
	dir      interfaces.Directory
	market   interfaces.MarketData
	reports  interfaces.ReportStore
	locator  interfaces.VideoLocator
	analyzer interfaces.VideoAnalyzer
	waiter   interfaces.WaitStrategy
	renderer *report.Renderer
	opts     Options

	now func() time.Time
}

func New(cfg *store.Config, dir interfaces.Directory, market interfaces.MarketData,
	reports interfaces.ReportStore, locator interfaces.VideoLocator,
	analyzer interfaces.VideoAnalyzer, waiter interfaces.WaitStrategy, opts Options) *Engine {
	if waiter == nil {
		waiter = Sleeper{}
	}
	return &Engine{
		cfg:      cfg,
		dir:      dir,
		market:   market,
		reports:  reports,
		locator:  locator,
		analyzer: analyzer,
		waiter:   waiter,
		renderer: report.NewRenderer(cfg.Market.LookbackDays),
		opts:     opts,
		now:      time.Now,
	}
}

// Run executes the whole pipeline. Provider and per-client failures are
// absorbed into the run stats; only an unreachable client directory makes
// the run itself fail.
func (e *Engine) Run(ctx context.Context) (*types.RunStats, error) {
	timer := logger.StartOperation(ctx, "engine.run",
		"target_client", e.opts.TargetClientID, "skip_video", e.opts.SkipVideo)

	stats := &types.RunStats{StartedAt: e.now()}

	e.verifySources(ctx)

	if !e.opts.SkipVideo {
		e.runVideoStage(ctx)
	}

	clients, err := e.resolveClients(ctx)
	if err != nil {
		timer.EndWithError(err)
		return stats, err
	}

	clientDelay := time.Duration(e.cfg.Delays.ClientSeconds) * time.Second
	for i, client := range clients {
		if len(client.UniqueTickers()) == 0 {
			logger.Warn(ctx, "Client has no holdings, skipping", "client_id", client.UserID)
			stats.ClientsSkipped++
			continue
		}

		cs := e.processClient(ctx, client)
		stats.ClientsProcessed++
		stats.ReportsGenerated += cs.ReportsGenerated
		stats.Errors += cs.Errors
		stats.PerClient = append(stats.PerClient, cs)

		if i < len(clients)-1 {
			e.waiter.Wait(ctx, clientDelay)
		}
	}

	stats.FinishedAt = e.now()
	logger.Info(ctx, "Run finished",
		"clients_processed", stats.ClientsProcessed,
		"clients_skipped", stats.ClientsSkipped,
		"reports_generated", stats.ReportsGenerated,
		"errors", stats.Errors,
		"duration", stats.Duration().String(),
	)
	timer.End("reports", stats.ReportsGenerated, "errors", stats.Errors)
	return stats, nil
}

func (e *Engine) resolveClients(ctx context.Context) ([]types.Client, error) {
	if e.opts.TargetClientID != "" {
		client, err := e.dir.GetClient(ctx, e.opts.TargetClientID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil, fmt.Errorf("client %s not found", e.opts.TargetClientID)
			}
			return nil, err
		}
		return []types.Client{*client}, nil
	}
	return e.dir.ListActiveClients(ctx)
}

// verifySources probes every external dependency once. Failures are
// warnings; the run proceeds and degrades per facet instead.
func (e *Engine) verifySources(ctx context.Context) {
	for source, err := range e.market.Verify(ctx) {
		logger.Warn(ctx, "Source failed verification, facets may degrade",
			"source", source, "error", err)
	}
	if !e.opts.SkipVideo {
		if err := e.locator.Verify(ctx, e.cfg.Video.ChannelID); err != nil {
			logger.Warn(ctx, "Video source failed verification", "error", err)
		}
		if err := e.analyzer.Verify(ctx); err != nil {
			logger.Warn(ctx, "Analysis source failed verification", "error", err)
		}
	}
}

// runVideoStage locates the latest pre-market video, analyzes it, and
// stores the shared daily report. On configured weekdays it additionally
// produces the weekly market vision document from the same video.
func (e *Engine) runVideoStage(ctx context.Context) {
	queries := append([]string{e.cfg.Video.Query}, e.cfg.Video.FallbackQueries...)

	res, err := e.locator.FindWithFallback(ctx, e.cfg.Video.ChannelID, queries)
	if err != nil {
		logger.Warn(ctx, "No pre-market video found, skipping video stage",
			"channel_id", e.cfg.Video.ChannelID)
		return
	}
	logger.Info(ctx, "Pre-market video located",
		"video_id", res.VideoID, "title", res.Title, "title_matched", res.TitleMatched)

	prefix := e.cfg.Storage.BasePrefix

	if text, err := e.analyzer.Analyze(ctx, res.URL, analysis.PremarketPrompt); err != nil {
		logger.ErrorWithErr(ctx, "Pre-market video analysis failed", err, "video_id", res.VideoID)
	} else {
		path := storage.SharedPath(prefix, report.PremarketVideoFileName)
		if err := e.reports.Upload(ctx, path, text, report.MarkdownContentType); err != nil {
			logger.ErrorWithErr(ctx, "Failed to store pre-market video report", err, "path", path)
		} else {
			logger.Report(ctx, "", "", path)
		}
	}

	if !e.cfg.WeeklyWeekdaySet()[e.now().Weekday()] {
		return
	}
	if text, err := e.analyzer.Analyze(ctx, res.URL, analysis.MarketVisionPrompt); err != nil {
		logger.ErrorWithErr(ctx, "Market vision analysis failed", err, "video_id", res.VideoID)
	} else {
		path := storage.SharedPath(prefix, report.MarketVisionFileName)
		if err := e.reports.Upload(ctx, path, text, report.MarkdownContentType); err != nil {
			logger.ErrorWithErr(ctx, "Failed to store market vision report", err, "path", path)
		} else {
			logger.Report(ctx, "", "", path)
		}
	}
}

// processClient generates and stores every per-ticker report for one
// client plus the consolidated document. A failing ticker never stops the
// remaining ones.
func (e *Engine) processClient(ctx context.Context, client types.Client) types.ClientStats {
	timer := logger.StartOperation(ctx, "engine.process_client", "client_id", client.UserID)

	tickers := client.UniqueTickers()
	cs := types.ClientStats{
		ClientID:      client.UserID,
		ClientName:    client.FullName(),
		Portfolios:    len(client.Portfolios),
		Holdings:      client.HoldingCount(),
		UniqueTickers: len(tickers),
	}

	if err := e.reports.EnsureClientFolder(ctx, client.UserID); err != nil {
		logger.Warn(ctx, "Could not ensure client folder", "client_id", client.UserID, "error", err)
	}

	tickerDelay := time.Duration(e.cfg.Delays.TickerSeconds) * time.Second
	var generated []types.TickerReport

	for i, raw := range tickers {
		rep, err := e.processTicker(ctx, client, raw)
		if err != nil {
			cs.Errors++
			cs.FailedTickers = append(cs.FailedTickers, raw)
			logger.ErrorWithErr(ctx, "Ticker processing failed", err,
				"client_id", client.UserID, "ticker", raw)
		} else {
			generated = append(generated, rep)
			cs.ReportsGenerated++
		}

		if i < len(tickers)-1 {
			e.waiter.Wait(ctx, tickerDelay)
		}
	}

	if len(generated) > 0 {
		doc := report.Consolidate(client, generated, e.now())
		path := storage.ClientPath(client.UserID, report.ConsolidatedFileName)
		if err := e.reports.Upload(ctx, path, doc, report.MarkdownContentType); err != nil {
			cs.Errors++
			logger.ErrorWithErr(ctx, "Failed to store consolidated report", err,
				"client_id", client.UserID)
		} else {
			cs.ReportsGenerated++
			logger.Report(ctx, client.UserID, "", path, "reports", len(generated))
		}
	}

	timer.End("reports", cs.ReportsGenerated, "errors", cs.Errors)
	return cs
}

// processTicker builds and stores one per-ticker report. Panics from
// provider plumbing are converted to errors so one symbol cannot take
// down the client.
func (e *Engine) processTicker(ctx context.Context, client types.Client, raw string) (rep types.TickerReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ticker %s: panic: %v", raw, r)
		}
	}()

	symbol := ticker.Normalize(ctx, raw)
	bundle := e.market.Aggregate(ctx, symbol)

	if bundle.FacetCount() == 0 {
		logger.Warn(ctx, "No data facets available, report will only carry absence notes",
			"ticker", symbol)
	}

	rep = types.TickerReport{
		Ticker:   symbol,
		FileName: report.TickerReportFileName(symbol),
		Markdown: e.renderer.RenderTicker(bundle, e.now()),
	}

	path := storage.ClientPath(client.UserID, rep.FileName)
	if err := e.reports.Upload(ctx, path, rep.Markdown, report.MarkdownContentType); err != nil {
		return types.TickerReport{}, fmt.Errorf("upload report for %s: %w", symbol, err)
	}

	logger.Report(ctx, client.UserID, symbol, path)
	return rep, nil
}
