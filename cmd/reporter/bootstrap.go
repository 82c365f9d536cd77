package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"portfolio-reporter/internal/analysis"
	"portfolio-reporter/internal/directory"
	"portfolio-reporter/internal/engine"
	"portfolio-reporter/internal/interfaces"
	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/marketdata"
	"portfolio-reporter/internal/marketdata/mdobs"
	"portfolio-reporter/internal/storage"
	"portfolio-reporter/internal/store"
	"portfolio-reporter/internal/trace"
	"portfolio-reporter/internal/video"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the YAML configuration and environment credentials, and
// fails fast with the complete list of missing settings.
func loadConfig(ctx context.Context, path string, demoMode bool) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}

	if missing := cfg.Credentials.Missing(!demoMode); len(missing) > 0 {
		err := fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
		logger.ErrorWithErr(ctx, "Configuration incomplete", err)
		return nil, err
	}
	return cfg, nil
}

// buildEngine wires every dependency and returns the engine plus a cleanup
// function for the resources that need explicit shutdown.
func buildEngine(ctx context.Context, cfg *store.Config, opts engine.Options, demoMode bool) (*engine.Engine, func(), error) {
	cleanup := func() {}

	var dir interfaces.Directory
	if demoMode {
		logger.Warn(ctx, "Demo mode active, using hardcoded portfolio")
		dir = directory.NewDemo()
	} else {
		pg, err := directory.NewPostgres(ctx, cfg.Credentials.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect client directory: %w", err)
		}
		cleanup = pg.Close
		dir = pg
	}

	market := mdobs.Wrap(marketdata.NewAggregator(marketdata.Options{
		FMPAPIKey:     cfg.Credentials.FMPAPIKey,
		FinnhubAPIKey: cfg.Credentials.FinnhubAPIKey,
		LookbackDays:  cfg.Market.LookbackDays,
		MaxNews:       cfg.Market.MaxNews,
		ProbeTicker:   cfg.Market.ProbeTicker,
	}))

	reports := storage.NewSupabase(cfg.Credentials.SupabaseURL,
		cfg.Credentials.StorageKey(), cfg.Storage.Bucket)

	locator, err := video.NewLocator(ctx, cfg.Credentials.YouTubeAPIKey, cfg.Video.MaxResults)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("create video locator: %w", err)
	}

	analyzer, err := analysis.NewAnalyzer(ctx, cfg.Credentials.GeminiAPIKey, cfg.Video.Model)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("create video analyzer: %w", err)
	}

	eng := engine.New(cfg, dir, market, reports, locator, analyzer, engine.Sleeper{}, opts)
	return eng, cleanup, nil
}
