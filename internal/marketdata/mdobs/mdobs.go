package mdobs

import (
	"context"

	"portfolio-reporter/internal/interfaces"
	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/trace"
	"portfolio-reporter/internal/types"
)

// observableMarketData wraps a MarketData source with observability
// (logging & tracing)
type observableMarketData struct {
	source interfaces.MarketData
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(source interfaces.MarketData) interfaces.MarketData {
	return &observableMarketData{
		source: source,
	}
}

// Aggregate fetches the bundle with observability
func (om *observableMarketData) Aggregate(ctx context.Context, ticker string) types.MarketDataBundle {
	ctx, span := trace.StartSpan(ctx, "marketdata.Aggregate")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Aggregating market data", "ticker", ticker)

	bundle := om.source.Aggregate(ctx, ticker)

	logger.InfoSkip(ctx, 1, "Market data aggregated",
		"ticker", ticker,
		"facets", bundle.FacetCount(),
		"news_items", len(bundle.News),
	)
	return bundle
}

// Verify probes the underlying providers with observability
func (om *observableMarketData) Verify(ctx context.Context) map[string]error {
	ctx, span := trace.StartSpan(ctx, "marketdata.Verify")
	defer span.End()

	failures := om.source.Verify(ctx)
	for source, err := range failures {
		logger.ErrorWithErrSkip(ctx, 1, "Market data source failed verification", err,
			"source", source,
		)
	}
	if len(failures) == 0 {
		logger.InfoSkip(ctx, 1, "All market data sources verified")
	}
	return failures
}
