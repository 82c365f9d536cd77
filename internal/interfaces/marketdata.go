package interfaces

import (
	"context"

	"portfolio-reporter/internal/types"
)

// MarketData fetches every available data facet for a ticker. Aggregate
// never fails as a whole; facets the providers could not supply are left
// nil in the bundle.
type MarketData interface {
	Aggregate(ctx context.Context, ticker string) types.MarketDataBundle
	Verify(ctx context.Context) map[string]error
}
