package directory

import (
	"context"

	"portfolio-reporter/internal/types"
)

// DemoDirectory serves a hardcoded client so the pipeline can run without
// a database connection.
type DemoDirectory struct{}

func NewDemo() *DemoDirectory {
	return &DemoDirectory{}
}

func demoClient() types.Client {
	return types.Client{
		UserID:    "demo_user_001",
		FirstName: "Cliente",
		LastName:  "Demo",
		Email:     "demo@example.com",
		Portfolios: []types.Portfolio{{
			ID:          1,
			UserID:      "demo_user_001",
			Name:        "Portfolio Demo",
			Description: "Portfolio de prueba para demo",
			Holdings: []types.Holding{
				{AssetID: 1, PortfolioID: 1, Ticker: "NVDA"},
				{AssetID: 2, PortfolioID: 1, Ticker: "GOOGL"},
				{AssetID: 3, PortfolioID: 1, Ticker: "AAPL"},
			},
		}},
	}
}

func (d *DemoDirectory) ListActiveClients(_ context.Context) ([]types.Client, error) {
	return []types.Client{demoClient()}, nil
}

func (d *DemoDirectory) GetClient(_ context.Context, userID string) (*types.Client, error) {
	c := demoClient()
	if userID != c.UserID {
		return nil, types.ErrNotFound
	}
	return &c, nil
}
