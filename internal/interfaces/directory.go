package interfaces

import (
	"context"

	"portfolio-reporter/internal/types"
)

// Directory resolves clients and their portfolio holdings.
type Directory interface {
	ListActiveClients(ctx context.Context) ([]types.Client, error)
	GetClient(ctx context.Context, userID string) (*types.Client, error)
}
