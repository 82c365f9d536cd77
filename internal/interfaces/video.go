package interfaces

import (
	"context"

	"portfolio-reporter/internal/types"
)

// VideoLocator finds the most relevant recent upload on a channel.
type VideoLocator interface {
	Find(ctx context.Context, channelID, query string) (*types.VideoResult, error)
	FindWithFallback(ctx context.Context, channelID string, queries []string) (*types.VideoResult, error)
	Verify(ctx context.Context, channelID string) error
}
