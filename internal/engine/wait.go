package engine

import (
	"context"
	"time"
)

// Sleeper is the production wait strategy: a plain sleep that returns
// early on context cancellation.
type Sleeper struct{}

func (Sleeper) Wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
