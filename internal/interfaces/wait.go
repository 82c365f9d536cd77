package interfaces

import (
	"context"
	"time"
)

// WaitStrategy pauses between units of work. Implementations must return
// early when the context is cancelled.
type WaitStrategy interface {
	Wait(ctx context.Context, d time.Duration)
}
