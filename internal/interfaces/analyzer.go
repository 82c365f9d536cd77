package interfaces

import "context"

// VideoAnalyzer produces a written analysis of a public video.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, videoURL, prompt string) (string, error)
	Verify(ctx context.Context) error
}
