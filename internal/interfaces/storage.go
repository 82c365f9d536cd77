package interfaces

import "context"

// ReportStore persists rendered report documents at bucket-relative paths.
type ReportStore interface {
	Upload(ctx context.Context, path, content, contentType string) error
	Exists(ctx context.Context, path string) (bool, error)
	EnsureClientFolder(ctx context.Context, clientID string) error
}
