// Package video locates recent uploads on a publisher's channel by title.
package video

import (
	"context"
	"fmt"
	"strings"

	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/types"
)

const watchURL = "https://www.youtube.com/watch?v="

// Locator searches a channel for the newest video whose title matches a
// query. Transport and quota failures are logged and reported as not found
// so a broken video stage never aborts a run.
type Locator struct {
	api        searchAPI
	maxResults int64
}

func NewLocator(ctx context.Context, apiKey string, maxResults int64) (*Locator, error) {
	api, err := newYouTubeSearch(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return newLocatorWithAPI(api, maxResults), nil
}

func newLocatorWithAPI(api searchAPI, maxResults int64) *Locator {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 50 {
		maxResults = 50
	}
	return &Locator{api: api, maxResults: maxResults}
}

// Find returns the newest title-matched video for the query, or the most
// recent upload as a best-effort fallback when results exist but none match.
func (l *Locator) Find(ctx context.Context, channelID, query string) (*types.VideoResult, error) {
	res, err := l.locate(ctx, channelID, query)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// FindWithFallback tries each query in order and returns the first
// title-matched hit. When no query matches a title, the most recent upload
// seen by any query is returned with TitleMatched false.
func (l *Locator) FindWithFallback(ctx context.Context, channelID string, queries []string) (*types.VideoResult, error) {
	var bestEffort *types.VideoResult

	for i, q := range queries {
		res, err := l.locate(ctx, channelID, q)
		if err != nil {
			continue
		}
		if res.TitleMatched {
			if i > 0 {
				logger.Info(ctx, "Video located via fallback query", "query", q, "attempt", i+1)
			}
			return res, nil
		}
		if bestEffort == nil {
			bestEffort = res
		}
	}

	if bestEffort != nil {
		logger.Warn(ctx, "No query matched a video title, using most recent upload",
			"video_id", bestEffort.VideoID, "title", bestEffort.Title)
		return bestEffort, nil
	}
	return nil, types.ErrNotFound
}

// Verify issues a minimal search to prove the API key and channel work.
func (l *Locator) Verify(ctx context.Context, channelID string) error {
	if _, err := l.api.search(ctx, channelID, "", 1); err != nil {
		return fmt.Errorf("video source verification: %w", err)
	}
	return nil
}

func (l *Locator) locate(ctx context.Context, channelID, query string) (*types.VideoResult, error) {
	items, err := l.api.search(ctx, channelID, query, l.maxResults)
	if err != nil {
		logger.ErrorWithErr(ctx, "Video search failed", err, "query", query)
		return nil, types.ErrNotFound
	}
	if len(items) == 0 {
		return nil, types.ErrNotFound
	}

	normQuery := normalizeTitle(query)
	for _, it := range items {
		if normQuery != "" && strings.Contains(normalizeTitle(it.Title), normQuery) {
			return &types.VideoResult{
				VideoID:      it.VideoID,
				URL:          watchURL + it.VideoID,
				Title:        it.Title,
				Query:        query,
				TitleMatched: true,
			}, nil
		}
	}

	// Results are ordered newest first, so item zero is the latest upload.
	return &types.VideoResult{
		VideoID:      items[0].VideoID,
		URL:          watchURL + items[0].VideoID,
		Title:        items[0].Title,
		Query:        query,
		TitleMatched: false,
	}, nil
}
