package video

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// searchAPI abstracts the channel search call so the locator can be tested
// without network access.
type searchAPI interface {
	search(ctx context.Context, channelID, query string, maxResults int64) ([]searchItem, error)
}

type searchItem struct {
	VideoID string
	Title   string
}

type youtubeSearch struct {
	svc *youtube.Service
}

func newYouTubeSearch(ctx context.Context, apiKey string) (*youtubeSearch, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &youtubeSearch{svc: svc}, nil
}

// search lists the channel's videos newest first. Results without a video id
// are dropped.
func (y *youtubeSearch) search(ctx context.Context, channelID, query string, maxResults int64) ([]searchItem, error) {
	call := y.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Q(query).
		Order("date").
		Type("video").
		MaxResults(maxResults)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("youtube search failed (HTTP %d): %s", apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	items := make([]searchItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Id == nil || it.Id.VideoId == "" || it.Snippet == nil {
			continue
		}
		items = append(items, searchItem{VideoID: it.Id.VideoId, Title: it.Snippet.Title})
	}
	return items, nil
}
