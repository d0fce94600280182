package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/gofeed"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

type youtubeMeta struct {
	VideoURL string `json:"video_url"`
}

// CheckYouTube fetches a channel's videos Atom feed. Metadata carries the
// direct video URL from the media extension, which differs from the watch
// page the entry itself links to.
func (c *Client) CheckYouTube(ctx context.Context, feedURL string) ([]model.Item, error) {
	raw, err := c.fetcher.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch channel feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse channel feed: %w", err)
	}

	items := make([]model.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		videoURL := mediaContentURL(entry)
		if videoURL == "" {
			videoURL = entry.Link
		}
		meta, err := json.Marshal(youtubeMeta{VideoURL: videoURL})
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}

		var author string
		if entry.Author != nil {
			author = entry.Author.Name
		}

		items = append(items, model.Item{
			Title:     entry.Title,
			URL:       entry.Link,
			Content:   fetcher.StripHTML(mediaDescription(entry)),
			Published: entry.Published,
			Author:    author,
			Metadata:  string(meta),
		})
	}
	return items, nil
}

func mediaContentURL(entry *gofeed.Item) string {
	for _, group := range entry.Extensions["media"]["group"] {
		for _, content := range group.Children["content"] {
			if url := content.Attrs["url"]; url != "" {
				return url
			}
		}
	}
	return ""
}

func mediaDescription(entry *gofeed.Item) string {
	for _, group := range entry.Extensions["media"]["group"] {
		for _, desc := range group.Children["description"] {
			if desc.Value != "" {
				return desc.Value
			}
		}
	}
	return entry.Description
}
