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

type podcastMeta struct {
	AudioURL string `json:"audio_url,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// CheckPodcast fetches a podcast RSS feed (RSS 2.0 plus the enclosure and
// itunes extensions). Metadata carries the episode audio URL and duration.
func (c *Client) CheckPodcast(ctx context.Context, feedURL string) ([]model.Item, error) {
	raw, err := c.fetcher.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch podcast feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse podcast feed: %w", err)
	}

	items := make([]model.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		var pm podcastMeta
		for _, enc := range entry.Enclosures {
			if enc.URL != "" {
				pm.AudioURL = enc.URL
				break
			}
		}
		if entry.ITunesExt != nil {
			pm.Duration = entry.ITunesExt.Duration
		}

		var metadata string
		if pm.AudioURL != "" || pm.Duration != "" {
			meta, err := json.Marshal(pm)
			if err != nil {
				return nil, fmt.Errorf("encode metadata: %w", err)
			}
			metadata = string(meta)
		}

		items = append(items, model.Item{
			Title:     entry.Title,
			URL:       entry.Link,
			Content:   fetcher.StripHTML(entry.Description),
			Published: entry.Published,
			Author:    episodeAuthor(entry, feed),
			Metadata:  metadata,
		})
	}
	return items, nil
}

func episodeAuthor(entry *gofeed.Item, feed *gofeed.Feed) string {
	if entry.ITunesExt != nil && entry.ITunesExt.Author != "" {
		return entry.ITunesExt.Author
	}
	if entry.Author != nil && entry.Author.Name != "" {
		return entry.Author.Name
	}
	if feed.ITunesExt != nil && feed.ITunesExt.Author != "" {
		return feed.ITunesExt.Author
	}
	return ""
}
