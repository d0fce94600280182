package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

// Per-story fetches fan out concurrently, bounded by this limit.
const hackerNewsFanOut = 5

func hackerNewsListURL(list string) string {
	return fmt.Sprintf("https://hacker-news.firebaseio.com/v0/%sstories.json", list)
}

type hackerNewsStory struct {
	ID          int64  `json:"id"`
	By          string `json:"by"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
}

type hackerNewsMeta struct {
	Score    int `json:"score"`
	Comments int `json:"comments"`
}

// CheckHackerNews fetches a ranked story ID list ("top", "new" or "best")
// and then each story, bounded by limit. A single failed story fetch is
// logged and skipped; it never aborts the batch. Metadata carries the score
// and comment count.
func (c *Client) CheckHackerNews(ctx context.Context, list string, limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	raw, err := c.fetcher.FetchBytes(ctx, hackerNewsListURL(list))
	if err != nil {
		return nil, fmt.Errorf("fetch %s stories: %w", list, err)
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode story ids: %w", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	// Indexed result slots keep the ranked order under concurrent fetches.
	items := make([]*model.Item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hackerNewsFanOut)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			item, err := c.fetchHackerNewsStory(gctx, id)
			if err != nil {
				c.log.Warn("skipping story", "id", id, "error", err)
				return nil
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (c *Client) fetchHackerNewsStory(ctx context.Context, id int64) (*model.Item, error) {
	raw, err := c.fetcher.FetchBytes(ctx,
		fmt.Sprintf("https://hacker-news.firebaseio.com/v0/item/%d.json", id))
	if err != nil {
		return nil, err
	}

	var story hackerNewsStory
	if err := json.Unmarshal(raw, &story); err != nil {
		return nil, fmt.Errorf("decode story %d: %w", id, err)
	}
	if story.Title == "" {
		return nil, fmt.Errorf("story %d has no title", id)
	}

	// Ask/Show HN stories have no external URL; link to the discussion.
	storyURL := story.URL
	if storyURL == "" {
		storyURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
	}

	meta, err := json.Marshal(hackerNewsMeta{Score: story.Score, Comments: story.Descendants})
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	var published string
	if story.Time > 0 {
		published = time.Unix(story.Time, 0).UTC().Format(time.RFC3339)
	}

	return &model.Item{
		Title:     story.Title,
		URL:       storyURL,
		Content:   fetcher.StripHTML(story.Text),
		Published: published,
		Author:    story.By,
		Metadata:  string(meta),
	}, nil
}
