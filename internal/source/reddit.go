package source

import (
	"context"
	"fmt"
	"strings"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

// CheckReddit fetches a subreddit's native Atom endpoint. The entry author
// is the submitter.
func (c *Client) CheckReddit(ctx context.Context, subreddit string) ([]model.Item, error) {
	sub := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(subreddit), "/r/"), "r/")
	feedURL := fmt.Sprintf("https://www.reddit.com/r/%s/.rss", sub)

	raw, err := c.fetcher.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", sub, err)
	}
	return fetcher.Parse(raw)
}
