package source

import (
	"context"
	"fmt"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

// CheckRSS fetches a generic RSS or Atom feed and normalizes its entries.
func (c *Client) CheckRSS(ctx context.Context, feedURL string) ([]model.Item, error) {
	raw, err := c.fetcher.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	return fetcher.Parse(raw)
}
