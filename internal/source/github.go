package source

import (
	"context"
	"fmt"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

// CheckGitHub fetches the releases Atom feed of a repository ("owner/repo").
// Release entry URLs resolve to github.com.
func (c *Client) CheckGitHub(ctx context.Context, repo string) ([]model.Item, error) {
	feedURL := fmt.Sprintf("https://github.com/%s/releases.atom", repo)

	raw, err := c.fetcher.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch releases for %s: %w", repo, err)
	}
	return fetcher.Parse(raw)
}
