package source

import (
	"context"
	"fmt"
	"net/url"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

// CheckArxiv queries the arXiv search API for the newest submissions in a
// category (e.g. "cs.AI"). The API speaks Atom; the paper abstract lands in
// the item content.
func (c *Client) CheckArxiv(ctx context.Context, category string, limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	raw, err := c.fetcher.FetchBytes(ctx, arxivQueryURL(category, limit))
	if err != nil {
		return nil, fmt.Errorf("query arxiv %s: %w", category, err)
	}
	return fetcher.Parse(raw)
}

func arxivQueryURL(category string, limit int) string {
	q := url.Values{}
	q.Set("search_query", "cat:"+category)
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", limit))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")
	return "http://export.arxiv.org/api/query?" + q.Encode()
}
