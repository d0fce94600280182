// Package fetcher handles feed downloading and normalization into canonical items.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"feedhub/internal/model"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	userAgent   = "feedhub/1.0"
	maxBodySize = 5 * 1024 * 1024
)

// Fetcher downloads raw feed payloads over HTTP.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client and per-request timeout.
func New(client HTTPClient, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{client: client, timeout: timeout}
}

// FetchBytes downloads url and returns the raw response body.
func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Parse normalizes an RSS 2.0 or Atom payload into canonical items,
// preserving source order. The format is detected from the document root.
// Items missing a title or URL are still returned; filtering them is the
// store's concern, not the parser's.
func Parse(raw []byte) ([]model.Item, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]model.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, normalize(entry))
	}
	return items, nil
}

func normalize(entry *gofeed.Item) model.Item {
	// gofeed maps RSS <description> and Atom <summary> to Description,
	// Atom <content> to Content. Summary wins when both are present.
	content := entry.Description
	if content == "" {
		content = entry.Content
	}

	// Atom entries without <published> still carry <updated>.
	published := entry.Published
	if published == "" {
		published = entry.Updated
	}

	var author string
	if entry.Author != nil {
		author = entry.Author.Name
		if author == "" {
			author = entry.Author.Email
		}
	}

	return model.Item{
		Title:     strings.TrimSpace(entry.Title),
		URL:       strings.TrimSpace(entry.Link),
		Content:   StripHTML(content),
		Published: strings.TrimSpace(published),
		Author:    strings.TrimSpace(author),
	}
}

// StripHTML removes markup from s, decodes entities, and collapses
// whitespace runs to single spaces.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
