// Package source implements the per-type content source adapters.
//
// Every adapter is a pure, idempotent read: it fetches a raw payload for one
// source type, normalizes it into canonical items, and holds no state. Safe
// to call concurrently and repeatedly.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedhub/internal/fetcher"
	"feedhub/internal/model"
)

// DefaultLimit bounds adapters that page through ranked ID lists or
// search APIs when the caller does not give an explicit limit.
const DefaultLimit = 10

// Client dispatches checks to the matching source adapter.
type Client struct {
	fetcher *fetcher.Fetcher
	log     *slog.Logger
}

// NewClient creates a Client fetching through httpClient with the given
// per-request timeout.
func NewClient(httpClient fetcher.HTTPClient, timeout time.Duration, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		fetcher: fetcher.New(httpClient, timeout),
		log:     log,
	}
}

// Check fetches current items for one subscription, dispatching on its
// source type. limit <= 0 means the adapter's default.
func (c *Client) Check(ctx context.Context, sub model.Subscription, limit int) ([]model.Item, error) {
	switch sub.SourceType {
	case model.SourceNews:
		return c.CheckRSS(ctx, sub.FeedURL)
	case model.SourceReddit:
		return c.CheckReddit(ctx, sub.Identifier)
	case model.SourceHackerNews:
		return c.CheckHackerNews(ctx, sub.Identifier, limit)
	case model.SourceGitHub:
		return c.CheckGitHub(ctx, sub.Identifier)
	case model.SourceArxiv:
		return c.CheckArxiv(ctx, sub.Identifier, limit)
	case model.SourceYouTube:
		return c.CheckYouTube(ctx, sub.FeedURL)
	case model.SourcePodcast:
		return c.CheckPodcast(ctx, sub.FeedURL)
	default:
		return nil, fmt.Errorf("no adapter for source type %q", sub.SourceType)
	}
}

// Resolve turns a (sourceType, identifier) pair into the display name and
// feed URL stored on the subscription. It performs no network calls.
func Resolve(sourceType model.SourceType, identifier string) (name, feedURL string, err error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", "", fmt.Errorf("empty identifier")
	}

	switch sourceType {
	case model.SourceNews:
		if preset, ok := PresetNewsFeeds[strings.ToLower(identifier)]; ok {
			return preset.Name, preset.URL, nil
		}
		if strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://") {
			return hostLabel(identifier), identifier, nil
		}
		return "", "", fmt.Errorf("unknown news preset %q and not a feed URL", identifier)

	case model.SourceReddit:
		sub := strings.TrimPrefix(strings.TrimPrefix(identifier, "/r/"), "r/")
		return "r/" + sub, fmt.Sprintf("https://www.reddit.com/r/%s/.rss", sub), nil

	case model.SourceHackerNews:
		list := strings.ToLower(identifier)
		if list != "top" && list != "new" && list != "best" {
			return "", "", fmt.Errorf("hackernews identifier must be top, new or best, got %q", identifier)
		}
		return fmt.Sprintf("Hacker News (%s)", list), hackerNewsListURL(list), nil

	case model.SourceGitHub:
		if strings.Count(identifier, "/") != 1 {
			return "", "", fmt.Errorf("github identifier must be owner/repo, got %q", identifier)
		}
		return identifier + " releases", fmt.Sprintf("https://github.com/%s/releases.atom", identifier), nil

	case model.SourceArxiv:
		return "arXiv " + identifier, arxivQueryURL(identifier, DefaultLimit), nil

	case model.SourceYouTube:
		if strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://") {
			return "YouTube " + hostLabel(identifier), identifier, nil
		}
		return "YouTube " + identifier,
			fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", url.QueryEscape(identifier)), nil

	case model.SourcePodcast:
		if !strings.HasPrefix(identifier, "http://") && !strings.HasPrefix(identifier, "https://") {
			return "", "", fmt.Errorf("podcast identifier must be a feed URL, got %q", identifier)
		}
		return "Podcast " + hostLabel(identifier), identifier, nil

	default:
		return "", "", fmt.Errorf("unknown source type %q", sourceType)
	}
}

func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
