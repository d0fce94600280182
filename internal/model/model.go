// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies the kind of content source a subscription tracks.
type SourceType string

// Supported source types.
const (
	SourceNews       SourceType = "news"
	SourceReddit     SourceType = "reddit"
	SourceHackerNews SourceType = "hackernews"
	SourceGitHub     SourceType = "github"
	SourceArxiv      SourceType = "arxiv"
	SourceYouTube    SourceType = "youtube"
	SourcePodcast    SourceType = "podcast"
)

// SourceTypes lists every supported source type in display order.
var SourceTypes = []SourceType{
	SourceNews,
	SourceReddit,
	SourceHackerNews,
	SourceGitHub,
	SourceArxiv,
	SourceYouTube,
	SourcePodcast,
}

// ParseSourceType validates a raw string against the known source types.
func ParseSourceType(raw string) (SourceType, error) {
	t := SourceType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range SourceTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown source type %q", raw)
}

// Subscription represents one tracked content source.
// (SourceType, Identifier) is unique across the store.
type Subscription struct {
	ID         int64
	SourceType SourceType
	Identifier string
	Name       string
	FeedURL    string
	CreatedAt  time.Time
}

// Item is the canonical shape every adapter and the feed parser produce.
// Metadata is a JSON object string carrying source-specific extras
// (score, comment count, audio URL, video URL, ...); empty when none.
type Item struct {
	Title     string
	URL       string
	Content   string
	Published string
	Author    string
	Metadata  string
}

// FeedItem is a stored item. Items are created only by ingestion, never
// mutated afterwards, and removed only by subscription cascade.
type FeedItem struct {
	ID             int64
	SubscriptionID int64
	Title          string
	URL            string
	Content        string
	Published      string
	Author         string
	Metadata       string
	CreatedAt      time.Time
}

// SourceResult is the outcome of checking a single subscription.
type SourceResult struct {
	Subscription Subscription
	NewItems     int
	Err          error
}

// CheckSummary aggregates one full pass over all subscriptions.
type CheckSummary struct {
	Checked  int
	NewItems int
	Results  []SourceResult
}
