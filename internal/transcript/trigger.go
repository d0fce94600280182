package transcript

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"feedhub/internal/model"
)

// ErrNotCached reports a cache miss.
var ErrNotCached = errors.New("transcript not cached")

// DefaultTier is the quality tier used when the caller configures none.
const DefaultTier = "tiny"

// Transcriber is the external transcription collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, url string) (string, error)
}

var videoWatchPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)[\w-]+`)

// Trigger requests transcription for newly stored video items, gated by the
// cache: a URL whose transcript is already cached is never re-transcribed.
type Trigger struct {
	cache       *Cache
	transcriber Transcriber
	tier        string
	log         *slog.Logger
}

// NewTrigger creates a Trigger. tier "" selects DefaultTier.
func NewTrigger(cache *Cache, transcriber Transcriber, tier string, log *slog.Logger) *Trigger {
	if tier == "" {
		tier = DefaultTier
	}
	return &Trigger{cache: cache, transcriber: transcriber, tier: tier, log: log}
}

// Run filters items to video-watch URLs and transcribes the ones not yet
// cached. It returns the titles of items actually transcribed; an empty
// result (nothing to do, everything cached) is success, not an error.
// Per-item transcription failures are logged and skipped.
func (t *Trigger) Run(ctx context.Context, items []model.FeedItem) []string {
	var done []string
	for _, item := range items {
		if !videoWatchPattern.MatchString(item.URL) {
			continue
		}
		if t.cache.Has(item.URL, t.tier) {
			t.log.Debug("transcript cached, skipping", "url", item.URL)
			continue
		}

		text, err := t.transcriber.Transcribe(ctx, item.URL)
		if err != nil {
			t.log.Warn("transcription failed", "url", item.URL, "error", err)
			continue
		}
		if err := t.cache.Put(item.URL, t.tier, text); err != nil {
			t.log.Warn("cache transcript", "url", item.URL, "error", err)
			continue
		}
		done = append(done, item.Title)
	}
	return done
}
