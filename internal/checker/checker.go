// Package checker orchestrates one ingestion pass over all subscriptions.
package checker

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"feedhub/internal/model"
	"feedhub/internal/storage"
)

// Source fetches current items for one subscription.
type Source interface {
	Check(ctx context.Context, sub model.Subscription, limit int) ([]model.Item, error)
}

// Enricher receives newly stored items for post-ingestion side effects.
type Enricher interface {
	Run(ctx context.Context, items []model.FeedItem) []string
}

// Checker runs check cycles: fetch every subscription's source, store the
// results, and trigger enrichment for video items.
type Checker struct {
	store       storage.Storage
	source      Source
	enricher    Enricher
	log         *slog.Logger
	concurrency int
}

// New creates a Checker. enricher may be nil to disable auto-enrichment;
// concurrency <= 0 selects a default of 4 parallel fetches.
func New(store storage.Storage, source Source, enricher Enricher, log *slog.Logger, concurrency int) *Checker {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Checker{
		store:       store,
		source:      source,
		enricher:    enricher,
		log:         log,
		concurrency: concurrency,
	}
}

type fetchResult struct {
	items []model.Item
	err   error
}

// CheckAll runs one pass over every subscription. Adapter fetches run
// concurrently under the configured bound; every store call happens
// afterwards on the single-writer path. One subscription's failure is
// recorded as zero new items and never aborts the rest of the pass.
func (c *Checker) CheckAll(ctx context.Context) (*model.CheckSummary, error) {
	subs, err := c.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	fetched := make([]fetchResult, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			items, err := c.source.Check(gctx, sub, 0)
			fetched[i] = fetchResult{items: items, err: err}
			return nil
		})
	}
	_ = g.Wait() // fetch errors live in the result slots

	summary := &model.CheckSummary{Checked: len(subs)}
	for i, sub := range subs {
		res := model.SourceResult{Subscription: sub}
		switch {
		case fetched[i].err != nil:
			c.log.Error("check source", "source_type", sub.SourceType,
				"identifier", sub.Identifier, "error", fetched[i].err)
			res.Err = fetched[i].err

		default:
			stored, err := c.store.StoreItems(ctx, sub.ID, fetched[i].items)
			if err != nil {
				c.log.Error("store items", "subscription_id", sub.ID, "error", err)
				res.Err = err
				break
			}
			res.NewItems = len(stored)
			summary.NewItems += len(stored)

			if sub.SourceType == model.SourceYouTube && c.enricher != nil && len(stored) > 0 {
				if done := c.enricher.Run(ctx, stored); len(done) > 0 {
					c.log.Info("auto-transcribed videos", "count", len(done))
				}
			}
		}
		summary.Results = append(summary.Results, res)
	}

	return summary, nil
}
