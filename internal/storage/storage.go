// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"feedhub/internal/model"
)

// Informational conditions surfaced to the caller as typed errors.
var (
	// ErrAlreadySubscribed reports a (source_type, identifier) pair that is
	// already tracked. The existing subscription is left untouched.
	ErrAlreadySubscribed = errors.New("already subscribed")

	// ErrNotFound reports a lookup or delete on an absent entity.
	ErrNotFound = errors.New("not found")
)

// Storage is the interface for all persistence operations.
type Storage interface {
	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	GetSubscription(ctx context.Context, sourceType model.SourceType, identifier string) (*model.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)

	// DeleteSubscription removes a subscription and cascades deletion of its
	// items and their index entries, returning how many items were removed.
	DeleteSubscription(ctx context.Context, sourceType model.SourceType, identifier string) (int64, error)

	// StoreItems inserts items not yet stored for the subscription, keyed by
	// (subscription_id, url). Items with an empty URL are discarded. Returns
	// the newly inserted rows; re-running the same batch returns none.
	StoreItems(ctx context.Context, subscriptionID int64, items []model.Item) ([]model.FeedItem, error)

	// Search runs a relevance-ranked full-text match over item title+content.
	Search(ctx context.Context, query string, limit int) ([]model.FeedItem, error)

	// GetItems returns the most recently stored items, newest first,
	// optionally filtered by source type ("" means all).
	GetItems(ctx context.Context, sourceType model.SourceType, limit int) ([]model.FeedItem, error)

	Close() error
}
