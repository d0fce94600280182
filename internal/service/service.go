// Package service exposes the feed engine's operations to the calling
// layer as plain-text results.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"feedhub/internal/model"
	"feedhub/internal/source"
	"feedhub/internal/storage"
)

// Checker runs one ingestion pass over all subscriptions.
type Checker interface {
	CheckAll(ctx context.Context) (*model.CheckSummary, error)
}

// Service wires storage and the checker behind the exposed operations.
// Informational conditions (already subscribed, not found, empty results)
// are rendered as descriptive text; the error return is reserved for
// infrastructure failures.
type Service struct {
	store   storage.Storage
	checker Checker
	log     *slog.Logger
}

// New creates a Service.
func New(store storage.Storage, checker Checker, log *slog.Logger) *Service {
	return &Service{store: store, checker: checker, log: log}
}

// Subscribe creates a subscription for a (type, identifier) pair.
func (s *Service) Subscribe(ctx context.Context, typeRaw, identifier string) (string, error) {
	sourceType, err := model.ParseSourceType(typeRaw)
	if err != nil {
		return invalidTypeMessage(typeRaw), nil
	}

	name, feedURL, err := source.Resolve(sourceType, identifier)
	if err != nil {
		return fmt.Sprintf("Could not subscribe: %v.", err), nil
	}

	sub := model.Subscription{
		SourceType: sourceType,
		Identifier: identifier,
		Name:       name,
		FeedURL:    feedURL,
	}
	switch err := s.store.CreateSubscription(ctx, &sub); {
	case errors.Is(err, storage.ErrAlreadySubscribed):
		return fmt.Sprintf("Already subscribed to %s (%s).", name, sourceType), nil
	case err != nil:
		return "", err
	}

	s.log.Info("subscribed", "source_type", sourceType, "identifier", identifier)
	return fmt.Sprintf("Subscribed to %s (%s). Run check_feeds to pull items.", name, sourceType), nil
}

// Unsubscribe deletes a subscription and all of its stored items.
func (s *Service) Unsubscribe(ctx context.Context, typeRaw, identifier string) (string, error) {
	sourceType, err := model.ParseSourceType(typeRaw)
	if err != nil {
		return invalidTypeMessage(typeRaw), nil
	}

	sub, err := s.store.GetSubscription(ctx, sourceType, identifier)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("No subscription found for %s %q.", sourceType, identifier), nil
	}
	if err != nil {
		return "", err
	}

	removed, err := s.store.DeleteSubscription(ctx, sourceType, identifier)
	if err != nil {
		return "", err
	}

	s.log.Info("unsubscribed", "source_type", sourceType, "identifier", identifier, "removed_items", removed)
	return fmt.Sprintf("Unsubscribed from %s. Removed %d stored items.", sub.Name, removed), nil
}

// ListSubscriptions renders all active subscriptions.
func (s *Service) ListSubscriptions(ctx context.Context) (string, error) {
	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return "", err
	}
	return formatSubscriptionList(subs), nil
}

// CheckFeeds runs one ingestion pass and renders its summary.
func (s *Service) CheckFeeds(ctx context.Context) (string, error) {
	summary, err := s.checker.CheckAll(ctx)
	if err != nil {
		return "", err
	}
	return formatCheckSummary(summary), nil
}

// GetFeedItems renders the most recent stored items, optionally filtered
// by source type. typeRaw "" means all types.
func (s *Service) GetFeedItems(ctx context.Context, typeRaw string, limit int) (string, error) {
	var sourceType model.SourceType
	if typeRaw != "" {
		var err error
		sourceType, err = model.ParseSourceType(typeRaw)
		if err != nil {
			return invalidTypeMessage(typeRaw), nil
		}
	}

	items, err := s.store.GetItems(ctx, sourceType, limit)
	if err != nil {
		return "", err
	}
	return formatItemList(items, typeRaw), nil
}

// SearchFeeds renders a ranked full-text search over all stored items.
func (s *Service) SearchFeeds(ctx context.Context, query string, limit int) (string, error) {
	items, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return "", err
	}
	return formatSearchResults(query, items), nil
}

func invalidTypeMessage(typeRaw string) string {
	valid := ""
	for i, t := range model.SourceTypes {
		if i > 0 {
			valid += ", "
		}
		valid += string(t)
	}
	return fmt.Sprintf("Invalid source type %q. Valid types: %s.", typeRaw, valid)
}
