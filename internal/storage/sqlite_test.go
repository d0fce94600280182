package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"feedhub/internal/model"
)

var ignoreSubTS = cmpopts.IgnoreFields(model.Subscription{}, "CreatedAt")
var ignoreItemTS = cmpopts.IgnoreFields(model.FeedItem{}, "CreatedAt")

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustSubscribe(t *testing.T, s *SQLite, sourceType model.SourceType, identifier, name string) model.Subscription {
	t.Helper()
	sub := model.Subscription{
		SourceType: sourceType,
		Identifier: identifier,
		Name:       name,
		FeedURL:    "https://example.com/" + identifier,
	}
	if err := s.CreateSubscription(context.Background(), &sub); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return sub
}

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	sub := mustSubscribe(t, s, model.SourceNews, "bbc", "BBC News")
	if sub.ID == 0 {
		t.Fatal("expected non-zero ID")
	}

	got, err := s.GetSubscription(ctx, model.SourceNews, "bbc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(sub, *got, ignoreSubTS); diff != "" {
		t.Errorf("GetSubscription mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateSubscriptionDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	mustSubscribe(t, s, model.SourceReddit, "golang", "r/golang")

	dup := model.Subscription{SourceType: model.SourceReddit, Identifier: "golang", Name: "r/golang"}
	err := s.CreateSubscription(ctx, &dup)
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}

	subs, err := s.ListSubscriptions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected exactly 1 subscription, got %d", len(subs))
	}

	// Same identifier under a different type is a distinct subscription.
	mustSubscribe(t, s, model.SourceNews, "golang", "golang blog")
	subs, _ = s.ListSubscriptions(ctx)
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subs))
	}
}

func TestGetSubscriptionNotFound(t *testing.T) {
	s := newTestDB(t)
	_, err := s.GetSubscription(context.Background(), model.SourceNews, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreItemsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	sub := mustSubscribe(t, s, model.SourceNews, "bbc", "BBC News")

	items := []model.Item{
		{Title: "Machine Learning Breakthrough", URL: "http://example.com/ml",
			Content: "Researchers discover new architecture for transformers", Author: "Dr. Smith"},
		{Title: "Python 4.0 Released", URL: "http://example.com/py",
			Content: "Major release with new features", Author: "PSF"},
		{Title: "No URL Item", Content: "Should be skipped"},
	}

	stored, err := s.StoreItems(ctx, sub.ID, items)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 new items (URL-less item discarded), got %d", len(stored))
	}

	// The identical batch again inserts nothing.
	again, err := s.StoreItems(ctx, sub.ID, items)
	if err != nil {
		t.Fatalf("store again: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected 0 items on duplicate batch, got %d", len(again))
	}

	// A batch mixing one known and one new URL inserts only the new one.
	mixed := []model.Item{
		{Title: "Python 4.0 Released", URL: "http://example.com/py"},
		{Title: "Fresh", URL: "http://example.com/fresh"},
	}
	stored, err = s.StoreItems(ctx, sub.ID, mixed)
	if err != nil {
		t.Fatalf("store mixed: %v", err)
	}
	if len(stored) != 1 || stored[0].URL != "http://example.com/fresh" {
		t.Fatalf("expected only the fresh item, got %+v", stored)
	}

	// Empty batch is a no-op, not an error.
	if stored, err := s.StoreItems(ctx, sub.ID, nil); err != nil || len(stored) != 0 {
		t.Fatalf("empty batch: items=%d err=%v", len(stored), err)
	}
}

func TestSameURLAcrossSubscriptions(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	a := mustSubscribe(t, s, model.SourceNews, "bbc", "BBC News")
	b := mustSubscribe(t, s, model.SourceNews, "cnn", "CNN")

	item := []model.Item{{Title: "Shared", URL: "http://example.com/shared"}}
	for _, sub := range []model.Subscription{a, b} {
		stored, err := s.StoreItems(ctx, sub.ID, item)
		if err != nil {
			t.Fatalf("store: %v", err)
		}
		if len(stored) != 1 {
			t.Fatalf("dedup key is per subscription; expected insert for sub %d", sub.ID)
		}
	}
}

func TestDeleteSubscriptionCascade(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	sub := mustSubscribe(t, s, model.SourceNews, "bbc", "BBC News")
	other := mustSubscribe(t, s, model.SourceNews, "cnn", "CNN")

	if _, err := s.StoreItems(ctx, sub.ID, []model.Item{
		{Title: "Doomed One", URL: "http://example.com/1", Content: "volcano eruption coverage"},
		{Title: "Doomed Two", URL: "http://example.com/2", Content: "election results"},
	}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := s.StoreItems(ctx, other.ID, []model.Item{
		{Title: "Survivor", URL: "http://example.com/3", Content: "sports roundup"},
	}); err != nil {
		t.Fatalf("store: %v", err)
	}

	removed, err := s.DeleteSubscription(ctx, model.SourceNews, "bbc")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed items, got %d", removed)
	}

	if _, err := s.GetSubscription(ctx, model.SourceNews, "bbc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected subscription gone, got %v", err)
	}

	items, err := s.GetItems(ctx, "", 50)
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Survivor" {
		t.Fatalf("expected only the other subscription's item, got %+v", items)
	}

	// The index entries cascade too: deleted content is unsearchable.
	hits, err := s.Search(ctx, "volcano", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected 0 index hits after cascade, got %d", len(hits))
	}
	hits, _ = s.Search(ctx, "sports", 10)
	if len(hits) != 1 {
		t.Fatalf("expected surviving item to stay searchable, got %d hits", len(hits))
	}
}

func TestDeleteSubscriptionNotFound(t *testing.T) {
	s := newTestDB(t)
	_, err := s.DeleteSubscription(context.Background(), model.SourceNews, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	sub := mustSubscribe(t, s, model.SourceNews, "bbc", "BBC News")

	if _, err := s.StoreItems(ctx, sub.ID, []model.Item{
		{Title: "Machine Learning Breakthrough", URL: "http://example.com/ml",
			Content: "Researchers discover new architecture for transformers"},
		{Title: "Python 4.0 Released", URL: "http://example.com/py",
			Content: "Major release with new features"},
	}); err != nil {
		t.Fatalf("store: %v", err)
	}

	tests := []struct {
		name       string
		query      string
		wantTitles []string
	}{
		{
			name:       "content token",
			query:      "transformers",
			wantTitles: []string{"Machine Learning Breakthrough"},
		},
		{
			name:       "title token",
			query:      "Python",
			wantTitles: []string{"Python 4.0 Released"},
		},
		{
			name:       "absent token",
			query:      "nonexistent",
			wantTitles: nil,
		},
		{
			name:       "multi token narrows",
			query:      "major release",
			wantTitles: []string{"Python 4.0 Released"},
		},
		{
			name:       "punctuation is not fts syntax",
			query:      `transformers (architecture"`,
			wantTitles: []string{"Machine Learning Breakthrough"},
		},
		{
			name:       "blank query",
			query:      "   ",
			wantTitles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Search(ctx, tt.query, 10)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			var gotTitles []string
			for _, h := range hits {
				gotTitles = append(gotTitles, h.Title)
			}
			if diff := cmp.Diff(tt.wantTitles, gotTitles); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetItems(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	news := mustSubscribe(t, s, model.SourceNews, "bbc", "BBC News")
	hn := mustSubscribe(t, s, model.SourceHackerNews, "top", "Hacker News (top)")

	if _, err := s.StoreItems(ctx, news.ID, []model.Item{
		{Title: "News A", URL: "http://example.com/a"},
		{Title: "News B", URL: "http://example.com/b"},
	}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := s.StoreItems(ctx, hn.ID, []model.Item{
		{Title: "Story C", URL: "http://example.com/c", Metadata: `{"score":10,"comments":2}`},
	}); err != nil {
		t.Fatalf("store: %v", err)
	}

	all, err := s.GetItems(ctx, "", 10)
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	wantTitles := []string{"Story C", "News B", "News A"} // newest first
	var gotTitles []string
	for _, item := range all {
		gotTitles = append(gotTitles, item.Title)
	}
	if diff := cmp.Diff(wantTitles, gotTitles); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	onlyHN, err := s.GetItems(ctx, model.SourceHackerNews, 10)
	if err != nil {
		t.Fatalf("get items filtered: %v", err)
	}
	want := []model.FeedItem{{
		ID:             onlyHN[0].ID,
		SubscriptionID: hn.ID,
		Title:          "Story C",
		URL:            "http://example.com/c",
		Metadata:       `{"score":10,"comments":2}`,
	}}
	if diff := cmp.Diff(want, onlyHN, ignoreItemTS); diff != "" {
		t.Errorf("filtered items mismatch (-want +got):\n%s", diff)
	}

	limited, _ := s.GetItems(ctx, "", 2)
	if len(limited) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(limited))
	}
}

// Ensure the Storage interface is satisfied.
var _ Storage = (*SQLite)(nil)
