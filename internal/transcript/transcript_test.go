package transcript

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"feedhub/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return c
}

// fakeTranscriber counts calls and can fail for selected URLs.
type fakeTranscriber struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return "", errors.New("whisper crashed")
	}
	return "transcript of " + url, nil
}

func TestCachePutGet(t *testing.T) {
	c := newTestCache(t)
	url := "https://www.youtube.com/watch?v=abc123defg0"

	if c.Has(url, "tiny") {
		t.Fatal("fresh cache should not have the key")
	}
	if _, err := c.Get(url, "tiny"); !errors.Is(err, ErrNotCached) {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}

	if err := c.Put(url, "tiny", "hello world"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !c.Has(url, "tiny") {
		t.Fatal("expected key after put")
	}

	got, err := c.Get(url, "tiny")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := &Entry{URL: url, Tier: "tiny", Transcript: "hello world"}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Entry{}, "CreatedAt")); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
}

func TestCacheKeyIncludesTier(t *testing.T) {
	c := newTestCache(t)
	url := "https://www.youtube.com/watch?v=abc123defg0"

	if err := c.Put(url, "tiny", "tiny text"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if c.Has(url, "large") {
		t.Error("different tier must be a separate cache entry")
	}

	base := filepath.Base(c.Path(url, "tiny"))
	if !strings.HasSuffix(base, "_tiny.json") {
		t.Errorf("cache file %q should carry the tier suffix", base)
	}
	if c.Path(url, "tiny") == c.Path("https://www.youtube.com/watch?v=other1234", "tiny") {
		t.Error("different URLs must map to different files")
	}
}

func TestTriggerRun(t *testing.T) {
	cache := newTestCache(t)
	tr := &fakeTranscriber{}
	trigger := NewTrigger(cache, tr, "", testLogger())

	cachedURL := "https://www.youtube.com/watch?v=cached00000"
	if err := cache.Put(cachedURL, DefaultTier, "already here"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	items := []model.FeedItem{
		{Title: "Fresh Video", URL: "https://www.youtube.com/watch?v=abc123defg0"},
		{Title: "Short Link", URL: "https://youtu.be/xyz789"},
		{Title: "Cached Video", URL: cachedURL},
		{Title: "Channel Page", URL: "https://www.youtube.com/@somechannel"},
		{Title: "Blog Post", URL: "https://example.com/post"},
	}

	done := trigger.Run(context.Background(), items)

	want := []string{"Fresh Video", "Short Link"}
	if diff := cmp.Diff(want, done); diff != "" {
		t.Errorf("transcribed titles mismatch (-want +got):\n%s", diff)
	}
	if len(tr.calls) != 2 {
		t.Fatalf("expected 2 transcriber calls, got %d: %v", len(tr.calls), tr.calls)
	}

	entry, err := cache.Get("https://www.youtube.com/watch?v=abc123defg0", DefaultTier)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.HasPrefix(entry.Transcript, "transcript of ") {
		t.Errorf("unexpected transcript %q", entry.Transcript)
	}

	// Running again over the same items transcribes nothing new.
	done = trigger.Run(context.Background(), items)
	if len(done) != 0 {
		t.Errorf("second run transcribed %v, want nothing", done)
	}
	if len(tr.calls) != 2 {
		t.Errorf("transcriber called %d times total, want 2", len(tr.calls))
	}
}

func TestTriggerRunFailureSkips(t *testing.T) {
	cache := newTestCache(t)
	bad := "https://www.youtube.com/watch?v=failme00000"
	tr := &fakeTranscriber{fail: map[string]bool{bad: true}}
	trigger := NewTrigger(cache, tr, DefaultTier, testLogger())

	items := []model.FeedItem{
		{Title: "Bad Video", URL: bad},
		{Title: "Good Video", URL: "https://www.youtube.com/watch?v=goodone0000"},
	}

	done := trigger.Run(context.Background(), items)
	if diff := cmp.Diff([]string{"Good Video"}, done); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
	if cache.Has(bad, DefaultTier) {
		t.Error("failed transcription must not be cached")
	}
}

func TestTriggerRunEmpty(t *testing.T) {
	trigger := NewTrigger(newTestCache(t), &fakeTranscriber{}, DefaultTier, testLogger())
	if done := trigger.Run(context.Background(), nil); len(done) != 0 {
		t.Errorf("expected nothing for empty input, got %v", done)
	}
}
