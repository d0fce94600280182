// Package transcript provides the transcript cache and the post-ingestion
// auto-enrichment trigger for video items.
package transcript

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one cached transcript, stored as a JSON file keyed by
// (video URL, quality tier).
type Entry struct {
	URL        string    `json:"url"`
	Tier       string    `json:"tier"`
	Transcript string    `json:"transcript"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cache is an on-disk transcript cache. The directory is a constructor
// parameter so tests can isolate it.
type Cache struct {
	dir string
}

// NewCache creates a Cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Path returns the cache file path for a (url, tier) key.
func (c *Cache) Path(url, tier string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, fmt.Sprintf("%x_%s.json", sum[:8], tier))
}

// Has reports whether a transcript is already cached for the key.
func (c *Cache) Has(url, tier string) bool {
	_, err := os.Stat(c.Path(url, tier))
	return err == nil
}

// Get loads a cached transcript, or ErrNotCached.
func (c *Cache) Get(url, tier string) (*Entry, error) {
	data, err := os.ReadFile(c.Path(url, tier))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Put persists a transcript under the (url, tier) key.
func (c *Cache) Put(url, tier, transcript string) error {
	entry := Entry{
		URL:        url,
		Tier:       tier,
		Transcript: transcript,
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.Path(url, tier), data, 0o640); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
