// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath       string
	TranscriptCacheDir string
	TranscriptTier     string
	TranscribeCommand  string
	LogLevel           string
	FetchTimeout       time.Duration
	FetchConcurrency   int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:       envOrDefault("DATABASE_PATH", "./data/feeds.db"),
		TranscriptCacheDir: envOrDefault("TRANSCRIPT_CACHE_DIR", "./data/transcripts"),
		TranscriptTier:     envOrDefault("TRANSCRIPT_TIER", "tiny"),
		TranscribeCommand:  os.Getenv("TRANSCRIBE_COMMAND"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
	}

	timeoutSec, err := envInt("FETCH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout = time.Duration(timeoutSec) * time.Second

	cfg.FetchConcurrency, err = envInt("FETCH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
