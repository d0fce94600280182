package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"feedhub/internal/checker"
	"feedhub/internal/config"
	"feedhub/internal/service"
	"feedhub/internal/source"
	"feedhub/internal/storage"
	"feedhub/internal/transcript"
)

const usage = `Usage: feedhub <command> [args]

Commands:
  subscribe <type> <identifier>    Track a content source
  unsubscribe <type> <identifier>  Stop tracking a source and drop its items
  list                             List subscriptions
  check                            Check all feeds for new items
  items [-type t] [-limit n]       Show recently stored items
  search [-limit n] <query>        Full-text search over stored items

Source types: news, reddit, hackernews, github, arxiv, youtube, podcast
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	sources := source.NewClient(http.DefaultClient, cfg.FetchTimeout, log)

	var enricher checker.Enricher
	if cfg.TranscribeCommand != "" {
		cache, err := transcript.NewCache(cfg.TranscriptCacheDir)
		if err != nil {
			log.Error("open transcript cache", "dir", cfg.TranscriptCacheDir, "error", err)
			os.Exit(1)
		}
		enricher = transcript.NewTrigger(cache,
			transcript.CommandTranscriber{Command: cfg.TranscribeCommand},
			cfg.TranscriptTier, log)
	}

	check := checker.New(store, sources, enricher, log, cfg.FetchConcurrency)
	svc := service.New(store, check, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out, err := run(ctx, svc, os.Args[1], os.Args[2:])
	if err != nil {
		log.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func run(ctx context.Context, svc *service.Service, command string, args []string) (string, error) {
	switch command {
	case "subscribe":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: subscribe <type> <identifier>")
		}
		return svc.Subscribe(ctx, args[0], args[1])

	case "unsubscribe":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: unsubscribe <type> <identifier>")
		}
		return svc.Unsubscribe(ctx, args[0], args[1])

	case "list":
		return svc.ListSubscriptions(ctx)

	case "check":
		return svc.CheckFeeds(ctx)

	case "items":
		fs := flag.NewFlagSet("items", flag.ContinueOnError)
		typeRaw := fs.String("type", "", "filter by source type")
		limit := fs.Int("limit", 20, "maximum items to show")
		if err := fs.Parse(args); err != nil {
			return "", err
		}
		return svc.GetFeedItems(ctx, *typeRaw, *limit)

	case "search":
		fs := flag.NewFlagSet("search", flag.ContinueOnError)
		limit := fs.Int("limit", 20, "maximum results to show")
		if err := fs.Parse(args); err != nil {
			return "", err
		}
		query := strings.Join(fs.Args(), " ")
		if query == "" {
			return "", fmt.Errorf("usage: search [-limit n] <query>")
		}
		return svc.SearchFeeds(ctx, query, *limit)

	default:
		return "", fmt.Errorf("unknown command %q", command)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
