package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkoval/newsfuse/internal/cluster"
	"github.com/mkoval/newsfuse/internal/config"
	"github.com/mkoval/newsfuse/internal/feed"
	"github.com/mkoval/newsfuse/internal/feedcache"
	"github.com/mkoval/newsfuse/internal/logger"
	"github.com/mkoval/newsfuse/internal/sources"
)

// One-shot cache warmer. Run it from cron so interactive /feed requests
// land on a fresh snapshot instead of paying for the fan-out themselves.
func main() {
	log := logger.New("refresh")
	cfg, err := config.LoadRefresh()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	srcCfg, err := sources.LoadConfig(cfg.SourcesPath)
	if err != nil {
		log.Error("load sources config", slog.Any("err", err))
		os.Exit(1)
	}

	adapters, err := sources.NewRegistry().Build(srcCfg, &http.Client{Timeout: cfg.FetchTimeout})
	if err != nil {
		log.Error("build adapters", slog.Any("err", err))
		os.Exit(1)
	}

	// A dry run assembles the feed and throws the snapshot away, which is
	// handy for vetting a new providers file before it hits the cache.
	var store feed.Store
	if cfg.DryRun {
		store = feedcache.NewMemory()
	} else {
		sqlStore, err := feedcache.OpenSQLite(cfg.CachePath)
		if err != nil {
			log.Error("open feed cache", slog.Any("err", err))
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	svc := feed.New(adapters, store, feed.Config{
		CacheTTL:     cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		Cluster: cluster.Config{
			SimilarityThreshold: cfg.SimilarityThreshold,
			MinTokenLength:      cfg.MinTokenLength,
		},
		Ranks:       srcCfg.CategoryRanks,
		DefaultRank: srcCfg.DefaultRank,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout+30*time.Second)
	defer cancel()

	started := time.Now()
	entities, err := svc.GetFeed(runCtx, feed.Options{Limit: cfg.FeedLimit, BypassCache: true})
	if err != nil {
		log.Error("refresh run aborted", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("feed cache refreshed",
		slog.Int("providers", len(adapters)),
		slog.Int("entities", len(entities)),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Duration("took", time.Since(started)),
	)
}
