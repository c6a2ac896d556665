// Package feed assembles the deduplicated news feed: it fans out to the
// configured providers, clusters near-duplicate coverage, fuses each
// cluster into one attributed entity, and caches the result.
package feed

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mkoval/newsfuse/internal/cluster"
	"github.com/mkoval/newsfuse/internal/fuse"
	"github.com/mkoval/newsfuse/internal/metrics"
	"github.com/mkoval/newsfuse/internal/models"
	"github.com/mkoval/newsfuse/internal/sources"
)

const (
	defaultCacheKey     = "feed"
	defaultCacheTTL     = 30 * time.Minute
	defaultFetchTimeout = 10 * time.Second
	defaultLimit        = 20
	defaultRank         = 100
)

// Store persists assembled snapshots between calls. Load returns nil
// without an error when no snapshot exists.
type Store interface {
	Load(ctx context.Context, key string) (*models.FeedSnapshot, error)
	Save(ctx context.Context, key string, snapshot models.FeedSnapshot) error
}

// Config tunes one feed service instance. Zero fields fall back to the
// package defaults.
type Config struct {
	CacheKey     string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	Cluster      cluster.Config
	Ranks        map[string]int
	DefaultRank  int
}

// Options control a single GetFeed call. Ranks, when set, override the
// configured category ranks for this call only.
type Options struct {
	Limit       int
	BypassCache bool
	Ranks       map[string]int
}

// Service is the pipeline entry point. Fan-out to the adapters is its only
// concurrency; everything downstream of the join runs synchronously on
// immutable data.
type Service struct {
	adapters []sources.Adapter
	store    Store
	cfg      Config
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// New wires a service. A nil store disables caching; every call then runs
// the full pipeline.
func New(adapters []sources.Adapter, store Store, cfg Config, log *slog.Logger) *Service {
	if cfg.CacheKey == "" {
		cfg.CacheKey = defaultCacheKey
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.DefaultRank <= 0 {
		cfg.DefaultRank = defaultRank
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		adapters: adapters,
		store:    store,
		cfg:      cfg,
		log:      log,
		metrics:  metrics.New(),
	}
}

// GetFeed returns the deduplicated feed truncated to opts.Limit. A fresh
// cached snapshot short-circuits the pipeline unless the caller bypasses
// it. Provider and store failures degrade to an emptier feed; the only
// error returned is caller cancellation.
func (s *Service) GetFeed(ctx context.Context, opts Options) ([]models.FusedNewsEntity, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}

	if opts.BypassCache {
		s.metrics.RecordCacheBypass()
	} else if cached := s.loadFresh(ctx); cached != nil {
		s.metrics.RecordCacheHit()
		s.log.Debug("feed served from cache",
			"age", time.Since(cached.FetchedAt), "entities", len(cached.Entities))
		return truncate(cached.Entities, opts.Limit), nil
	} else {
		s.metrics.RecordCacheMiss()
		s.log.Debug("feed cache miss")
	}

	started := time.Now()
	articles := s.fetchAll(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Newest first before clustering: input order decides each cluster's
	// primary article.
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	clusters := cluster.Build(articles, s.cfg.Cluster)
	entities := fuse.All(clusters)
	s.sortEntities(entities, opts.Ranks)

	took := time.Since(started)
	s.metrics.RecordRun(len(articles), len(clusters), len(entities), took)
	s.log.Info("feed assembled",
		"articles", len(articles), "clusters", len(clusters),
		"entities", len(entities), "took", took)

	s.saveSnapshot(ctx, entities)

	return truncate(entities, opts.Limit), nil
}

// Stats exposes the pipeline counters.
func (s *Service) Stats() map[string]any {
	return s.metrics.Snapshot()
}

// fetchAll queries every adapter concurrently and concatenates the results
// in adapter registration order, never completion order: the clusterer is
// order-sensitive, and network timing must not change the feed. A failed
// or timed-out adapter contributes nothing.
func (s *Service) fetchAll(ctx context.Context) []models.RawArticle {
	results := make([][]models.RawArticle, len(s.adapters))

	var wg sync.WaitGroup
	for i, adapter := range s.adapters {
		wg.Add(1)
		go func(slot int, a sources.Adapter) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			articles, err := a.Fetch(fetchCtx)
			if err != nil {
				s.metrics.RecordAdapterFailure()
				s.log.Warn("adapter fetch failed", "adapter", a.Name(), "error", err)
				return
			}
			s.log.Debug("adapter fetch ok", "adapter", a.Name(), "articles", len(articles))
			results[slot] = articles
		}(i, adapter)
	}
	wg.Wait()

	var articles []models.RawArticle
	for _, r := range results {
		articles = append(articles, r...)
	}
	return articles
}

func (s *Service) loadFresh(ctx context.Context) *models.FeedSnapshot {
	if s.store == nil {
		return nil
	}

	snapshot, err := s.store.Load(ctx, s.cfg.CacheKey)
	if err != nil {
		s.log.Warn("feed cache read failed", "error", err)
		return nil
	}
	if snapshot == nil {
		return nil
	}
	if snapshot.Age(time.Now()) >= s.cfg.CacheTTL {
		s.log.Debug("feed cache stale", "age", snapshot.Age(time.Now()))
		return nil
	}
	return snapshot
}

// saveSnapshot stores the full entity list, not the truncated page, so
// later calls with a larger limit can still be served from cache.
func (s *Service) saveSnapshot(ctx context.Context, entities []models.FusedNewsEntity) {
	if s.store == nil {
		return
	}

	snapshot := models.FeedSnapshot{Entities: entities, FetchedAt: time.Now()}
	if err := s.store.Save(ctx, s.cfg.CacheKey, snapshot); err != nil {
		s.log.Warn("feed cache write failed", "error", err)
	}
}

func (s *Service) sortEntities(entities []models.FusedNewsEntity, overrides map[string]int) {
	rank := func(e models.FusedNewsEntity) int {
		if overrides != nil {
			if r, ok := overrides[e.Category]; ok {
				return r
			}
		}
		if r, ok := s.cfg.Ranks[e.Category]; ok {
			return r
		}
		return s.cfg.DefaultRank
	}

	sort.SliceStable(entities, func(i, j int) bool {
		ri, rj := rank(entities[i]), rank(entities[j])
		if ri != rj {
			return ri < rj
		}
		return entities[i].PublishedAt.After(entities[j].PublishedAt)
	})
}

func truncate(entities []models.FusedNewsEntity, limit int) []models.FusedNewsEntity {
	if limit >= len(entities) {
		return entities
	}
	return entities[:limit]
}
