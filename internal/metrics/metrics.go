package metrics

import (
	"sync"
	"time"
)

// Metrics counts pipeline activity. Each feed service owns one instance;
// there is no package-global state, so tests can assert counts in
// isolation.
type Metrics struct {
	mu              sync.Mutex
	fetchRuns       int64
	adapterFailures int64
	cacheHits       int64
	cacheMisses     int64
	cacheBypasses   int64
	articlesIn      int64
	clustersBuilt   int64
	entitiesOut     int64
	lastRunDuration time.Duration
}

// New builds a zeroed metrics holder.
func New() *Metrics {
	return &Metrics{}
}

// RecordRun accounts one full pipeline run.
func (m *Metrics) RecordRun(articles, clusters, entities int, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetchRuns++
	m.articlesIn += int64(articles)
	m.clustersBuilt += int64(clusters)
	m.entitiesOut += int64(entities)
	m.lastRunDuration = took
}

// RecordAdapterFailure accounts one failed provider fetch.
func (m *Metrics) RecordAdapterFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adapterFailures++
}

// RecordCacheHit accounts a request served from the snapshot store.
func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

// RecordCacheMiss accounts a request that had to run the pipeline.
func (m *Metrics) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

// RecordCacheBypass accounts a request that skipped the snapshot store.
func (m *Metrics) RecordCacheBypass() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheBypasses++
}

// Snapshot returns the current counters for the stats endpoint.
func (m *Metrics) Snapshot() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"fetch_runs":           m.fetchRuns,
		"adapter_failures":     m.adapterFailures,
		"cache_hits":           m.cacheHits,
		"cache_misses":         m.cacheMisses,
		"cache_bypasses":       m.cacheBypasses,
		"articles_in":          m.articlesIn,
		"clusters_built":       m.clustersBuilt,
		"entities_out":         m.entitiesOut,
		"last_run_duration_ms": m.lastRunDuration.Milliseconds(),
	}
}
