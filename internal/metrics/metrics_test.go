package metrics_test

import (
	"testing"
	"time"

	"github.com/mkoval/newsfuse/internal/metrics"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounts(t *testing.T) {
	m := metrics.New()

	m.RecordRun(60, 40, 40, 250*time.Millisecond)
	m.RecordRun(30, 25, 25, 100*time.Millisecond)
	m.RecordAdapterFailure()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheBypass()

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap["fetch_runs"])
	require.Equal(t, int64(90), snap["articles_in"])
	require.Equal(t, int64(65), snap["clusters_built"])
	require.Equal(t, int64(65), snap["entities_out"])
	require.Equal(t, int64(1), snap["adapter_failures"])
	require.Equal(t, int64(2), snap["cache_hits"])
	require.Equal(t, int64(1), snap["cache_misses"])
	require.Equal(t, int64(1), snap["cache_bypasses"])
	require.Equal(t, int64(100), snap["last_run_duration_ms"])
}

func TestMetricsZeroSnapshot(t *testing.T) {
	snap := metrics.New().Snapshot()
	require.Equal(t, int64(0), snap["fetch_runs"])
	require.Equal(t, int64(0), snap["cache_hits"])
}
