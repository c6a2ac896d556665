package feedcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkoval/newsfuse/internal/feedcache"
	"github.com/mkoval/newsfuse/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := feedcache.NewMemory()
	ctx := context.Background()

	missing, err := store.Load(ctx, "feed")
	require.NoError(t, err)
	require.Nil(t, missing)

	want := snapshotFixture()
	require.NoError(t, store.Save(ctx, "feed", want))

	got, err := store.Load(ctx, "feed")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want.Entities, got.Entities)
	require.True(t, want.FetchedAt.Equal(got.FetchedAt))
}

func TestMemorySaveReplacesWholesale(t *testing.T) {
	store := feedcache.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "feed", snapshotFixture()))
	second := models.FeedSnapshot{
		Entities:  []models.FusedNewsEntity{{ID: "markets-rally-merged"}},
		FetchedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, "feed", second))

	got, err := store.Load(ctx, "feed")
	require.NoError(t, err)
	require.Len(t, got.Entities, 1)
	require.Equal(t, "markets-rally-merged", got.Entities[0].ID)
}

func TestMemoryClear(t *testing.T) {
	store := feedcache.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "feed", snapshotFixture()))
	require.NoError(t, store.Clear(ctx, "feed"))

	got, err := store.Load(ctx, "feed")
	require.NoError(t, err)
	require.Nil(t, got)
}
