package feedcache

import (
	"context"
	"sync"

	"github.com/mkoval/newsfuse/internal/models"
)

// Memory keeps snapshots in process memory. Useful for tests and one-shot
// runs where persistence across restarts does not matter.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]models.FeedSnapshot
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string]models.FeedSnapshot)}
}

// Load returns the stored snapshot for the key, or nil when there is none.
func (m *Memory) Load(_ context.Context, key string) (*models.FeedSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[key]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

// Save replaces the snapshot stored under the key.
func (m *Memory) Save(_ context.Context, key string, snapshot models.FeedSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[key] = snapshot
	return nil
}

// Clear removes the snapshot stored under the key.
func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snapshots, key)
	return nil
}
