package memory

import (
	"context"
	"sync"
	"time"

	"resumeai-backend/internal/domain"
)

// SearchCache keeps entries in a map. Reads still go through CacheEntry.Fresh; Sweep
// only reclaims memory.
type SearchCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
	now     func() time.Time
}

var _ domain.SearchCache = (*SearchCache)(nil)

func NewSearchCache() *SearchCache {
	return &SearchCache{entries: make(map[string]domain.CacheEntry), now: time.Now}
}

func (c *SearchCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (c *SearchCache) Put(_ context.Context, key string, entry domain.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

// Sweep drops entries that are no longer fresh.
func (c *SearchCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !e.Fresh(now) {
			delete(c.entries, k)
		}
	}
}

// StartSweeper runs Sweep on interval until ctx is cancelled.
func (c *SearchCache) StartSweeper(ctx context.Context, interval time.Duration) {
	runSweeper(ctx, interval, c.Sweep)
}
