package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"resumeai-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageStoreGetSetIncrement(t *testing.T) {
	ctx := context.Background()
	s := NewUsageStore()

	n, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Set(ctx, "k", 3, time.Hour))
	n, _ = s.Get(ctx, "k")
	assert.Equal(t, 3, n)

	n, err = s.Increment(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestUsageStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewUsageStore()
	s.now = func() time.Time { return now }

	_, _ = s.Increment(ctx, "k", time.Minute)
	now = now.Add(time.Minute)

	n, _ := s.Get(ctx, "k")
	assert.Equal(t, 0, n)

	s.Sweep()
	assert.Empty(t, s.entries)
}

func TestUsageStoreConcurrentIncrement(t *testing.T) {
	ctx := context.Background()
	s := NewUsageStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Increment(ctx, "k", time.Hour)
		}()
	}
	wg.Wait()

	n, _ := s.Get(ctx, "k")
	assert.Equal(t, 50, n)
}

func TestSearchCacheMissAndHit(t *testing.T) {
	ctx := context.Background()
	c := NewSearchCache()

	e, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, e)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, c.Put(ctx, "k", domain.CacheEntry{TotalResults: 2, ExpiresAt: exp}))
	e, _ = c.Get(ctx, "k")
	require.NotNil(t, e)
	assert.Equal(t, 2, e.TotalResults)
	assert.True(t, e.Fresh(time.Now()))
}

func TestSearchCacheSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSearchCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "old", domain.CacheEntry{ExpiresAt: now}))
	require.NoError(t, c.Put(ctx, "new", domain.CacheEntry{ExpiresAt: now.Add(time.Hour)}))

	c.Sweep()
	e, _ := c.Get(ctx, "old")
	assert.Nil(t, e)
	e, _ = c.Get(ctx, "new")
	assert.NotNil(t, e)
}

func TestStartSweeperEvictsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	usage := NewUsageStore()
	_ = usage.Set(ctx, "k", 1, time.Millisecond)
	cache := NewSearchCache()
	_ = cache.Put(ctx, "k", domain.CacheEntry{ExpiresAt: time.Now().Add(time.Millisecond)})

	usage.StartSweeper(ctx, 5*time.Millisecond)
	cache.StartSweeper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		usage.mu.Lock()
		defer usage.mu.Unlock()
		return len(usage.entries) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		cache.mu.RLock()
		defer cache.mu.RUnlock()
		return len(cache.entries) == 0
	}, time.Second, 5*time.Millisecond)
}
