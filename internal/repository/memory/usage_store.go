// Package memory holds process-local stores used when Redis is unavailable and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"resumeai-backend/internal/domain"
)

type usageEntry struct {
	count     int
	expiresAt time.Time
}

// UsageStore is a mutex-guarded counter map. Counters do not survive restarts.
type UsageStore struct {
	mu      sync.Mutex
	entries map[string]usageEntry
	now     func() time.Time
}

var (
	_ domain.UsageStore    = (*UsageStore)(nil)
	_ domain.AtomicCounter = (*UsageStore)(nil)
)

func NewUsageStore() *UsageStore {
	return &UsageStore{entries: make(map[string]usageEntry), now: time.Now}
}

func (s *UsageStore) Get(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key).count, nil
}

func (s *UsageStore) Set(_ context.Context, key string, count int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = usageEntry{count: count, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *UsageStore) Increment(_ context.Context, key string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e.count == 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	e.count++
	s.entries[key] = e
	return e.count, nil
}

// Sweep drops expired counters.
func (s *UsageStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartSweeper runs Sweep on interval until ctx is cancelled.
func (s *UsageStore) StartSweeper(ctx context.Context, interval time.Duration) {
	runSweeper(ctx, interval, s.Sweep)
}

// live must be called with mu held.
func (s *UsageStore) live(key string) usageEntry {
	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return usageEntry{}
	}
	return e
}
