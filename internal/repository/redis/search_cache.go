package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resumeai-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const searchPrefix = "jobs:search:"

// SearchCache stores job search results as JSON values that expire with the entry.
type SearchCache struct {
	client *goredis.Client
	now    func() time.Time
}

var _ domain.SearchCache = (*SearchCache)(nil)

func NewSearchCache(client *goredis.Client) *SearchCache {
	return &SearchCache{client: client, now: time.Now}
}

func (c *SearchCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	raw, err := c.client.Get(ctx, searchPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis search cache get: %w", err)
	}
	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("redis search cache decode: %w", err)
	}
	return &entry, nil
}

func (c *SearchCache) Put(ctx context.Context, key string, entry domain.CacheEntry) error {
	ttl := entry.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, searchPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis search cache put: %w", err)
	}
	return nil
}
