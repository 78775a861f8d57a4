package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"resumeai-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the new count.
const incrementLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

const usagePrefix = "usage:"

// UsageStore keeps daily feature counters in Redis.
type UsageStore struct {
	client *goredis.Client
	incr   *goredis.Script
}

var (
	_ domain.UsageStore    = (*UsageStore)(nil)
	_ domain.AtomicCounter = (*UsageStore)(nil)
)

func NewUsageStore(client *goredis.Client) *UsageStore {
	return &UsageStore{client: client, incr: goredis.NewScript(incrementLuaScript)}
}

func (s *UsageStore) Get(ctx context.Context, key string) (int, error) {
	val, err := s.client.Get(ctx, usagePrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis usage get: %w", err)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("redis usage get: corrupt counter %q: %w", val, err)
	}
	return n, nil
}

func (s *UsageStore) Set(ctx context.Context, key string, count int, ttl time.Duration) error {
	if err := s.client.Set(ctx, usagePrefix+key, count, ttl).Err(); err != nil {
		return fmt.Errorf("redis usage set: %w", err)
	}
	return nil
}

// Increment adds one atomically and sets the TTL on first write.
func (s *UsageStore) Increment(ctx context.Context, key string, ttl time.Duration) (int, error) {
	n, err := s.incr.Run(ctx, s.client, []string{usagePrefix + key}, int(ttl.Seconds())).Int()
	if err != nil {
		return 0, fmt.Errorf("redis usage increment: %w", err)
	}
	return n, nil
}
