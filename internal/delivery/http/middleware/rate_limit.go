package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/apperror"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/redis"
	"resumeai-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// BurstConfig is a fixed-window per-minute guard. It sits in front of the daily
// feature quotas and only stops floods.
type BurstConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	KeyFunc   func(*gin.Context) string
}

type burstEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

var (
	burstStore  = sync.Map{}
	cleanupOnce sync.Once
)

// KEYS[1] = counter key, ARGV[1] = window seconds. Returns {count, ttl}.
var burstScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			burstStore.Range(func(key, value any) bool {
				entry := value.(*burstEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					burstStore.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// DefaultBurstConfig keys by fingerprint, which Identity must have set.
func DefaultBurstConfig(limit int) BurstConfig {
	if limit <= 0 {
		limit = 60
	}
	return BurstConfig{
		Limit:     limit,
		Window:    time.Minute,
		KeyPrefix: "rl:burst:",
		KeyFunc: func(c *gin.Context) string {
			if fp := c.GetString(string(domain.KeyFingerprint)); fp != "" {
				return fp
			}
			return c.ClientIP()
		},
	}
}

// BurstLimit counts in Redis when it is connected and in process memory otherwise.
func BurstLimit(cfg BurstConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)
		now := time.Now()

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if client := redis.Client(); client != nil {
			count, resetAt, err = countRedis(c.Request.Context(), client, key, cfg.Window)
			if err != nil {
				logger.Log.Warn("Burst limiter falling back to memory", "error", err)
				count, resetAt = countInMemory(key, cfg.Window, now)
			}
		} else {
			count, resetAt = countInMemory(key, cfg.Window, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		if count > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			caller := CallerFrom(c)
			security.DefaultLogger().LogRateLimitTriggered(c.Request.Context(), caller.Fingerprint, c.GetString("RequestID"), "burst", string(caller.Tier))
			c.Error(apperror.RateLimited("Too many requests. Please slow down.", 0))
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-count))
		c.Next()
	}
}

func countRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	res, err := burstScript.Run(ctx, client, []string{key}, int(window.Seconds())).Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("burst eval: %w", err)
	}
	if len(res) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected burst result %v", res)
	}
	count, _ := res[0].(int64)
	ttl, _ := res[1].(int64)
	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

func countInMemory(key string, window time.Duration, now time.Time) (int, time.Time) {
	v, _ := burstStore.LoadOrStore(key, &burstEntry{resetAt: now.Add(window)})
	entry := v.(*burstEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count, entry.resetAt
}
