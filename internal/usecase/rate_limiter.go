package usecase

import (
	"context"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
)

// RateLimiter enforces the daily per-feature quotas. Admission reads the counter; the
// increment is deferred to Reservation.Commit so failed operations cost nothing.
type RateLimiter struct {
	store    domain.UsageStore
	fallback domain.UsageStore
	quotas   domain.QuotaTable
	now      func() time.Time
}

// NewRateLimiter takes the durable store and a process-local fallback used whenever
// the durable store errors. store may be nil.
func NewRateLimiter(store, fallback domain.UsageStore, quotas domain.QuotaTable) *RateLimiter {
	if quotas == nil {
		quotas = domain.DefaultQuotas
	}
	return &RateLimiter{store: store, fallback: fallback, quotas: quotas, now: time.Now}
}

// Reservation is an admitted request that has not been counted yet.
type Reservation struct {
	limiter *RateLimiter
	key     string
	quota   int
	count   int
	store   domain.UsageStore
}

// Remaining is the allowance left if the reservation is committed.
func (r *Reservation) Remaining() int {
	return clampRemaining(r.quota - r.count - 1)
}

// Check admits or rejects one use of feature. A rejection is a *domain.LimitError and
// leaves the counter untouched.
func (l *RateLimiter) Check(ctx context.Context, feature domain.Feature, caller domain.Caller) (*Reservation, error) {
	tier := caller.Tier
	quota := l.quotas.Quota(feature, tier)
	key := domain.UsageKey(feature, caller.Fingerprint, l.now())

	store := l.primary()
	if store == nil {
		return &Reservation{limiter: l, key: key, quota: quota}, nil
	}
	count, err := store.Get(ctx, key)
	if err != nil && store != l.fallback && l.fallback != nil {
		logStoreFailure(ctx, "get", err)
		store = l.fallback
		count, err = store.Get(ctx, key)
	}
	if err != nil {
		// Nothing left to read from: admit rather than block the feature.
		logStoreFailure(ctx, "get", err)
		count = 0
	}

	if count >= quota && quota < domain.Unlimited {
		security.DefaultLogger().LogRateLimitTriggered(ctx, caller.Fingerprint, RequestIDFrom(ctx), string(feature), string(tier))
		return nil, &domain.LimitError{Feature: feature, Tier: tier, Remaining: 0}
	}

	return &Reservation{limiter: l, key: key, quota: quota, count: count, store: store}, nil
}

// Commit counts the reservation and returns the remaining allowance. Store errors are
// logged and do not fail the request that already succeeded.
func (r *Reservation) Commit(ctx context.Context) int {
	if r == nil {
		return 0
	}
	if r.store == nil {
		return clampRemaining(r.quota - r.count - 1)
	}
	next, err := r.increment(ctx, r.store)
	if err != nil && r.store != r.limiter.fallback && r.limiter.fallback != nil {
		logStoreFailure(ctx, "commit", err)
		next, err = r.increment(ctx, r.limiter.fallback)
	}
	if err != nil {
		logStoreFailure(ctx, "commit", err)
		next = r.count + 1
	}
	return clampRemaining(r.quota - next)
}

func (r *Reservation) increment(ctx context.Context, store domain.UsageStore) (int, error) {
	if counter, ok := store.(domain.AtomicCounter); ok {
		return counter.Increment(ctx, r.key, domain.UsageKeyTTL)
	}
	next := r.count + 1
	return next, store.Set(ctx, r.key, next, domain.UsageKeyTTL)
}

func (l *RateLimiter) primary() domain.UsageStore {
	if l.store != nil {
		return l.store
	}
	return l.fallback
}

func clampRemaining(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func logStoreFailure(ctx context.Context, op string, err error) {
	logger.Log.Warn("Usage store unavailable, using fallback", "op", op, "error", err)
	security.DefaultLogger().Log(ctx, security.SecurityEvent{
		Event:   security.EventUsageStoreUnavailable,
		Details: map[string]any{"op": op, "error": err.Error()},
	})
}

// RequestIDFrom returns the request id the HTTP layer stored on ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
