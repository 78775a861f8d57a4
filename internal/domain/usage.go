package domain

import (
	"context"
	"fmt"
	"time"
)

// Feature names a rate-limited capability.
type Feature string

const (
	FeatureATSScore      Feature = "ats-score"
	FeatureTailorResume  Feature = "tailor-resume"
	FeatureSearchJobs    Feature = "search-jobs"
	FeatureInterviewPrep Feature = "interview-prep"
)

// Unlimited is the quota sentinel for tiers without a practical daily cap.
const Unlimited = 1_000_000

// UsageKeyTTL keeps counters around a little longer than the day they describe.
// Keys are never read after their day; the TTL only reclaims storage.
const UsageKeyTTL = 48 * time.Hour

// TierQuota is the daily allowance of one feature for each tier.
type TierQuota struct {
	Free int
	Pro  int
	Max  int
}

// For returns the quota that applies to tier t.
func (q TierQuota) For(t Tier) int {
	switch t {
	case TierMax:
		return q.Max
	case TierPro:
		return q.Pro
	default:
		return q.Free
	}
}

// QuotaTable maps every rate-limited feature to its per-tier quota.
type QuotaTable map[Feature]TierQuota

// DefaultQuotas holds the production quota table.
var DefaultQuotas = QuotaTable{
	FeatureATSScore:      {Free: 1, Pro: 20, Max: Unlimited},
	FeatureTailorResume:  {Free: 1, Pro: 20, Max: Unlimited},
	FeatureSearchJobs:    {Free: 5, Pro: 50, Max: Unlimited},
	FeatureInterviewPrep: {Free: 2, Pro: 30, Max: Unlimited},
}

// Quota returns the daily quota for feature f at tier t. Unknown features get the
// free quota of zero, i.e. they are closed until listed.
func (qt QuotaTable) Quota(f Feature, t Tier) int {
	q, ok := qt[f]
	if !ok {
		return 0
	}
	return q.For(t)
}

// UsageKey builds the counter key feature:fingerprint:YYYY-MM-DD (UTC day).
func UsageKey(f Feature, fingerprint string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", f, fingerprint, day.UTC().Format("2006-01-02"))
}

// UsageStore is the narrow durable key-value contract the rate limiter needs.
// Get returns 0 for an absent key.
type UsageStore interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, count int, ttl time.Duration) error
}

// AtomicCounter is implemented by stores that can increment without a read-then-write
// race. The rate limiter prefers it for commits when available.
type AtomicCounter interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int, error)
}
