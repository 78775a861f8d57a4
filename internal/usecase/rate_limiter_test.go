package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedDay = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestLimiter(store, fallback domain.UsageStore) *RateLimiter {
	l := NewRateLimiter(store, fallback, domain.DefaultQuotas)
	l.now = func() time.Time { return fixedDay }
	return l
}

func TestRateLimiterRejectsWithoutCounting(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUsageStore()
	l := newTestLimiter(store, nil)
	caller := freeCaller("fp-1")

	res, err := l.Check(ctx, domain.FeatureATSScore, caller)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining())
	assert.Equal(t, 0, res.Commit(ctx))

	_, err = l.Check(ctx, domain.FeatureATSScore, caller)
	var limitErr *domain.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.True(t, errors.Is(err, domain.ErrLimitReached))
	assert.Equal(t, 0, limitErr.Remaining)

	count, _ := store.Get(ctx, domain.UsageKey(domain.FeatureATSScore, "fp-1", fixedDay))
	assert.Equal(t, 1, count)
}

func TestRateLimiterUncommittedReservationIsFree(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(memory.NewUsageStore(), nil)
	caller := freeCaller("fp-2")

	// A failed operation never commits.
	_, err := l.Check(ctx, domain.FeatureTailorResume, caller)
	require.NoError(t, err)

	res, err := l.Check(ctx, domain.FeatureTailorResume, caller)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Commit(ctx))
}

func TestRateLimiterCountsPerFingerprintAndDay(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(memory.NewUsageStore(), nil)

	res, err := l.Check(ctx, domain.FeatureATSScore, freeCaller("a"))
	require.NoError(t, err)
	res.Commit(ctx)

	_, err = l.Check(ctx, domain.FeatureATSScore, freeCaller("b"))
	assert.NoError(t, err)

	_, err = l.Check(ctx, domain.FeatureTailorResume, freeCaller("a"))
	assert.NoError(t, err)

	l.now = func() time.Time { return fixedDay.Add(24 * time.Hour) }
	_, err = l.Check(ctx, domain.FeatureATSScore, freeCaller("a"))
	assert.NoError(t, err)
}

func TestRateLimiterRemainingDecreases(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(memory.NewUsageStore(), nil)
	caller := freeCaller("fp-search")

	for want := 4; want >= 0; want-- {
		res, err := l.Check(ctx, domain.FeatureSearchJobs, caller)
		require.NoError(t, err)
		assert.Equal(t, want, res.Commit(ctx))
	}
	_, err := l.Check(ctx, domain.FeatureSearchJobs, caller)
	assert.ErrorIs(t, err, domain.ErrLimitReached)
}

func TestRateLimiterMaxTierIsUnlimited(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(memory.NewUsageStore(), nil)
	caller := domain.Caller{Identity: domain.Identity{UserID: "u", Tier: domain.TierMax}, Fingerprint: "fp-max"}

	for i := 0; i < 30; i++ {
		res, err := l.Check(ctx, domain.FeatureATSScore, caller)
		require.NoError(t, err)
		res.Commit(ctx)
	}
}

func TestQuotasAreMonotonicInTier(t *testing.T) {
	for feature, q := range domain.DefaultQuotas {
		assert.LessOrEqual(t, q.Free, q.Pro, feature)
		assert.LessOrEqual(t, q.Pro, q.Max, feature)
	}
}

func TestRateLimiterFallsBackWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	primary := new(MockUsageStore)
	primary.On("Get", mock.Anything, mock.Anything).Return(0, errors.New("connection refused"))
	fallback := memory.NewUsageStore()
	l := newTestLimiter(primary, fallback)
	caller := freeCaller("fp-3")

	res, err := l.Check(ctx, domain.FeatureATSScore, caller)
	require.NoError(t, err)
	res.Commit(ctx)

	count, _ := fallback.Get(ctx, domain.UsageKey(domain.FeatureATSScore, "fp-3", fixedDay))
	assert.Equal(t, 1, count)

	_, err = l.Check(ctx, domain.FeatureATSScore, caller)
	assert.ErrorIs(t, err, domain.ErrLimitReached)
	primary.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimiterFailsOpenWithoutStores(t *testing.T) {
	ctx := context.Background()
	broken := new(MockUsageStore)
	broken.On("Get", mock.Anything, mock.Anything).Return(0, errors.New("down"))
	broken.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("down"))
	l := newTestLimiter(broken, nil)

	res, err := l.Check(ctx, domain.FeatureATSScore, freeCaller("fp-4"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Commit(ctx))

	l = newTestLimiter(nil, nil)
	res, err = l.Check(ctx, domain.FeatureATSScore, freeCaller("fp-4"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Commit(ctx))
}
