package usecase

import (
	"context"
	"sync"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"
)

// jobFinder serves searches cache-first. It is shared by the HTTP search and the digest.
type jobFinder struct {
	searcher domain.JobSearcher
	cache    domain.SearchCache
	now      func() time.Time
}

func newJobFinder(searcher domain.JobSearcher, cache domain.SearchCache) *jobFinder {
	return &jobFinder{searcher: searcher, cache: cache, now: time.Now}
}

func (f *jobFinder) lookup(ctx context.Context, key string) *domain.CacheEntry {
	if f.cache == nil {
		return nil
	}
	entry, err := f.cache.Get(ctx, key)
	if err != nil {
		logger.Log.Warn("Search cache read failed", "error", err)
		return nil
	}
	if !entry.Fresh(f.now()) {
		return nil
	}
	return entry
}

func (f *jobFinder) fetch(ctx context.Context, q domain.SearchQuery, key string) (*domain.SearchResult, error) {
	if f.searcher == nil {
		return nil, domain.ErrNotConfigured
	}
	result, err := f.searcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		entry := domain.CacheEntry{
			Jobs:         result.Jobs,
			TotalResults: result.TotalResults,
			ExpiresAt:    f.now().Add(domain.SearchCacheTTL),
		}
		if err := f.cache.Put(ctx, key, entry); err != nil {
			logger.Log.Warn("Search cache write failed", "error", err)
		}
	}
	return result, nil
}

// find returns the jobs for q and whether they came from the cache.
func (f *jobFinder) find(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, bool, error) {
	key := q.CacheKey()
	if entry := f.lookup(ctx, key); entry != nil {
		return &domain.SearchResult{Jobs: entry.Jobs, TotalResults: entry.TotalResults}, true, nil
	}
	result, err := f.fetch(ctx, q, key)
	return result, false, err
}

type jobSearchUsecase struct {
	finder  *jobFinder
	limiter *RateLimiter
}

func NewJobSearchUsecase(searcher domain.JobSearcher, cache domain.SearchCache, limiter *RateLimiter) domain.JobSearchUsecase {
	return &jobSearchUsecase{finder: newJobFinder(searcher, cache), limiter: limiter}
}

func (u *jobSearchUsecase) Search(ctx context.Context, caller domain.Caller, req domain.SearchJobsRequest) (*domain.SearchJobsResponse, error) {
	q := domain.SearchQuery{
		Query:    capText(req.Query, 200),
		Location: capText(req.Location, 200),
		Remote:   req.Remote,
		Page:     req.Page,
	}
	if q.Query == "" {
		return nil, domain.NewInputError("Search query is required")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	key := q.CacheKey()

	// Quota and cache are independent reads.
	var (
		wg       sync.WaitGroup
		res      *Reservation
		limitErr error
		entry    *domain.CacheEntry
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		res, limitErr = u.limiter.Check(ctx, domain.FeatureSearchJobs, caller)
	}()
	go func() {
		defer wg.Done()
		entry = u.finder.lookup(ctx, key)
	}()
	wg.Wait()
	if limitErr != nil {
		return nil, limitErr
	}

	var (
		jobs   []domain.Job
		total  int
		cached bool
	)
	if entry != nil {
		jobs, total, cached = entry.Jobs, entry.TotalResults, true
	} else {
		result, err := u.finder.fetch(ctx, q, key)
		if err != nil {
			return nil, err
		}
		jobs, total = result.Jobs, result.TotalResults
	}

	profile := newMatchProfile(q.Query, q.Location, q.Remote, req.Skills, capText(req.ResumeText, capResume))
	scored := scoreJobs(jobs, profile)
	if scored == nil {
		scored = []domain.Job{}
	}

	return &domain.SearchJobsResponse{
		Jobs:         scored,
		TotalResults: total,
		Remaining:    res.Commit(ctx),
		Cached:       cached,
	}, nil
}

