package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"resumeai-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type searchCacheRepo struct {
	db *pgxpool.Pool
}

// NewSearchCache stores job search results in job_search_cache.
func NewSearchCache(db *pgxpool.Pool) domain.SearchCache {
	return &searchCacheRepo{db: db}
}

func (r *searchCacheRepo) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	var jobs []byte
	err := r.db.QueryRow(ctx,
		`SELECT jobs, total_results, expires_at FROM job_search_cache WHERE cache_key = $1`, key,
	).Scan(&jobs, &entry.TotalResults, &entry.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(jobs, &entry.Jobs); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *searchCacheRepo) Put(ctx context.Context, key string, entry domain.CacheEntry) error {
	jobs, err := json.Marshal(entry.Jobs)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO job_search_cache (cache_key, jobs, total_results, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			jobs = EXCLUDED.jobs,
			total_results = EXCLUDED.total_results,
			expires_at = EXCLUDED.expires_at`
	_, err = r.db.Exec(ctx, query, key, string(jobs), entry.TotalResults, entry.ExpiresAt)
	return err
}
