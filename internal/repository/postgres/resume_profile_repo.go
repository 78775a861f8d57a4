package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"resumeai-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resumeProfileRepo struct {
	db *pgxpool.Pool
}

func NewResumeProfileRepository(db *pgxpool.Pool) domain.ResumeProfileRepository {
	return &resumeProfileRepo{db: db}
}

func (r *resumeProfileRepo) Upsert(ctx context.Context, userID string, profile domain.ResumeProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO resume_profiles (user_id, profile, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()`
	_, err = r.db.Exec(ctx, query, userID, string(data))
	return err
}

func (r *resumeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.StoredResumeProfile, error) {
	var stored domain.StoredResumeProfile
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT user_id, profile, updated_at FROM resume_profiles WHERE user_id = $1`, userID,
	).Scan(&stored.UserID, &data, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &stored.Profile); err != nil {
		return nil, err
	}
	stored.Profile.Normalize()
	return &stored, nil
}
