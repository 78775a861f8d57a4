package postgres

import (
	"context"
	"time"

	"resumeai-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type alertRepo struct {
	db *pgxpool.Pool
}

func NewJobAlertRepository(db *pgxpool.Pool) domain.JobAlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) ListActive(ctx context.Context) ([]domain.JobAlert, error) {
	query := `
		SELECT id, user_id, email, query, location, remote, keywords, frequency, last_sent_at, active
		FROM job_alerts
		WHERE active
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.JobAlert
	for rows.Next() {
		var a domain.JobAlert
		var keywords []string
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Email, &a.Query, &a.Location, &a.Remote,
			pq.Array(&keywords), &a.Frequency, &a.LastSentAt, &a.Active,
		); err != nil {
			return nil, err
		}
		a.Keywords = keywords
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *alertRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE job_alerts SET last_sent_at = $2 WHERE id = $1`, id, sentAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
