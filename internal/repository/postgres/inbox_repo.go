package postgres

import (
	"context"
	"time"

	"resumeai-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type inboxRepo struct {
	db *pgxpool.Pool
}

func NewInboxRepository(db *pgxpool.Pool) domain.InboxRepository {
	return &inboxRepo{db: db}
}

func (r *inboxRepo) Create(ctx context.Context, msg *domain.InboxMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO inbox_emails (id, user_id, from_address, subject, body_text, body_html, category, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.UserID, msg.FromAddress, msg.Subject, msg.BodyText, msg.BodyHTML, msg.Category, msg.ReceivedAt,
	)
	return err
}

func (r *inboxRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.InboxMessage, error) {
	query := `
		SELECT id, user_id, from_address, subject, body_text, body_html, category, received_at
		FROM inbox_emails
		WHERE user_id = $1
		ORDER BY received_at DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.InboxMessage{}
	for rows.Next() {
		var m domain.InboxMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.FromAddress, &m.Subject, &m.BodyText, &m.BodyHTML, &m.Category, &m.ReceivedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
