package postgres

import (
	"context"
	"errors"
	"fmt"

	"resumeai-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, email, tier, is_pro, stripe_customer_id, stripe_subscription_id, inbox_alias, updated_at`

func (r *profileRepo) scanOne(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	var email *string
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &email, &p.Tier, &p.IsPro, &p.StripeCustomerID, &p.StripeSubscriptionID, &p.InboxAlias, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if email != nil {
		p.Email = *email
	}
	return &p, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.scanOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *profileRepo) GetByStripeCustomer(ctx context.Context, customerID string) (*domain.Profile, error) {
	return r.scanOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE stripe_customer_id = $1`, customerID)
}

func (r *profileRepo) GetByInboxAlias(ctx context.Context, alias string) (*domain.Profile, error) {
	return r.scanOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(inbox_alias) = lower($1)`, alias)
}

// ApplySubscription writes the tier and provider ids. When UserID is empty the row is
// located by customer id instead.
func (r *profileRepo) ApplySubscription(ctx context.Context, upd domain.SubscriptionUpdate) error {
	isPro := upd.Tier.IsPaid()

	var (
		query string
		args  []any
	)
	if upd.UserID != "" {
		query = `
			INSERT INTO profiles (id, tier, is_pro, stripe_customer_id, stripe_subscription_id, updated_at)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NOW())
			ON CONFLICT (id) DO UPDATE SET
				tier = EXCLUDED.tier,
				is_pro = EXCLUDED.is_pro,
				stripe_customer_id = COALESCE(EXCLUDED.stripe_customer_id, profiles.stripe_customer_id),
				stripe_subscription_id = COALESCE(EXCLUDED.stripe_subscription_id, profiles.stripe_subscription_id),
				updated_at = NOW()`
		args = []any{upd.UserID, string(upd.Tier), isPro, upd.CustomerID, upd.SubscriptionID}
	} else {
		if upd.CustomerID == "" {
			return fmt.Errorf("apply subscription: %w: no user or customer id", domain.ErrInvalidInput)
		}
		query = `
			UPDATE profiles SET
				tier = $2,
				is_pro = $3,
				stripe_subscription_id = COALESCE(NULLIF($4, ''), stripe_subscription_id),
				updated_at = NOW()
			WHERE stripe_customer_id = $1`
		args = []any{upd.CustomerID, string(upd.Tier), isPro, upd.SubscriptionID}
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
