package domain

import (
	"context"
	"time"
)

// Profile is the application-owned row next to the identity provider's user.
type Profile struct {
	ID                   string    `json:"id"` // Supabase UUID
	Email                string    `json:"email"`
	Tier                 *string   `json:"tier"`
	IsPro                bool      `json:"is_pro"`
	StripeCustomerID     *string   `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `json:"stripe_subscription_id,omitempty"`
	InboxAlias           *string   `json:"inbox_alias,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// EffectiveTier applies the legacy is_pro fallback when no explicit tier is set.
func (p *Profile) EffectiveTier() Tier {
	if p == nil {
		return TierFree
	}
	if p.Tier != nil && *p.Tier != "" {
		return ParseTier(*p.Tier)
	}
	if p.IsPro {
		return TierPro
	}
	return TierFree
}

// SubscriptionUpdate is applied to a profile when the payment provider reports a change.
type SubscriptionUpdate struct {
	UserID         string
	CustomerID     string
	SubscriptionID string
	Tier           Tier
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByStripeCustomer(ctx context.Context, customerID string) (*Profile, error)
	GetByInboxAlias(ctx context.Context, alias string) (*Profile, error)
	ApplySubscription(ctx context.Context, upd SubscriptionUpdate) error
}

// IdentityVerifier exchanges a bearer credential for the user it belongs to.
type IdentityVerifier interface {
	Verify(ctx context.Context, bearer string) (userID, email string, err error)
}

// TierResolver turns an optional bearer credential into a request Identity.
type TierResolver interface {
	// Resolve never fails: every error degrades to the anonymous free identity.
	Resolve(ctx context.Context, bearer string) Identity
	// Authenticate is the strict variant for endpoints that require a user.
	Authenticate(ctx context.Context, bearer string) (Identity, error)
}
