package domain

import "context"

// Plan is a purchasable subscription.
type Plan string

const (
	PlanPro Plan = "pro"
	PlanMax Plan = "max"
)

// Tier returns the tier a plan grants.
func (p Plan) Tier() Tier {
	if p == PlanMax {
		return TierMax
	}
	return TierPro
}

type CreateCheckoutRequest struct {
	Plan string `json:"plan" binding:"omitempty,oneof=pro max"`
}

type CreateCheckoutResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type PortalSessionResponse struct {
	URL string `json:"url"`
}

type BillingUsecase interface {
	CreateCheckout(ctx context.Context, identity Identity, plan Plan) (*CreateCheckoutResponse, error)
	CreatePortalSession(ctx context.Context, identity Identity) (*PortalSessionResponse, error)
	// HandleWebhook verifies and applies a payment-provider event.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}
