package usecase

import (
	"context"
	"errors"
	"fmt"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/billing"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
	"resumeai-backend/pkg/webhook"
)

// BillingConfig carries the price ids and URLs checkout needs.
type BillingConfig struct {
	PricePro      string
	PriceMax      string
	AppURL        string
	WebhookSecret string
}

func (c BillingConfig) priceFor(plan domain.Plan) string {
	if plan == domain.PlanMax {
		return c.PriceMax
	}
	return c.PricePro
}

func (c BillingConfig) tierForPrice(priceID string) (domain.Tier, bool) {
	switch {
	case priceID == "":
		return domain.TierFree, false
	case priceID == c.PriceMax:
		return domain.TierMax, true
	case priceID == c.PricePro:
		return domain.TierPro, true
	}
	return domain.TierFree, false
}

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

type billingUsecase struct {
	gateway  billing.Gateway
	profiles domain.ProfileRepository
	cfg      BillingConfig
	verifier webhook.Verifier
}

func NewBillingUsecase(gateway billing.Gateway, profiles domain.ProfileRepository, cfg BillingConfig) domain.BillingUsecase {
	uc := &billingUsecase{gateway: gateway, profiles: profiles, cfg: cfg}
	uc.verifier = webhook.Verifier{
		Secret: cfg.WebhookSecret,
		OnUnverified: func() {
			logger.Log.Warn("unsafe: webhook signature verification disabled", "source", "stripe")
			security.DefaultLogger().LogWebhookUnverified(context.Background(), "stripe")
		},
	}
	return uc
}

func (u *billingUsecase) CreateCheckout(ctx context.Context, identity domain.Identity, plan domain.Plan) (*domain.CreateCheckoutResponse, error) {
	if plan == "" {
		plan = domain.PlanPro
	}
	priceID := u.cfg.priceFor(plan)
	if u.gateway == nil || priceID == "" {
		return nil, domain.ErrNotConfigured
	}

	params := billing.CheckoutParams{
		PriceID:       priceID,
		Plan:          string(plan),
		UserID:        identity.UserID,
		CustomerEmail: identity.Email,
		ReturnURL:     u.cfg.AppURL + "/billing/return?session_id={CHECKOUT_SESSION_ID}",
	}
	if identity.Authenticated() && u.profiles != nil {
		if p, err := u.profiles.GetByID(ctx, identity.UserID); err == nil && p.StripeCustomerID != nil {
			params.CustomerID = *p.StripeCustomerID
		}
	}

	secret, err := u.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		if errors.Is(err, billing.ErrNotConfigured) {
			return nil, domain.ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return &domain.CreateCheckoutResponse{ClientSecret: secret}, nil
}

func (u *billingUsecase) CreatePortalSession(ctx context.Context, identity domain.Identity) (*domain.PortalSessionResponse, error) {
	if !identity.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if u.gateway == nil || u.profiles == nil {
		return nil, domain.ErrNotConfigured
	}

	profile, err := u.profiles.GetByID(ctx, identity.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if profile == nil || profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		return nil, domain.ErrNoBillingAccount
	}

	url, err := u.gateway.CreatePortalSession(ctx, *profile.StripeCustomerID, u.cfg.AppURL+"/settings")
	if err != nil {
		if errors.Is(err, billing.ErrNotConfigured) {
			return nil, domain.ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return &domain.PortalSessionResponse{URL: url}, nil
}

func (u *billingUsecase) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if ok, err := u.verifier.Valid(payload, signatureHeader); !ok {
		security.DefaultLogger().LogWebhookRejected(ctx, "stripe", err.Error())
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		return domain.NewInputError("Invalid event payload")
	}

	upd, ok := u.subscriptionUpdate(event)
	if !ok {
		logger.Log.Debug("Ignoring billing event", "type", event.Type, "id", event.ID)
		return nil
	}
	if u.profiles == nil {
		return domain.ErrNotConfigured
	}
	if err := u.profiles.ApplySubscription(ctx, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Log.Warn("Billing event for unknown profile", "type", event.Type, "id", event.ID)
			return nil
		}
		return err
	}

	security.DefaultLogger().Log(ctx, security.SecurityEvent{
		Event:        security.EventSubscriptionChanged,
		SubjectType:  "user_id",
		SubjectValue: security.HashValue(upd.UserID + upd.CustomerID),
		Details:      map[string]any{"event": event.Type, "tier": string(upd.Tier)},
	})
	return nil
}

// subscriptionUpdate maps an event to a profile change. ok is false for events that
// do not change a subscription.
func (u *billingUsecase) subscriptionUpdate(ev *billing.Event) (domain.SubscriptionUpdate, bool) {
	upd := domain.SubscriptionUpdate{
		UserID:         ev.UserID,
		CustomerID:     ev.CustomerID,
		SubscriptionID: ev.SubscriptionID,
		Tier:           domain.TierFree,
	}

	switch ev.Type {
	case billing.EventCheckoutCompleted:
		if ev.UserID == "" && ev.CustomerID == "" {
			return upd, false
		}
		upd.Tier = u.tierFromEvent(ev, domain.TierPro)
		return upd, true

	case billing.EventSubscriptionUpdated:
		if ev.Active {
			upd.Tier = u.tierFromEvent(ev, domain.TierPro)
		}
		return upd, upd.UserID != "" || upd.CustomerID != ""

	case billing.EventSubscriptionDeleted:
		upd.SubscriptionID = ""
		return upd, upd.UserID != "" || upd.CustomerID != ""
	}
	return upd, false
}

func (u *billingUsecase) tierFromEvent(ev *billing.Event, fallback domain.Tier) domain.Tier {
	if tier, ok := u.cfg.tierForPrice(ev.PriceID); ok {
		return tier
	}
	switch domain.Plan(ev.Plan) {
	case domain.PlanMax, domain.PlanPro:
		return domain.Plan(ev.Plan).Tier()
	}
	return fallback
}
