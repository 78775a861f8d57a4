// Package billing wraps the payment provider.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("billing: payment system not configured")

// CheckoutParams describes one embedded subscription checkout.
type CheckoutParams struct {
	PriceID       string
	Plan          string
	UserID        string
	CustomerID    string
	CustomerEmail string
	ReturnURL     string
}

// Gateway is the subset of the payment provider the app uses.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// StripeGateway implements Gateway with stripe-go.
type StripeGateway struct {
	api *client.API
}

var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway returns nil when no secret key is configured.
func NewStripeGateway(secretKey string) *StripeGateway {
	if secretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateCheckoutSession starts an embedded checkout and returns its client secret.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	if g == nil || g.api == nil || p.PriceID == "" {
		return "", ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		UIMode:    stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:      stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ReturnURL: stripe.String(p.ReturnURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(p.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"plan": p.Plan, "user_id": p.UserID},
		},
	}
	params.Context = ctx
	params.AddMetadata("plan", p.Plan)
	if p.UserID != "" {
		params.ClientReferenceID = stripe.String(p.UserID)
		params.AddMetadata("user_id", p.UserID)
	}
	switch {
	case p.CustomerID != "":
		params.Customer = stripe.String(p.CustomerID)
	case p.CustomerEmail != "":
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.ClientSecret, nil
}

// CreatePortalSession returns the URL of a self-service billing portal session.
func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if g == nil || g.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return s.URL, nil
}

// Event types the app acts on.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event is the provider-neutral digest of a webhook event.
type Event struct {
	ID             string
	Type           string
	UserID         string
	CustomerID     string
	CustomerEmail  string
	SubscriptionID string
	PriceID        string
	Plan           string
	// Active is true for active or trialing subscriptions.
	Active bool
}

// ParseEvent decodes an already-verified webhook payload. Unknown event types decode
// with only ID and Type set.
func ParseEvent(payload []byte) (*Event, error) {
	var raw stripe.Event
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	ev := &Event{ID: raw.ID, Type: string(raw.Type)}
	if raw.Data == nil {
		return ev, nil
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(raw.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		ev.UserID = s.ClientReferenceID
		if ev.UserID == "" {
			ev.UserID = s.Metadata["user_id"]
		}
		ev.Plan = s.Metadata["plan"]
		if s.Customer != nil {
			ev.CustomerID = s.Customer.ID
		}
		if s.CustomerDetails != nil {
			ev.CustomerEmail = s.CustomerDetails.Email
		}
		if s.Subscription != nil {
			ev.SubscriptionID = s.Subscription.ID
		}
		ev.Active = s.Status == stripe.CheckoutSessionStatusComplete

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(raw.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		ev.SubscriptionID = sub.ID
		ev.UserID = sub.Metadata["user_id"]
		ev.Plan = sub.Metadata["plan"]
		if sub.Customer != nil {
			ev.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			ev.PriceID = sub.Items.Data[0].Price.ID
		}
		ev.Active = ev.Type == EventSubscriptionUpdated &&
			(sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing)
	}
	return ev, nil
}
