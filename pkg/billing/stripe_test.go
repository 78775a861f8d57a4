package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventCheckoutCompleted(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{
		"id":"cs_1","object":"checkout.session","client_reference_id":"user-1","customer":"cus_1",
		"subscription":"sub_1","status":"complete","metadata":{"plan":"max"},
		"customer_details":{"email":"a@b.com"}}}}`)

	ev, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, "cus_1", ev.CustomerID)
	assert.Equal(t, "sub_1", ev.SubscriptionID)
	assert.Equal(t, "max", ev.Plan)
	assert.Equal(t, "a@b.com", ev.CustomerEmail)
	assert.True(t, ev.Active)
}

func TestParseEventSubscription(t *testing.T) {
	payload := []byte(`{"id":"evt_2","object":"event","type":"customer.subscription.updated","data":{"object":{
		"id":"sub_1","object":"subscription","customer":"cus_1","status":"past_due",
		"items":{"object":"list","data":[{"id":"si_1","object":"subscription_item","price":{"id":"price_pro","object":"price"}}]}}}}`)

	ev, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "price_pro", ev.PriceID)
	assert.Equal(t, "cus_1", ev.CustomerID)
	assert.False(t, ev.Active)
}

func TestParseEventUnknownType(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"id":"evt_3","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", ev.Type)
	assert.Empty(t, ev.UserID)
}

func TestParseEventMalformed(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestGatewayNotConfigured(t *testing.T) {
	var g *StripeGateway = NewStripeGateway("")
	_, err := g.CreateCheckoutSession(context.Background(), CheckoutParams{PriceID: "p"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = g.CreatePortalSession(context.Background(), "cus", "https://x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
