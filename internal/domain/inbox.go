package domain

import (
	"context"
	"time"
)

// Inbox categories assigned on arrival.
const (
	InboxInterview   = "interview"
	InboxOffer       = "offer"
	InboxRejection   = "rejection"
	InboxApplication = "application"
	InboxOther       = "other"
)

// InboundEmail is the provider-neutral form of an inbound email webhook.
type InboundEmail struct {
	To      []string
	From    string
	Subject string
	Text    string
	HTML    string
}

// InboxMessage is an inbound email routed to a user's career inbox.
type InboxMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	FromAddress string    `json:"from"`
	Subject     string    `json:"subject"`
	BodyText    string    `json:"bodyText"`
	BodyHTML    string    `json:"bodyHtml,omitempty"`
	Category    string    `json:"category"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

type InboxRepository interface {
	Create(ctx context.Context, msg *InboxMessage) error
	ListByUser(ctx context.Context, userID string, limit int) ([]InboxMessage, error)
}

type InboxUsecase interface {
	// Receive routes an inbound email. It reports whether a recipient matched.
	Receive(ctx context.Context, email InboundEmail) (bool, error)
	List(ctx context.Context, identity Identity, limit int) ([]InboxMessage, error)
}
