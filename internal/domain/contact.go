package domain

import "context"

// SendEmailRequest is an authenticated user's outbound message (e.g. a follow-up to a recruiter).
type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200,no_emoji"`
	Body    string `json:"body" binding:"required,max=20000"`
}

// EmailUsecase defines outbound email operations.
type EmailUsecase interface {
	// SendUserEmail validates and sends a message on behalf of the caller.
	SendUserEmail(ctx context.Context, identity Identity, req *SendEmailRequest) error
}
