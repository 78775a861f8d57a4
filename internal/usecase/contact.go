package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/email"
)

// Mailer is the outbound email capability the usecases need.
type Mailer interface {
	IsConfigured() bool
	Send(msg email.Message) error
}

type emailUsecase struct {
	mailer Mailer
}

// NewEmailUsecase creates the outbound email usecase
func NewEmailUsecase(mailer Mailer) domain.EmailUsecase {
	return &emailUsecase{mailer: mailer}
}

// SendUserEmail sends a message on behalf of the caller. Replies go to the caller.
func (uc *emailUsecase) SendUserEmail(ctx context.Context, identity domain.Identity, req *domain.SendEmailRequest) error {
	if !identity.Authenticated() {
		return ErrUnauthenticated
	}
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		return domain.NewInputError("to, subject and body are required")
	}

	if uc.mailer == nil || !uc.mailer.IsConfigured() {
		return domain.ErrNotConfigured
	}

	html, err := email.RenderUserMessage(email.UserMessageData{
		SenderEmail: identity.Email,
		Body:        strings.TrimSpace(req.Body),
	})
	if err != nil {
		return err
	}

	msg := email.Message{
		To:      strings.TrimSpace(req.To),
		ReplyTo: identity.Email,
		Subject: strings.TrimSpace(req.Subject),
		HTML:    html,
	}
	if err := uc.mailer.Send(msg); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return domain.ErrNotConfigured
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return nil
}
