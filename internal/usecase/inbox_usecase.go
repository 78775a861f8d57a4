package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
)

const (
	maxInboxBody  = 100_000
	maxInboxList  = 100
	defaultInboxN = 50
)

// inboxRules are checked in order; the first category with a matching phrase wins.
var inboxRules = []struct {
	category string
	phrases  []string
}{
	{domain.InboxOffer, []string{"offer letter", "pleased to offer", "job offer", "extend an offer", "compensation package"}},
	{domain.InboxRejection, []string{"unfortunately", "not moving forward", "not be moving forward", "other candidates", "decided to pursue", "position has been filled", "regret to inform"}},
	{domain.InboxInterview, []string{"interview", "schedule a call", "phone screen", "availability", "calendly", "meet with"}},
	{domain.InboxApplication, []string{"application received", "thank you for applying", "thanks for applying", "received your application", "application has been submitted"}},
}

// ClassifyInboxEmail assigns a category from subject and body keywords.
func ClassifyInboxEmail(subject, body string) string {
	text := strings.ToLower(subject + "\n" + body)
	for _, rule := range inboxRules {
		for _, p := range rule.phrases {
			if strings.Contains(text, p) {
				return rule.category
			}
		}
	}
	return domain.InboxOther
}

type inboxUsecase struct {
	profiles   domain.ProfileRepository
	inbox      domain.InboxRepository
	mailDomain string
	now        func() time.Time
}

func NewInboxUsecase(profiles domain.ProfileRepository, inbox domain.InboxRepository, inboxDomain string) domain.InboxUsecase {
	return &inboxUsecase{
		profiles:   profiles,
		inbox:      inbox,
		mailDomain: strings.ToLower(strings.TrimSpace(inboxDomain)),
		now:        time.Now,
	}
}

// aliases returns the local parts of recipients at the inbox domain.
func (u *inboxUsecase) aliases(to []string) []string {
	var out []string
	for _, raw := range to {
		addrs, err := mail.ParseAddressList(raw)
		if err != nil {
			addrs = nil
			for _, part := range strings.Split(raw, ",") {
				if p := strings.TrimSpace(part); p != "" {
					addrs = append(addrs, &mail.Address{Address: p})
				}
			}
		}
		for _, a := range addrs {
			at := strings.LastIndex(a.Address, "@")
			if at <= 0 {
				continue
			}
			if strings.ToLower(a.Address[at+1:]) != u.mailDomain {
				continue
			}
			local := strings.ToLower(a.Address[:at])
			if i := strings.Index(local, "+"); i > 0 {
				local = local[:i]
			}
			out = append(out, local)
		}
	}
	return out
}

func (u *inboxUsecase) Receive(ctx context.Context, email domain.InboundEmail) (bool, error) {
	if u.profiles == nil || u.inbox == nil {
		return false, domain.ErrNotConfigured
	}

	var profile *domain.Profile
	for _, alias := range u.aliases(email.To) {
		p, err := u.profiles.GetByInboxAlias(ctx, alias)
		if err == nil {
			profile = p
			break
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
	}
	if profile == nil {
		security.DefaultLogger().Log(ctx, security.SecurityEvent{
			Event:   security.EventInboundEmailUnroutable,
			Details: map[string]any{"recipients": len(email.To)},
		})
		return false, nil
	}

	body := capText(email.Text, maxInboxBody)
	msg := &domain.InboxMessage{
		UserID:      profile.ID,
		FromAddress: capText(email.From, 320),
		Subject:     capText(email.Subject, 500),
		BodyText:    body,
		BodyHTML:    capText(email.HTML, maxInboxBody),
		Category:    ClassifyInboxEmail(email.Subject, body),
		ReceivedAt:  u.now().UTC(),
	}
	if err := u.inbox.Create(ctx, msg); err != nil {
		return false, err
	}
	logger.Log.Info("Inbound email stored", "category", msg.Category, "user", security.HashValue(profile.ID))
	return true, nil
}

func (u *inboxUsecase) List(ctx context.Context, identity domain.Identity, limit int) ([]domain.InboxMessage, error) {
	if !identity.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if u.inbox == nil {
		return nil, domain.ErrNotConfigured
	}
	if limit <= 0 {
		limit = defaultInboxN
	}
	if limit > maxInboxList {
		limit = maxInboxList
	}
	return u.inbox.ListByUser(ctx, identity.UserID, limit)
}
