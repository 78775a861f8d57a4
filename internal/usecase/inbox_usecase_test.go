package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"resumeai-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClassifyInboxEmail(t *testing.T) {
	cases := []struct {
		subject, body, want string
	}{
		{"Your offer letter", "We are pleased to offer you the role", domain.InboxOffer},
		{"Update on your application", "Unfortunately we are not moving forward", domain.InboxRejection},
		{"Interview invitation", "Please share your availability", domain.InboxInterview},
		{"Thanks for applying", "We received your application", domain.InboxApplication},
		{"Newsletter", "Top 10 tips", domain.InboxOther},
		// Offer outranks the interview mention.
		{"Offer", "After your interview we would like to extend an offer", domain.InboxOffer},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyInboxEmail(tc.subject, tc.body), tc.subject)
	}
}

func TestInboxReceiveRoutesByAlias(t *testing.T) {
	profiles := new(MockProfileRepo)
	inbox := new(MockInboxRepo)
	profiles.On("GetByInboxAlias", mock.Anything, "other").Return(nil, domain.ErrNotFound)
	profiles.On("GetByInboxAlias", mock.Anything, "jane").Return(&domain.Profile{ID: "user-1"}, nil)
	inbox.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.InboxMessage) bool {
		return m.UserID == "user-1" && m.Category == domain.InboxInterview && m.Subject == "Interview"
	})).Return(nil)

	uc := NewInboxUsecase(profiles, inbox, "Inbox.Example.com").(*inboxUsecase)
	uc.now = func() time.Time { return fixedDay }

	ok, err := uc.Receive(context.Background(), domain.InboundEmail{
		To:      []string{"Other <other@inbox.example.com>, Jane <Jane+jobs@inbox.example.com>", "x@elsewhere.com"},
		From:    "recruiter@corp.com",
		Subject: "Interview",
		Text:    "Can we schedule a call?",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	inbox.AssertExpectations(t)
}

func TestInboxReceiveUnroutable(t *testing.T) {
	profiles := new(MockProfileRepo)
	inbox := new(MockInboxRepo)
	uc := NewInboxUsecase(profiles, inbox, "inbox.example.com")

	ok, err := uc.Receive(context.Background(), domain.InboundEmail{To: []string{"someone@elsewhere.com"}})
	require.NoError(t, err)
	assert.False(t, ok)
	inbox.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInboxReceiveLookupError(t *testing.T) {
	profiles := new(MockProfileRepo)
	profiles.On("GetByInboxAlias", mock.Anything, "jane").Return(nil, errors.New("db down"))
	uc := NewInboxUsecase(profiles, new(MockInboxRepo), "inbox.example.com")

	_, err := uc.Receive(context.Background(), domain.InboundEmail{To: []string{"jane@inbox.example.com"}})
	assert.Error(t, err)
}

func TestInboxListClampsLimit(t *testing.T) {
	inbox := new(MockInboxRepo)
	inbox.On("ListByUser", mock.Anything, "user-1", 50).Return([]domain.InboxMessage{}, nil)
	inbox.On("ListByUser", mock.Anything, "user-1", 100).Return([]domain.InboxMessage{{ID: "m"}}, nil)
	uc := NewInboxUsecase(nil, inbox, "inbox.example.com")
	id := domain.Identity{UserID: "user-1", Tier: domain.TierPro}

	msgs, err := uc.List(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = uc.List(context.Background(), id, 500)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = uc.List(context.Background(), domain.Anonymous(), 10)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
