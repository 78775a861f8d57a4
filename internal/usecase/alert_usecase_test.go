package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/repository/memory"
	"resumeai-backend/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func digestAlerts() []domain.JobAlert {
	recent := fixedDay.Add(-2 * time.Hour)
	return []domain.JobAlert{
		{ID: "a1", Email: "one@x.com", Query: "backend engineer", Keywords: []string{"python"}, Frequency: domain.AlertDaily, Active: true},
		{ID: "a2", Email: "two@x.com", Query: "designer", Frequency: domain.AlertDaily, Active: true, LastSentAt: &recent},
	}
}

func newAlertFixture(alerts *MockAlertRepo, mailer *MockMailer, searcher *MockSearcher) *alertUsecase {
	uc := NewAlertUsecase(alerts, searcher, memory.NewSearchCache(), mailer, "https://app.example.com").(*alertUsecase)
	uc.now = func() time.Time { return fixedDay }
	uc.finder.now = uc.now
	return uc
}

func TestRunDigestSendsDueAlerts(t *testing.T) {
	alerts := new(MockAlertRepo)
	alerts.On("ListActive", mock.Anything).Return(digestAlerts(), nil)
	alerts.On("MarkSent", mock.Anything, "a1", fixedDay).Return(nil)
	searcher := new(MockSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).Return(&domain.SearchResult{Jobs: sampleJobs()}, nil)
	mailer := new(MockMailer)
	mailer.On("IsConfigured").Return(true)
	mailer.On("Send", mock.MatchedBy(func(m email.Message) bool {
		return m.To == "one@x.com" && m.HTML != ""
	})).Return(nil)

	report, err := newAlertFixture(alerts, mailer, searcher).RunDigest(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, &domain.DigestReport{Scanned: 2, Due: 1, Sent: 1}, report)
	alerts.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestRunDigestDryRunSendsNothing(t *testing.T) {
	alerts := new(MockAlertRepo)
	alerts.On("ListActive", mock.Anything).Return(digestAlerts(), nil)
	searcher := new(MockSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).Return(&domain.SearchResult{Jobs: sampleJobs()}, nil)
	mailer := new(MockMailer)

	report, err := newAlertFixture(alerts, mailer, searcher).RunDigest(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Due)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Skipped)
	mailer.AssertNotCalled(t, "Send", mock.Anything)
	alerts.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunDigestCountsFailures(t *testing.T) {
	alerts := new(MockAlertRepo)
	alerts.On("ListActive", mock.Anything).Return(digestAlerts(), nil)
	searcher := new(MockSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstream)
	mailer := new(MockMailer)
	mailer.On("IsConfigured").Return(true)

	report, err := newAlertFixture(alerts, mailer, searcher).RunDigest(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Sent)
}

func TestRunDigestRequiresMailer(t *testing.T) {
	alerts := new(MockAlertRepo)
	mailer := new(MockMailer)
	mailer.On("IsConfigured").Return(false)

	_, err := newAlertFixture(alerts, mailer, new(MockSearcher)).RunDigest(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	alerts.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))
	_, err = newAlertFixture(alerts, mailer, new(MockSearcher)).RunDigest(context.Background(), true)
	assert.Error(t, err)
}

func TestJobAlertDue(t *testing.T) {
	last := fixedDay.Add(-23*time.Hour - 30*time.Minute)
	daily := domain.JobAlert{Active: true, Frequency: domain.AlertDaily, LastSentAt: &last}
	assert.True(t, daily.Due(fixedDay))

	weekly := daily
	weekly.Frequency = domain.AlertWeekly
	assert.False(t, weekly.Due(fixedDay))

	inactive := domain.JobAlert{Active: false}
	assert.False(t, inactive.Due(fixedDay))
}
