package usecase

import (
	"context"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/billing"
	"resumeai-backend/pkg/email"
	"resumeai-backend/pkg/llm"

	"github.com/stretchr/testify/mock"
)

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) Model() string { return "mock" }

type MockUsageStore struct {
	mock.Mock
}

func (m *MockUsageStore) Get(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockUsageStore) Set(ctx context.Context, key string, count int, ttl time.Duration) error {
	return m.Called(ctx, key, count, ttl).Error(0)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByStripeCustomer(ctx context.Context, customerID string) (*domain.Profile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByInboxAlias(ctx context.Context, alias string) (*domain.Profile, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) ApplySubscription(ctx context.Context, upd domain.SubscriptionUpdate) error {
	return m.Called(ctx, upd).Error(0)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Upsert(ctx context.Context, userID string, profile domain.ResumeProfile) error {
	return m.Called(ctx, userID, profile).Error(0)
}

func (m *MockResumeRepo) GetByUserID(ctx context.Context, userID string) (*domain.StoredResumeProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredResumeProfile), args.Error(1)
}

type MockInboxRepo struct {
	mock.Mock
}

func (m *MockInboxRepo) Create(ctx context.Context, msg *domain.InboxMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockInboxRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.InboxMessage, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InboxMessage), args.Error(1)
}

type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) ListActive(ctx context.Context) ([]domain.JobAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobAlert), args.Error(1)
}

func (m *MockAlertRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) Send(msg email.Message) error {
	return m.Called(msg).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, bearer string) (string, string, error) {
	args := m.Called(ctx, bearer)
	return args.String(0), args.String(1), args.Error(2)
}

func strPtr(s string) *string { return &s }

func freeCaller(fp string) domain.Caller {
	return domain.Caller{Identity: domain.Anonymous(), Fingerprint: fp}
}
