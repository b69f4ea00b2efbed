package service

import (
	"context"

	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/service/recaptcha"

	"github.com/stretchr/testify/mock"
)

type verifierMock struct {
	mock.Mock
}

func (m *verifierMock) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *verifierMock) Verify(ctx context.Context, token string, remoteIP string) recaptcha.Outcome {
	args := m.Called(ctx, token, remoteIP)
	return args.Get(0).(recaptcha.Outcome)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) NotifyAdmin(ctx context.Context, registrant *domain.Registrant) error {
	return m.Called(ctx, registrant).Error(0)
}

func (m *notifierMock) NotifyRegistrant(ctx context.Context, registrant *domain.Registrant) error {
	return m.Called(ctx, registrant).Error(0)
}

// registrantsStub lets a test script repository answers.
type registrantsStub struct {
	getByEmail func(ctx context.Context, email string) (*domain.Registrant, error)
	create     func(ctx context.Context, name, email, phone string) (*domain.Registrant, error)
}

func (s *registrantsStub) GetByEmail(ctx context.Context, email string) (*domain.Registrant, error) {
	return s.getByEmail(ctx, email)
}

func (s *registrantsStub) Create(ctx context.Context, name, email, phone string) (*domain.Registrant, error) {
	return s.create(ctx, name, email, phone)
}

func (s *registrantsStub) Count(context.Context) (int64, error) {
	return 0, nil
}
