package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/repository"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"go.uber.org/zap"
)

type signupService struct {
	registrantRepository repository.Registrants
	verifier             Verifier
	notifier             Notifier

	pending sync.WaitGroup
}

func newSignupService(registrantRepository repository.Registrants, verifier Verifier, notifier Notifier) *signupService {
	return &signupService{
		registrantRepository: registrantRepository,
		verifier:             verifier,
		notifier:             notifier,
	}
}

type RegisterInput struct {
	Name           string
	Email          string
	Phone          string
	RecaptchaToken string
	RemoteIP       string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Phone) == "" {
		return ErrValidation
	}
	return nil
}

// Register runs validate, verify, duplicate check and insert in that order,
// then starts the notifications in the background. Once the insert succeeds
// the result is success whatever the notifications do.
func (s *signupService) Register(ctx context.Context, input RegisterInput) (*domain.Registrant, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if s.verifier != nil && s.verifier.Enabled() {
		outcome := s.verifier.Verify(ctx, input.RecaptchaToken, input.RemoteIP)
		if !outcome.Passed {
			return nil, fmt.Errorf("%w: %s", ErrVerificationFailed, outcome.Reason)
		}
	}

	_, err := s.registrantRepository.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrRegistrantAlreadyExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registrant by email failed: %w", err)
	}

	registrant, err := s.registrantRepository.Create(ctx, input.Name, input.Email, input.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrRegistrantAlreadyExists
		}
		return nil, fmt.Errorf("create registrant failed: %w", err)
	}

	logger.Info("registrant created", zap.String("registrant_id", registrant.ID.String()))

	// a client disconnect must not abort notifications for a stored registrant
	notifyCtx := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.notify(notifyCtx, registrant)
	}()

	return registrant, nil
}

// Wait blocks until the notifications started by Register are finished or
// ctx is done.
func (s *signupService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *signupService) notify(ctx context.Context, registrant *domain.Registrant) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.NotifyAdmin(ctx, registrant); err != nil {
		logger.Error("admin notification failed", zap.Error(err), zap.String("registrant_id", registrant.ID.String()))
	}

	if err := s.notifier.NotifyRegistrant(ctx, registrant); err != nil {
		logger.Error("welcome email failed", zap.Error(err), zap.String("registrant_id", registrant.ID.String()))
	}
}
