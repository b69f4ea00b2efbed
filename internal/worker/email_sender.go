package worker

import (
	"context"
	"fmt"

	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/service"
)

type emailSender struct {
	notifier service.Notifier
}

func newEmailSender(notifier service.Notifier) *emailSender {
	return &emailSender{
		notifier: notifier,
	}
}

func (s *emailSender) SendAdminNotification(ctx context.Context, registrant *domain.Registrant) error {
	if err := s.notifier.NotifyAdmin(ctx, registrant); err != nil {
		return fmt.Errorf("send admin notification failed: %w", err)
	}

	return nil
}

func (s *emailSender) SendWelcomeEmail(ctx context.Context, registrant *domain.Registrant) error {
	if err := s.notifier.NotifyRegistrant(ctx, registrant); err != nil {
		return fmt.Errorf("send welcome email failed: %w", err)
	}

	return nil
}
