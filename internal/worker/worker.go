package worker

import (
	"context"

	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/service"
)

type Workers struct {
	EmailSender EmailSender
}

type Deps struct {
	Notifier service.Notifier
}

type EmailSender interface {
	SendAdminNotification(ctx context.Context, registrant *domain.Registrant) error
	SendWelcomeEmail(ctx context.Context, registrant *domain.Registrant) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.Notifier),
	}
}
