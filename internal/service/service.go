package service

import (
	"context"

	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/metrics"
	"github.com/athaan-fi-beit/backend/internal/repository"
	"github.com/athaan-fi-beit/backend/internal/service/recaptcha"
	emailProvider "github.com/athaan-fi-beit/backend/pkg/email"
)

type Services struct {
	Signup Signup
	// Emails sends notifications inline. The queue worker uses it directly.
	Emails Notifier
}

type Deps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Verifier    Verifier
	EmailSender emailProvider.Sender
	Metrics     *metrics.Metrics
	// QueueNotifications hands notifications to the task queue instead of
	// sending them during the request.
	QueueNotifications bool
}

func NewServices(deps Deps) *Services {
	emails := newEmailsService(deps.EmailSender, deps.Config.SMTP, deps.Config.Email, deps.Metrics)

	var notifier Notifier = emails
	if deps.QueueNotifications {
		notifier = newQueuedNotifier(deps.Metrics)
	}

	return &Services{
		Signup: newSignupService(deps.Repos.Registrants, deps.Verifier, notifier),
		Emails: emails,
	}
}

type Signup interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Registrant, error)
	// Wait blocks until background notifications finish or ctx is done.
	Wait(ctx context.Context) error
}

type Verifier interface {
	Enabled() bool
	Verify(ctx context.Context, token string, remoteIP string) recaptcha.Outcome
}

// Notifier sends best-effort messages about a new registrant. A missing
// configuration is not an error; implementations log and return nil.
type Notifier interface {
	NotifyAdmin(ctx context.Context, registrant *domain.Registrant) error
	NotifyRegistrant(ctx context.Context, registrant *domain.Registrant) error
}
