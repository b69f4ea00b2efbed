package service

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/metrics"
	emailProvider "github.com/athaan-fi-beit/backend/pkg/email"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templates embed.FS

const (
	adminRegistrationSubject = "New Athaan Fi Beit Registration"
	welcomeSubject           = "Welcome to Athaan Fi Beit"
)

type EmailService struct {
	sender     emailProvider.Sender
	smtpConfig config.SMTPConfig
	config     config.EmailConfig
	metrics    *metrics.Metrics
}

func newEmailsService(sender emailProvider.Sender, smtpConfig config.SMTPConfig, config config.EmailConfig, metrics *metrics.Metrics) *EmailService {
	return &EmailService{
		sender:     sender,
		smtpConfig: smtpConfig,
		config:     config,
		metrics:    metrics,
	}
}

type registrationEmailInput struct {
	Name      string
	Email     string
	Phone     string
	CreatedAt string
}

func newRegistrationEmailInput(registrant *domain.Registrant) registrationEmailInput {
	return registrationEmailInput{
		Name:      registrant.Name,
		Email:     registrant.Email,
		Phone:     registrant.Phone,
		CreatedAt: registrant.CreatedAt.Format(time.RFC1123),
	}
}

func (s *EmailService) NotifyAdmin(_ context.Context, registrant *domain.Registrant) error {
	if !s.configured() || s.config.AdminEmail == "" {
		logger.Warn("ADMIN_EMAIL or EMAIL_USER not configured - skipping admin email")
		s.metrics.ObserveNotification(metrics.NotificationAdmin, metrics.ResultSkipped)
		return nil
	}

	return s.send(metrics.NotificationAdmin, emailProvider.SendEmailInput{
		To:      s.config.AdminEmail,
		Subject: adminRegistrationSubject,
	}, s.config.Templates.AdminRegistration, newRegistrationEmailInput(registrant))
}

func (s *EmailService) NotifyRegistrant(_ context.Context, registrant *domain.Registrant) error {
	if !s.configured() {
		logger.Warn("EMAIL_USER not configured - skipping welcome email")
		s.metrics.ObserveNotification(metrics.NotificationWelcome, metrics.ResultSkipped)
		return nil
	}

	return s.send(metrics.NotificationWelcome, emailProvider.SendEmailInput{
		To:      registrant.Email,
		Subject: welcomeSubject,
	}, s.config.Templates.Welcome, newRegistrationEmailInput(registrant))
}

func (s *EmailService) configured() bool {
	return s.sender != nil && s.smtpConfig.Configured()
}

func (s *EmailService) send(kind string, sendInput emailProvider.SendEmailInput, templateName string, data registrationEmailInput) error {
	if err := sendInput.GenerateBodyFromHTML(templates, "templates/"+templateName, data); err != nil {
		s.metrics.ObserveNotification(kind, metrics.ResultFailed)
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		s.metrics.ObserveNotification(kind, metrics.ResultFailed)
		return fmt.Errorf("send %s email failed: %w", kind, err)
	}

	s.metrics.ObserveNotification(kind, metrics.ResultSent)
	logger.Debug("notification sent", zap.String("kind", kind))

	return nil
}
