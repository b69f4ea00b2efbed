package smtp

import (
	"errors"
	"fmt"

	"github.com/athaan-fi-beit/backend/pkg/email"

	"github.com/go-gomail/gomail"
)

type SMTPSender struct {
	from     string
	fromName string
	pass     string
	host     string
	port     int
}

func NewSMTPSender(from, fromName, pass, host string, port int) (*SMTPSender, error) {
	if !email.IsEmailValid(from) {
		return nil, errors.New("invalid from email")
	}

	if host == "" || port == 0 {
		return nil, errors.New("empty smtp host/port")
	}

	return &SMTPSender{from: from, fromName: fromName, pass: pass, host: host, port: port}, nil
}

func (s *SMTPSender) Send(input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", input.To)
	msg.SetHeader("Subject", input.Subject)
	msg.SetBody("text/html", input.Body)

	if err := s.dialer().DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}

	return nil
}

// Verify opens and closes an authenticated connection to the relay without
// sending anything.
func (s *SMTPSender) Verify() error {
	closer, err := s.dialer().Dial()
	if err != nil {
		return fmt.Errorf("smtp dial failed: %w", err)
	}

	return closer.Close()
}

func (s *SMTPSender) dialer() *gomail.Dialer {
	return gomail.NewDialer(s.host, s.port, s.from, s.pass)
}
