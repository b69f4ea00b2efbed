package smtp

import (
	"testing"

	"github.com/athaan-fi-beit/backend/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSender(t *testing.T) {
	_, err := NewSMTPSender("not-an-email", "Athaan Fi Beit", "pass", "smtp.gmail.com", 587)
	require.Error(t, err)

	_, err = NewSMTPSender("team@athaan.example", "Athaan Fi Beit", "pass", "", 587)
	require.Error(t, err)

	s, err := NewSMTPSender("team@athaan.example", "Athaan Fi Beit", "pass", "smtp.gmail.com", 587)
	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", s.dialer().Host)
	assert.Equal(t, "team@athaan.example", s.dialer().Username)
}

func TestSendRejectsInvalidInputBeforeDialing(t *testing.T) {
	s, err := NewSMTPSender("team@athaan.example", "Athaan Fi Beit", "pass", "127.0.0.1", 1)
	require.NoError(t, err)

	err = s.Send(email.SendEmailInput{To: "someone@x.com", Subject: "hi"})
	assert.EqualError(t, err, "empty subject/body")
}
