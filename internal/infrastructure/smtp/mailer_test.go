package smtp

import (
	"net/smtp"
	"testing"

	"github.com/YogeshxSaini/bluestock/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_SendEmail(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "mail.local", SMTPPort: "2525", SMTPFrom: "no-reply@bluestock.in"})
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Nil(t, a)
		return nil
	}

	require.NoError(t, m.SendEmail("user@example.com", "Verify your email", "click here"))
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, []string{"user@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Verify your email\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\nclick here")
}

func TestMailer_RejectsHeaderInjection(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "mail.local", SMTPPort: "25"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	assert.Error(t, m.SendEmail("a@b.com\r\nBcc: x@y.com", "hi", "body"))
}
