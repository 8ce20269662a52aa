package mail

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/pkg/config"
)

type recordingSender struct {
	msgs []*gomail.Message
	err  error
	boom bool
}

func (s *recordingSender) Send(msg *gomail.Message) error {
	if s.boom {
		panic("transporte caído")
	}
	s.msgs = append(s.msgs, msg)
	return s.err
}

var ada = &entity.Customer{ID: 1, CustomerID: "AB12CD34", Name: "Ada", Email: "ada@example.com"}

func TestNotify_ArmaAsuntoYAdjunto(t *testing.T) {
	sender := &recordingSender{}
	n := NewWelcomeNotifier(sender, "noreply@example.com", "", zerolog.Nop())

	require.True(t, n.Notify(ada))
	require.Len(t, sender.msgs, 1)
	msg := sender.msgs[0]
	assert.Equal(t, []string{"Welcome! Your Customer ID: AB12CD34"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"ada@example.com"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, `filename="qr_AB12CD34.png"`)
	assert.Contains(t, raw, "image/png")
	assert.Contains(t, raw, "Dear Ada,")
	assert.Contains(t, raw, "Exhibition Team")
}

func TestNotify_FalloDeTransporte(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	n := NewWelcomeNotifier(sender, "noreply@example.com", "Team", zerolog.Nop())
	assert.False(t, n.Notify(ada))
}

func TestNotify_PanicNoEscapa(t *testing.T) {
	n := NewWelcomeNotifier(&recordingSender{boom: true}, "noreply@example.com", "Team", zerolog.Nop())
	assert.NotPanics(t, func() {
		assert.False(t, n.Notify(ada))
	})
}

func TestNotify_SinCustomerID(t *testing.T) {
	sender := &recordingSender{}
	n := NewWelcomeNotifier(sender, "noreply@example.com", "Team", zerolog.Nop())
	assert.False(t, n.Notify(&entity.Customer{Email: "x@example.com"}))
	assert.Empty(t, sender.msgs)
}

func TestConsoleSender_Log(t *testing.T) {
	var out bytes.Buffer
	sender := NewSender(config.MailConfig{Backend: config.MailBackendConsole}, zerolog.New(&out))
	n := NewWelcomeNotifier(sender, "noreply@example.com", "Team", zerolog.Nop())

	require.True(t, n.Notify(ada))
	assert.Contains(t, out.String(), "Welcome! Your Customer ID: AB12CD34")
	assert.Contains(t, out.String(), "correo (backend consola)")
}

func TestNewSender_SMTP(t *testing.T) {
	s := NewSender(config.MailConfig{Backend: config.MailBackendSMTP, Host: "smtp.example.com", Port: 465, UseSSL: true}, zerolog.Nop())
	smtp, ok := s.(*SMTPSender)
	require.True(t, ok)
	assert.True(t, smtp.dialer.SSL)
	assert.Equal(t, 465, smtp.dialer.Port)
}
