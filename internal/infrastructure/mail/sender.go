// Package mail envía el correo de bienvenida con el QR del cliente.
package mail

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/exhibition-api/pkg/config"
)

// Sender transporte de mensajes ya armados.
type Sender interface {
	Send(msg *gomail.Message) error
}

// SMTPSender envía por SMTP con gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender construye el sender. Con UseSSL se usa TLS implícito; si no, STARTTLS cuando el
// servidor lo ofrece.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseSSL
	return &SMTPSender{dialer: d}
}

func (s *SMTPSender) Send(msg *gomail.Message) error {
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// Check abre y cierra una sesión SMTP autenticada (diagnóstico de credenciales).
func (s *SMTPSender) Check() error {
	closer, err := s.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return closer.Close()
}

// ConsoleSender escribe el mensaje MIME completo en el log en lugar de enviarlo.
type ConsoleSender struct {
	log zerolog.Logger
}

// NewConsoleSender construye el sender de consola.
func NewConsoleSender(log zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) Send(msg *gomail.Message) error {
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return fmt.Errorf("console: serializar mensaje: %w", err)
	}
	s.log.Info().
		Strs("to", msg.GetHeader("To")).
		Strs("subject", msg.GetHeader("Subject")).
		Int("bytes", buf.Len()).
		Msg("correo (backend consola)")
	s.log.Debug().Msg(buf.String())
	return nil
}

// NewSender elige el transporte según cfg.Backend.
func NewSender(cfg config.MailConfig, log zerolog.Logger) Sender {
	if cfg.Backend == config.MailBackendSMTP {
		return NewSMTPSender(cfg)
	}
	return NewConsoleSender(log)
}
