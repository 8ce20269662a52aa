package mail

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/pkg/qrcode"
)

const welcomeBody = `Dear %s,

Thank you for registering with us!

Your unique Customer ID is: %s

Please save this ID or use the attached QR code for future reference.

Best regards,
%s
`

// WelcomeNotifier arma el correo de bienvenida (texto + QR adjunto) y lo entrega al Sender.
type WelcomeNotifier struct {
	sender   Sender
	from     string
	teamName string
	log      zerolog.Logger
}

var _ billing.WelcomeNotifier = (*WelcomeNotifier)(nil)

// NewWelcomeNotifier construye el notificador.
func NewWelcomeNotifier(sender Sender, from, teamName string, log zerolog.Logger) *WelcomeNotifier {
	if teamName == "" {
		teamName = "Exhibition Team"
	}
	return &WelcomeNotifier{sender: sender, from: from, teamName: teamName, log: log}
}

// Subject asunto del correo de bienvenida.
func Subject(customerID string) string {
	return "Welcome! Your Customer ID: " + customerID
}

// Notify hace un único intento de envío. Cualquier fallo (QR, dirección, transporte o panic del
// transporte) se registra y se reporta como false.
func (n *WelcomeNotifier) Notify(customer *entity.Customer) (sent bool) {
	log := n.log.With().Str("customer_id", customer.CustomerID).Str("email", customer.Email).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic enviando correo de bienvenida")
			sent = false
		}
	}()

	msg, err := n.build(customer)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo armar el correo de bienvenida")
		return false
	}
	if err := n.sender.Send(msg); err != nil {
		log.Error().Err(err).Msg("error enviando correo de bienvenida")
		return false
	}
	log.Info().Msg("correo de bienvenida enviado")
	return true
}

func (n *WelcomeNotifier) build(customer *entity.Customer) (*gomail.Message, error) {
	png, err := qrcode.Render(customer.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", customer.Email)
	msg.SetHeader("Subject", Subject(customer.CustomerID))
	msg.SetBody("text/plain", fmt.Sprintf(welcomeBody, customer.Name, customer.CustomerID, n.teamName))
	msg.Attach(qrcode.Filename(customer.CustomerID),
		gomail.SetHeader(map[string][]string{"Content-Type": {"image/png"}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		}),
	)
	return msg, nil
}
