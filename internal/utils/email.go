package utils

import (
	"errors"
	"fmt"
	"strings"

	"sack_back_end/internal/models"

	log "github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

var ErrMailDisabled = errors.New("envoi d'e-mails désactivé (SMTP_HOST vide)")

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer envoie les e-mails transactionnels (confirmation, statut)
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = "noreply@sack.app"
	}
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != ""
}

// NewMessage prépare le message sans l'envoyer
func (m *Mailer) NewMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return ErrMailDisabled
	}
	msg, err := m.NewMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// SendOrderConfirmation envoie le récapitulatif d'une commande qui vient d'être passée
func (m *Mailer) SendOrderConfirmation(to string, order models.Order) error {
	html, err := OrderConfirmationHTML(order)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("✅ Commande confirmée - %s", order.StudioName)
	if err := m.Send(to, subject, html); err != nil {
		log.Errorf("❌ Erreur envoi confirmation %s: %v", order.ID, err)
		return err
	}
	log.Printf("📧 Confirmation envoyée: %s (commande: %s)", to, order.ID)
	return nil
}

// NotifyAsync n'attend pas le serveur SMTP ; sans destinataire ou sans SMTP, ne fait rien
func (m *Mailer) NotifyAsync(to string, send func(string) error) {
	if !m.Enabled() || strings.TrimSpace(to) == "" {
		return
	}
	go func() {
		_ = send(to)
	}()
}
