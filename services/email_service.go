package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/samudaya/community-events-go/config"
)

// EmailService delivers password reset mail. Delivery is best effort: when SMTP
// is not configured the service is disabled and sends are no-ops, since the
// reset endpoint also hands the token back to the caller.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewEmailService(cfg *config.Config, logger zerolog.Logger) *EmailService {
	svc := &EmailService{config: cfg, logger: logger}
	if cfg.SMTPHost != "" {
		svc.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return svc
}

func (es *EmailService) Enabled() bool {
	return es.dialer != nil
}

// SendPasswordResetEmail mails the reset token to the account address.
func (es *EmailService) SendPasswordResetEmail(email, name, token string) error {
	if !es.Enabled() {
		es.logger.Debug().Str("email", email).Msg("smtp not configured, skipping reset email")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Samudaya Events - Password Reset")

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>Your reset token is:</p>
		<p><strong>%s</strong></p>
		<p>The token expires in 30 minutes. If you did not request a password
		reset, you can safely ignore this email.</p>
		<p>Samudaya Events Team</p>
	`, name, token)
	m.SetBody("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.Error().Err(err).Str("email", email).Msg("failed to send reset email")
		return err
	}
	return nil
}
