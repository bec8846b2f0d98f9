package notification

import (
	"context"
	"fmt"

	"zest/internal/auth/config"
	"zest/internal/auth/domain/repository"
	apperrors "zest/internal/shared/errors"

	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers notification mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer builds a mailer from the auth configuration.
func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPEmail),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.SMTPFrom}, nil
}

// Send delivers a plaintext message. Any failure is wrapped as a delivery
// error so the caller can tell it apart from store failures.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("%w: invalid sender: %v", apperrors.ErrDeliveryFailed, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: invalid recipient: %v", apperrors.ErrDeliveryFailed, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
	}
	return nil
}

var _ repository.Mailer = (*SMTPMailer)(nil)
