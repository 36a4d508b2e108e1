package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridMailer delivers email through the Sendgrid v3 API.
type SendgridMailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewSendgrid builds a Sendgrid-backed mailer from config.
func NewSendgrid(cfg config.SendgridConfig) (*SendgridMailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("sendgrid from address is required")
	}
	return &SendgridMailer{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		fromName: "Plantitas de la Fe",
		fromAddr: cfg.DefaultFrom,
	}, nil
}

// Send delivers a single message, surfacing non-2xx API replies as errors.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	to := sgmail.NewEmail("", msg.To)
	email := sgmail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
