package alerts

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/mailer"
)

// Notifier emails the daily digest of unresolved alerts raised today.
type Notifier struct {
	repo       Repository
	mail       mailer.Mailer
	recipients []string
	fallback   string
	loc        *time.Location
	now        func() time.Time
}

// NotifierParams configure the digest notifier.
type NotifierParams struct {
	Repo       Repository
	Mailer     mailer.Mailer
	Recipients []string
	Fallback   string
	Location   *time.Location
}

// NewNotifier builds a digest notifier.
func NewNotifier(params NotifierParams) (*Notifier, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{
		repo:       params.Repo,
		mail:       params.Mailer,
		recipients: params.Recipients,
		fallback:   params.Fallback,
		loc:        loc,
		now:        time.Now,
	}, nil
}

// SendDaily mails today's unresolved alerts to every configured recipient and
// returns how many alerts were included. No alerts means no email.
func (n *Notifier) SendDaily(ctx context.Context) (int, error) {
	now := n.now().In(n.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, n.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	alerts, err := n.repo.ListUnresolvedCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return 0, fmt.Errorf("loading today's alerts: %w", err)
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	recipients := n.recipients
	if len(recipients) == 0 {
		if n.fallback == "" {
			return 0, fmt.Errorf("no digest recipients configured")
		}
		recipients = []string{n.fallback}
	}

	msg := mailer.Message{
		Subject:   fmt.Sprintf("Alertas de cuidado de plantas - %s", now.Format("02/01/2006")),
		PlainText: digestText(alerts),
		HTML:      digestHTML(alerts, now),
	}

	// Every recipient is attempted; failures aggregate into one error.
	var sendErr error
	for _, to := range recipients {
		msg.To = to
		if err := n.mail.Send(ctx, msg); err != nil {
			sendErr = multierr.Append(sendErr, fmt.Errorf("sending digest to %s: %w", to, err))
		}
	}
	if sendErr != nil {
		return 0, sendErr
	}
	return len(alerts), nil
}

func productName(alert models.Alert) string {
	if alert.Product != nil {
		return alert.Product.Name
	}
	return alert.ProductID
}

func digestText(alerts []models.Alert) string {
	var b strings.Builder
	b.WriteString("Alertas de cuidado sin resolver generadas hoy:\n\n")
	for _, alert := range alerts {
		fmt.Fprintf(&b, "- [%s] %s | %s: %s\n",
			alert.Severity, alert.Kind, productName(alert), alert.Message)
	}
	b.WriteString("\nRevisa el panel de alertas para marcarlas como resueltas.\n")
	return b.String()
}

func digestHTML(alerts []models.Alert, now time.Time) string {
	var b strings.Builder
	b.WriteString("<h2>Alertas de cuidado de plantas</h2>")
	fmt.Fprintf(&b, "<p>Generadas el %s</p>", now.Format("02/01/2006"))
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Tipo</th><th>Nivel</th><th>Planta</th><th>Mensaje</th></tr>")
	for _, alert := range alerts {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(alert.Kind.String()),
			html.EscapeString(alert.Severity.String()),
			html.EscapeString(productName(alert)),
			html.EscapeString(alert.Message))
	}
	b.WriteString("</table>")
	return b.String()
}
