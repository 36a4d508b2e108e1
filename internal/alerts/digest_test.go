package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/mailer"
	"gorm.io/gorm"
)

type stubMailer struct {
	sent    []mailer.Message
	failure error
}

func (s *stubMailer) Send(_ context.Context, msg mailer.Message) error {
	if s.failure != nil {
		return s.failure
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubAlertRepo struct {
	Repository
	alerts []models.Alert
}

func (s *stubAlertRepo) ListUnresolvedCreatedBetween(context.Context, time.Time, time.Time) ([]models.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertRepo) WithTx(*gorm.DB) Repository { return s }

func digestAlert(name, message string) models.Alert {
	return models.Alert{
		ProductID: "abc123def456",
		Product:   &models.Product{ID: "abc123def456", Name: name},
		Kind:      enums.AlertKindWatering,
		Message:   message,
		Severity:  enums.AlertSeverityWarning,
		CreatedAt: time.Now(),
	}
}

func TestSendDailyNoAlertsSendsNothing(t *testing.T) {
	mail := &stubMailer{}
	notifier, err := NewNotifier(NotifierParams{
		Repo:     &stubAlertRepo{},
		Mailer:   mail,
		Fallback: "tienda@plantitas.cl",
	})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	count, err := notifier.SendDaily(context.Background())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if count != 0 || len(mail.sent) != 0 {
		t.Fatalf("expected no email, got count=%d sent=%d", count, len(mail.sent))
	}
}

func TestSendDailyMailsEveryRecipient(t *testing.T) {
	mail := &stubMailer{}
	repo := &stubAlertRepo{alerts: []models.Alert{
		digestAlert("Monstera deliciosa", "La planta 'Monstera deliciosa' lleva 5 días sin riego (frecuencia recomendada: cada 3 días)."),
		digestAlert("Helecho crespo", "La vida útil estimada (30 días) para 'Helecho crespo' fue excedida."),
	}}
	notifier, err := NewNotifier(NotifierParams{
		Repo:       repo,
		Mailer:     mail,
		Recipients: []string{"duena@plantitas.cl", "bodega@plantitas.cl"},
		Fallback:   "tienda@plantitas.cl",
	})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	count, err := notifier.SendDaily(context.Background())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if len(mail.sent) != 2 {
		t.Fatalf("expected one email per recipient, got %d", len(mail.sent))
	}
	first := mail.sent[0]
	if !strings.HasPrefix(first.Subject, "Alertas de cuidado de plantas - ") {
		t.Fatalf("unexpected subject %q", first.Subject)
	}
	if !strings.Contains(first.PlainText, "Monstera deliciosa") {
		t.Fatalf("plain text missing product: %q", first.PlainText)
	}
	if !strings.Contains(first.HTML, "<table") {
		t.Fatalf("expected html table, got %q", first.HTML)
	}
}

func TestSendDailyFallsBackToDefaultRecipient(t *testing.T) {
	mail := &stubMailer{}
	repo := &stubAlertRepo{alerts: []models.Alert{digestAlert("Ficus lyrata", "mensaje")}}
	notifier, _ := NewNotifier(NotifierParams{
		Repo:     repo,
		Mailer:   mail,
		Fallback: "tienda@plantitas.cl",
	})

	if _, err := notifier.SendDaily(context.Background()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(mail.sent) != 1 || mail.sent[0].To != "tienda@plantitas.cl" {
		t.Fatalf("expected fallback recipient, got %+v", mail.sent)
	}
}

func TestSendDailyPropagatesDeliveryErrors(t *testing.T) {
	mail := &stubMailer{failure: errors.New("sendgrid down")}
	repo := &stubAlertRepo{alerts: []models.Alert{digestAlert("Ficus lyrata", "mensaje")}}
	notifier, _ := NewNotifier(NotifierParams{
		Repo:     repo,
		Mailer:   mail,
		Fallback: "tienda@plantitas.cl",
	})

	if _, err := notifier.SendDaily(context.Background()); err == nil {
		t.Fatal("expected delivery error")
	}
}
