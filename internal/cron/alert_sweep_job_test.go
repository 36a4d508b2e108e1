package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type staticProducts struct {
	products []models.Product
}

func (s *staticProducts) ListAllProducts(context.Context) ([]models.Product, error) {
	return s.products, nil
}

func newSweepFixture(t *testing.T) (*db.Client, alerts.Repository) {
	t.Helper()
	dsn := "file:cron_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Alert{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.NewWithConn(conn), alerts.NewRepository(conn)
}

func TestAlertSweepOpensAndResolvesAlerts(t *testing.T) {
	client, alertRepo := newSweepFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	overdue := models.Product{
		ID:         "plant-001",
		SKU:        "SKU-1",
		Name:       "Helecho",
		Price:      3500,
		Stock:      4,
		IntakeDate: now.Add(-10 * 24 * time.Hour),
	}
	fresh := models.Product{
		ID:            "plant-002",
		SKU:           "SKU-2",
		Name:          "Cactus",
		Price:         2000,
		Stock:         2,
		IntakeDate:    now,
		LastWateredAt: &now,
	}

	job, err := NewAlertSweepJob(AlertSweepJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:       client,
		Products: &staticProducts{products: []models.Product{overdue, fresh}},
		Alerts:   alertRepo,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "alert-sweep" {
		t.Fatalf("name = %q", job.Name())
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	open, err := alertRepo.FindUnresolved(ctx, overdue.ID, enums.AlertKindWatering)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected watering alert for overdue product, got %d", len(open))
	}

	open, err = alertRepo.FindUnresolved(ctx, fresh.ID, enums.AlertKindWatering)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("fresh product should have no alerts, got %d", len(open))
	}

	// Second sweep is a no-op.
	if err := job.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	open, err = alertRepo.FindUnresolved(ctx, overdue.ID, enums.AlertKindWatering)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("sweep duplicated alerts: %d", len(open))
	}
}
