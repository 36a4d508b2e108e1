package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:alerts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Alert{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, intakeDaysAgo int) models.Product {
	t.Helper()
	product := models.Product{
		ID:         uuid.NewString()[:12],
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       "Calathea orbifolia",
		Price:      5990,
		Stock:      4,
		IntakeDate: time.Now().AddDate(0, 0, -intakeDaysAgo),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestReconcileCreatesAndKeepsSingleOpenAlert(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	reconciler, err := NewReconciler(repo)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}
	ctx := context.Background()
	product := seedProduct(t, db, 5)

	if err := reconciler.Reconcile(ctx, product); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if err := reconciler.Reconcile(ctx, product); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	open, err := repo.FindUnresolved(ctx, product.ID, enums.AlertKindWatering)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected exactly one open watering alert, got %d", len(open))
	}
}

func TestReconcileResolvesWhenConditionClears(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	reconciler, _ := NewReconciler(repo)
	ctx := context.Background()
	product := seedProduct(t, db, 5)

	if err := reconciler.Reconcile(ctx, product); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	watered := time.Now()
	product.LastWateredAt = &watered
	if err := reconciler.Reconcile(ctx, product); err != nil {
		t.Fatalf("reconcile after watering: %v", err)
	}

	open, err := repo.FindUnresolved(ctx, product.ID, enums.AlertKindWatering)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("expected watering alert resolved, got %d open", len(open))
	}

	var resolved []models.Alert
	if err := db.Where("product_id = ? AND resolved = ?", product.ID, true).Find(&resolved).Error; err != nil {
		t.Fatalf("load resolved: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ResolvedAt == nil {
		t.Fatalf("expected resolved alert with timestamp, got %+v", resolved)
	}
}

func TestRestoreSkipsWhenAlreadyOpen(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	reconciler, _ := NewReconciler(repo)
	ctx := context.Background()
	product := seedProduct(t, db, 1)

	for i := 0; i < 2; i++ {
		err := reconciler.Restore(ctx, product.ID, enums.AlertKindOverstock,
			"'Calathea orbifolia' lleva más de 20 días en vitrina. Considera una oferta.",
			enums.AlertSeverityWarning)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
	}

	open, err := repo.FindUnresolved(ctx, product.ID, enums.AlertKindOverstock)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected single restored alert, got %d", len(open))
	}
}
