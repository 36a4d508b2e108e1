package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.Order{},
		&models.OrderItem{}, &models.Alert{}, &models.PlantCare{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(NewRepository(conn), alerts.NewRepository(conn), db.NewWithConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func createProduct(t *testing.T, svc Service, mutate func(*CreateProductInput)) *ProductDTO {
	t.Helper()
	input := CreateProductInput{
		SKU:   "SKU-" + uuid.NewString()[:8],
		Name:  "Monstera deliciosa",
		Price: 12990,
		Stock: 10,
	}
	if mutate != nil {
		mutate(&input)
	}
	dto, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return dto
}

func TestCreateProductGeneratesShortID(t *testing.T) {
	svc, _ := newTestService(t)
	dto := createProduct(t, svc, nil)

	if len(dto.ID) != 12 {
		t.Fatalf("expected 12-char generated id, got %q", dto.ID)
	}
	if dto.EffectivePrice != 12990 {
		t.Fatalf("effective price without discount = %d", dto.EffectivePrice)
	}
}

func TestCreateProductAppliesDiscountToEffectivePrice(t *testing.T) {
	svc, _ := newTestService(t)
	dto := createProduct(t, svc, func(input *CreateProductInput) {
		input.Price = 1000
		input.DiscountPct = 25
	})
	if dto.EffectivePrice != 750 {
		t.Fatalf("effective price = %d, want 750", dto.EffectivePrice)
	}
}

func TestCreateProductRejectsBadDiscount(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:         "SKU-1",
		Name:        "Ficus",
		Price:       1000,
		DiscountPct: 95,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProductDuplicateSKUConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	createProduct(t, svc, func(input *CreateProductInput) { input.SKU = "SKU-DUP" })

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:   "SKU-DUP",
		Name:  "Otra planta",
		Price: 1000,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Interior")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	createProduct(t, svc, func(input *CreateProductInput) { input.CategoryID = &category.ID })

	err = svc.DeleteCategory(ctx, category.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while products reference category, got %v", err)
	}
}

func TestCreateProductWithOldIntakeOpensAlerts(t *testing.T) {
	svc, conn := newTestService(t)
	intake := time.Now().AddDate(0, 0, -25)
	dto := createProduct(t, svc, func(input *CreateProductInput) {
		input.IntakeDate = &intake
	})

	var open []models.Alert
	if err := conn.Where("product_id = ? AND resolved = ?", dto.ID, false).Find(&open).Error; err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	kinds := map[enums.AlertKind]bool{}
	for _, alert := range open {
		kinds[alert.Kind] = true
	}
	if !kinds[enums.AlertKindWatering] || !kinds[enums.AlertKindOverstock] {
		t.Fatalf("expected watering and overstock alerts, got %v", kinds)
	}
}

func TestRecordWateringResolvesAndLogs(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	intake := time.Now().AddDate(0, 0, -5)
	dto := createProduct(t, svc, func(input *CreateProductInput) {
		input.IntakeDate = &intake
	})

	who := "bodeguero@plantitas.cl"
	updated, err := svc.RecordWatering(ctx, dto.ID, CareActionInput{PerformedBy: &who, Notes: "riego profundo"})
	if err != nil {
		t.Fatalf("record watering: %v", err)
	}
	if updated.LastWateredAt == nil {
		t.Fatal("expected last watered timestamp")
	}

	var open []models.Alert
	if err := conn.Where("product_id = ? AND kind = ? AND resolved = ?", dto.ID, enums.AlertKindWatering, false).Find(&open).Error; err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("watering alert should be resolved, %d open", len(open))
	}

	var care []models.PlantCare
	if err := conn.Where("product_id = ?", dto.ID).Find(&care).Error; err != nil {
		t.Fatalf("load care: %v", err)
	}
	if len(care) != 1 || care[0].Action != enums.CareActionWatering {
		t.Fatalf("expected one watering care entry, got %+v", care)
	}
}

func TestExtendLifeResetsIntakeAndRestoresContext(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	intake := time.Now().AddDate(0, 0, -35)
	dto := createProduct(t, svc, func(input *CreateProductInput) {
		input.IntakeDate = &intake
	})

	// The stale intake raises watering, shelf life and overstock alerts.
	var before []models.Alert
	if err := conn.Where("product_id = ? AND resolved = ?", dto.ID, false).Find(&before).Error; err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	if len(before) != 3 {
		t.Fatalf("expected 3 open alerts before extension, got %d", len(before))
	}

	updated, err := svc.ExtendLife(ctx, dto.ID, CareActionInput{})
	if err != nil {
		t.Fatalf("extend life: %v", err)
	}
	if time.Since(updated.IntakeDate) > time.Minute {
		t.Fatalf("intake date not reset: %v", updated.IntakeDate)
	}

	var open []models.Alert
	if err := conn.Where("product_id = ? AND resolved = ?", dto.ID, false).Find(&open).Error; err != nil {
		t.Fatalf("load alerts: %v", err)
	}
	kinds := map[enums.AlertKind]int{}
	for _, alert := range open {
		kinds[alert.Kind]++
	}
	if kinds[enums.AlertKindShelfLife] != 0 {
		t.Fatal("shelf life alert should stay resolved after extension")
	}
	// Watering/overstock context is deliberately carried over with the
	// original messages.
	if kinds[enums.AlertKindWatering] != 1 || kinds[enums.AlertKindOverstock] != 1 {
		t.Fatalf("expected restored watering/overstock alerts, got %v", kinds)
	}

	var care []models.PlantCare
	if err := conn.Where("product_id = ? AND action = ?", dto.ID, enums.CareActionLifeExtension).Find(&care).Error; err != nil {
		t.Fatalf("load care: %v", err)
	}
	if len(care) != 1 || care[0].Notes != "Extensión de vida útil manual" {
		t.Fatalf("expected default extension notes, got %+v", care)
	}
}

func TestDeleteProductDetachesOrderItems(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	dto := createProduct(t, svc, nil)

	order := models.Order{PaymentMethod: enums.PaymentMethodCash, Status: enums.OrderStatusPaid}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductID:   &dto.ID,
		ProductName: dto.Name,
		ProductSKU:  dto.SKU,
		Quantity:    1,
		UnitPrice:   dto.EffectivePrice,
		PriceBase:   dto.Price,
	}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	if err := svc.DeleteProduct(ctx, dto.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	var reloaded models.OrderItem
	if err := conn.First(&reloaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.ProductID != nil {
		t.Fatalf("expected detached product id, got %v", *reloaded.ProductID)
	}
	if reloaded.ProductName != dto.Name {
		t.Fatal("snapshot name must survive product deletion")
	}
}

func TestListCareFiltersByProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	first := createProduct(t, svc, nil)
	second := createProduct(t, svc, func(input *CreateProductInput) { input.Name = "Suculenta echeveria" })

	if _, err := svc.RecordWatering(ctx, first.ID, CareActionInput{}); err != nil {
		t.Fatalf("water first: %v", err)
	}
	if _, err := svc.RecordWatering(ctx, second.ID, CareActionInput{}); err != nil {
		t.Fatalf("water second: %v", err)
	}

	entries, err := svc.ListCare(ctx, &first.ID)
	if err != nil {
		t.Fatalf("list care: %v", err)
	}
	if len(entries) != 1 || entries[0].ProductID != first.ID {
		t.Fatalf("expected only first product's entries, got %+v", entries)
	}
}
