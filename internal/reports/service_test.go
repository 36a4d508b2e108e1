package reports

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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(&models.Category{}, &models.Product{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), time.UTC)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

type seededSale struct {
	method    enums.PaymentMethod
	createdAt time.Time
	product   string
	category  string
	quantity  int
	unitPrice int
}

func seedSales(t *testing.T, conn *gorm.DB, sales []seededSale) {
	t.Helper()
	categories := map[string]uint{}
	products := map[string]string{}
	for _, sale := range sales {
		if sale.category != "" {
			if _, ok := categories[sale.category]; !ok {
				category := models.Category{Name: sale.category}
				if err := conn.Create(&category).Error; err != nil {
					t.Fatalf("seed category: %v", err)
				}
				categories[sale.category] = category.ID
			}
		}
		if _, ok := products[sale.product]; !ok {
			product := models.Product{
				ID:         uuid.NewString()[:12],
				SKU:        "SKU-" + uuid.NewString()[:8],
				Name:       sale.product,
				Price:      sale.unitPrice,
				Stock:      7,
				IntakeDate: time.Now(),
			}
			if id, ok := categories[sale.category]; ok {
				categoryID := id
				product.CategoryID = &categoryID
			}
			if err := conn.Create(&product).Error; err != nil {
				t.Fatalf("seed product: %v", err)
			}
			products[sale.product] = product.ID
		}

		order := models.Order{
			PaymentMethod: sale.method,
			Status:        enums.OrderStatusPaid,
			Total:         sale.quantity * sale.unitPrice,
			CreatedAt:     sale.createdAt,
		}
		if err := conn.Create(&order).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
		productID := products[sale.product]
		item := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   &productID,
			ProductName: sale.product,
			ProductSKU:  "SKU",
			Quantity:    sale.quantity,
			UnitPrice:   sale.unitPrice,
			PriceBase:   sale.unitPrice,
		}
		if err := conn.Create(&item).Error; err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}
}

func standardSeed(t *testing.T, conn *gorm.DB) {
	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 16, 0, 0, 0, time.UTC)
	seedSales(t, conn, []seededSale{
		{enums.PaymentMethodCash, march, "Monstera deliciosa", "Interior", 2, 12990},
		{enums.PaymentMethodDebit, march.Add(2 * time.Hour), "Suculenta echeveria", "Suculentas", 5, 2500},
		{enums.PaymentMethodCredit, april, "Monstera deliciosa", "Interior", 1, 12990},
		{enums.PaymentMethodBankTransfer, april.Add(time.Hour), "Lavanda", "Exterior", 3, 4500},
	})
}

func TestOverview(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)

	overview, err := svc.Overview(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	wantTotal := 2*12990 + 5*2500 + 12990 + 3*4500
	if overview.TotalVentas != wantTotal {
		t.Fatalf("total = %d, want %d", overview.TotalVentas, wantTotal)
	}
	if overview.Tickets != 4 {
		t.Fatalf("tickets = %d", overview.Tickets)
	}
	if overview.TotalItems != 11 {
		t.Fatalf("items = %d", overview.TotalItems)
	}
	if overview.TicketPromedio != (wantTotal+2)/4 {
		t.Fatalf("avg ticket = %d", overview.TicketPromedio)
	}
}

func TestTopProductsByQuantity(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)

	top, err := svc.TopProducts(context.Background(), Filters{}, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d", len(top))
	}
	if top[0].Producto != "Suculenta echeveria" || top[0].Cantidad != 5 {
		t.Fatalf("first = %+v", top[0])
	}
	// Lavanda and Monstera tie at 3 units; name breaks the tie.
	if top[1].Producto != "Lavanda" || top[1].Cantidad != 3 {
		t.Fatalf("second = %+v", top[1])
	}
}

func TestMonthlySeriesAndBestMonth(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)
	ctx := context.Background()

	series, err := svc.MonthlySeries(ctx, Filters{})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 2 || series[0].X != "2024-03" || series[1].X != "2024-04" {
		t.Fatalf("series = %+v", series)
	}

	best, err := svc.BestMonth(ctx, Filters{})
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best.Mes != "2024-03" {
		t.Fatalf("best month = %+v", best)
	}
}

func TestPaymentMethodBuckets(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)

	buckets, err := svc.PaymentMethods(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	byLabel := map[string]PaymentBucket{}
	for _, bucket := range buckets {
		byLabel[bucket.Label] = bucket
	}
	if byLabel["Efectivo"].Value != 1 || byLabel["Transferencia"].Value != 1 {
		t.Fatalf("buckets = %+v", byLabel)
	}
	// debito + credito fold into Tarjeta
	if byLabel["Tarjeta"].Value != 2 {
		t.Fatalf("tarjeta = %+v", byLabel["Tarjeta"])
	}
	if byLabel["Tarjeta"].Porcentaje != 50 {
		t.Fatalf("tarjeta pct = %v", byLabel["Tarjeta"].Porcentaje)
	}
}

func TestRevenueByCategoryOrdering(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)

	ranked, err := svc.RevenueByCategory(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(ranked) != 3 || ranked[0].Categoria != "Interior" {
		t.Fatalf("ranked = %+v", ranked)
	}
}

func TestOverviewRespectsDateFilter(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)

	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	overview, err := svc.Overview(context.Background(), Filters{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Tickets != 2 {
		t.Fatalf("tickets in april = %d", overview.Tickets)
	}
}

func TestCancelledOrdersExcluded(t *testing.T) {
	svc, conn := newTestService(t)
	standardSeed(t, conn)

	order := models.Order{
		PaymentMethod: enums.PaymentMethodCash,
		Status:        enums.OrderStatusCancelled,
		Total:         99999,
		CreatedAt:     time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("seed cancelled: %v", err)
	}
	item := models.OrderItem{OrderID: order.ID, ProductName: "Fantasma", ProductSKU: "X", Quantity: 1, UnitPrice: 99999, PriceBase: 99999}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed cancelled item: %v", err)
	}

	overview, err := svc.Overview(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Tickets != 4 {
		t.Fatalf("cancelled order leaked into KPIs: %+v", overview)
	}
}
