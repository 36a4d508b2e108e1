package reports

import (
	"context"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"gorm.io/gorm"
)

const uncategorized = "Sin categoría"

// SaleRow is one sold line joined with its order and current catalog data.
// All aggregation happens in memory so the same queries behave identically on
// postgres and the sqlite test databases.
type SaleRow struct {
	OrderID       uint
	OrderCode     string
	CreatedAt     time.Time
	PaymentMethod enums.PaymentMethod
	ProductID     *string
	ProductName   string
	CategoryName  string
	Quantity      int
	UnitPrice     int
	LineTotal     int
}

// Filters bound the sales window for reports and KPIs.
type Filters struct {
	Start         *time.Time
	End           *time.Time
	Category      string
	Product       string
	PaymentMethod string
}

// Repository reads sales data for reporting.
type Repository interface {
	FetchSales(ctx context.Context, filters Filters) ([]SaleRow, error)
	ProductSnapshots(ctx context.Context) (map[string]ProductSnapshot, error)
}

// ProductSnapshot carries current catalog state keyed by product name.
type ProductSnapshot struct {
	ListPrice int
	Stock     int
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed reports repository.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) FetchSales(ctx context.Context, filters Filters) ([]SaleRow, error) {
	query := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.id AS item_id,
			orders.id AS order_id,
			orders.code AS order_code,
			orders.created_at AS created_at,
			orders.payment_method AS payment_method,
			order_items.product_id AS product_id,
			order_items.product_name AS product_name,
			categories.name AS category_name,
			order_items.quantity AS quantity,
			order_items.unit_price AS unit_price`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("orders.status = ?", enums.OrderStatusPaid)

	if filters.Start != nil {
		query = query.Where("orders.created_at >= ?", *filters.Start)
	}
	if filters.End != nil {
		query = query.Where("orders.created_at < ?", *filters.End)
	}
	if filters.Category != "" {
		query = query.Where("categories.name = ?", filters.Category)
	}
	if filters.Product != "" {
		query = query.Where("order_items.product_name = ?", filters.Product)
	}
	if filters.PaymentMethod != "" {
		query = query.Where("orders.payment_method = ?", filters.PaymentMethod)
	}

	type scanRow struct {
		OrderID       uint
		OrderCode     string
		CreatedAt     time.Time
		PaymentMethod string
		ProductID     *string
		ProductName   string
		CategoryName  *string
		Quantity      int
		UnitPrice     int
	}

	var scanned []scanRow
	if err := query.Order("orders.created_at ASC, order_items.id ASC").Scan(&scanned).Error; err != nil {
		return nil, err
	}

	rows := make([]SaleRow, 0, len(scanned))
	for _, row := range scanned {
		category := uncategorized
		if row.CategoryName != nil && *row.CategoryName != "" {
			category = *row.CategoryName
		}
		rows = append(rows, SaleRow{
			OrderID:       row.OrderID,
			OrderCode:     row.OrderCode,
			CreatedAt:     row.CreatedAt,
			PaymentMethod: enums.PaymentMethod(row.PaymentMethod),
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			CategoryName:  category,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			LineTotal:     row.Quantity * row.UnitPrice,
		})
	}
	return rows, nil
}

func (r *repository) ProductSnapshots(ctx context.Context) (map[string]ProductSnapshot, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	snapshots := make(map[string]ProductSnapshot, len(products))
	for _, product := range products {
		snapshot := snapshots[product.Name]
		snapshot.Stock += product.Stock
		if product.Price > snapshot.ListPrice {
			snapshot.ListPrice = product.Price
		}
		snapshots[product.Name] = snapshot
	}
	return snapshots, nil
}
