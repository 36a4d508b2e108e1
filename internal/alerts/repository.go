package alerts

import (
	"context"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists care alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, alert *models.Alert) error
	List(ctx context.Context, filters ListFilters) ([]models.Alert, error)
	FindUnresolved(ctx context.Context, productID string, kind enums.AlertKind) ([]models.Alert, error)
	ResolveKind(ctx context.Context, productID string, kind enums.AlertKind, at time.Time) error
	ListUnresolvedCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Alert, error)
}

// ListFilters narrow the alert listing.
type ListFilters struct {
	ProductID *string
	Kind      *enums.AlertKind
	Resolved  *bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed alert repository.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Alert, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{}).Preload("Product")
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.Resolved != nil {
		query = query.Where("resolved = ?", *filters.Resolved)
	}

	var alerts []models.Alert
	if err := query.Order("created_at DESC, id DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repository) FindUnresolved(ctx context.Context, productID string, kind enums.AlertKind) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND kind = ? AND resolved = ?", productID, kind, false).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repository) ResolveKind(ctx context.Context, productID string, kind enums.AlertKind, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("product_id = ? AND kind = ? AND resolved = ?", productID, kind, false).
		Updates(map[string]any{"resolved": true, "resolved_at": at}).Error
}

func (r *repository) ListUnresolvedCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("resolved = ? AND created_at >= ? AND created_at < ?", false, from, to).
		Order("created_at ASC, id ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}
