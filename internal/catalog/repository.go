package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists categories, products and care log entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	CountProductsInCategory(ctx context.Context, id uint) (int64, error)

	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
	ProductIDExists(ctx context.Context, id string) (bool, error)
	ListProducts(ctx context.Context, search string) ([]models.Product, error)
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	DetachOrderItems(ctx context.Context, productID string) error
	DeleteProduct(ctx context.Context, id string) error

	CreateCareEntry(ctx context.Context, entry *models.PlantCare) error
	ListCare(ctx context.Context, productID *string) ([]models.PlantCare, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed catalog repository.
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

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *repository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (r *repository) CountProductsInCategory(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) ProductIDExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) DetachOrderItems(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Update("product_id", nil).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Alert{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.PlantCare{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (r *repository) CreateCareEntry(ctx context.Context, entry *models.PlantCare) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListCare(ctx context.Context, productID *string) ([]models.PlantCare, error) {
	query := r.db.WithContext(ctx).Model(&models.PlantCare{}).Preload("Product")
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var entries []models.PlantCare
	if err := query.Order("performed_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
