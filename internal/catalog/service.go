package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	productIDMaxLen      = 20
	productIDGenAttempts = 5

	lifeExtensionDefaultNotes = "Extensión de vida útil manual"
)

// Service exposes catalog and plant care operations.
type Service interface {
	CreateCategory(ctx context.Context, name string) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uint) error

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID string) (*ProductDTO, error)
	ListProducts(ctx context.Context, search string) ([]ProductDTO, error)
	DeleteProduct(ctx context.Context, productID string) error

	RecordWatering(ctx context.Context, productID string, input CareActionInput) (*ProductDTO, error)
	ExtendLife(ctx context.Context, productID string, input CareActionInput) (*ProductDTO, error)
	ListCare(ctx context.Context, productID *string) ([]CareEntryDTO, error)
}

type service struct {
	repo      Repository
	alertRepo alerts.Repository
	dbClient  *db.Client
	now       func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(repo Repository, alertRepo alerts.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if alertRepo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      repo,
		alertRepo: alertRepo,
		dbClient:  dbClient,
		now:       time.Now,
	}, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (*CategoryDTO, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{Name: trimmed}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}

	dto := toCategoryDTO(*category)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uint, name string) (*CategoryDTO, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	category.Name = trimmed
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}

	dto := toCategoryDTO(*category)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, toCategoryDTO(category))
	}
	return dtos, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	if category == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products").
			WithDetails(map[string]any{"products": count})
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := s.validateProductFields(input.Price, input.Stock, input.DiscountPct); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if input.CategoryID != nil {
		category, err := s.repo.FindCategoryByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
		}
		if category == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
	}

	productID := strings.TrimSpace(input.ID)
	if productID != "" {
		if len(productID) > productIDMaxLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id exceeds 20 characters")
		}
		exists, err := s.repo.ProductIDExists(ctx, productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking product id")
		}
		if exists {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product id already exists")
		}
	} else {
		generated, err := s.generateProductID(ctx)
		if err != nil {
			return nil, err
		}
		productID = generated
	}

	intake := s.now()
	if input.IntakeDate != nil {
		intake = *input.IntakeDate
	}

	product := &models.Product{
		ID:                    productID,
		SKU:                   sku,
		Name:                  name,
		CategoryID:            input.CategoryID,
		Price:                 input.Price,
		Stock:                 input.Stock,
		DiscountPct:           input.DiscountPct,
		WateringFrequencyDays: input.WateringFrequencyDays,
		ShelfLifeDays:         input.ShelfLifeDays,
		ClimateSensitivity:    input.ClimateSensitivity,
		IntakeDate:            intake,
		ImagePath:             input.ImagePath,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	if err := s.reconcileAlerts(ctx, nil, *product); err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.ClearCategory {
		product.CategoryID = nil
		product.Category = nil
	} else if input.CategoryID != nil {
		category, err := s.repo.FindCategoryByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
		}
		if category == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		product.CategoryID = input.CategoryID
		product.Category = nil
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.DiscountPct != nil {
		product.DiscountPct = *input.DiscountPct
	}
	if err := s.validateProductFields(product.Price, product.Stock, product.DiscountPct); err != nil {
		return nil, err
	}
	if input.WateringFrequencyDays != nil {
		product.WateringFrequencyDays = input.WateringFrequencyDays
	}
	if input.ShelfLifeDays != nil {
		product.ShelfLifeDays = input.ShelfLifeDays
	}
	if input.ClimateSensitivity != nil {
		product.ClimateSensitivity = input.ClimateSensitivity
	}
	if input.IntakeDate != nil {
		product.IntakeDate = *input.IntakeDate
	}
	if input.ImagePath != nil {
		product.ImagePath = input.ImagePath
	}

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	if err := s.reconcileAlerts(ctx, nil, *product); err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *service) GetProduct(ctx context.Context, productID string) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := toProductDTO(*product)
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, search string) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, toProductDTO(product))
	}
	return dtos, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DetachOrderItems(ctx, productID); err != nil {
			return fmt.Errorf("detaching order items: %w", err)
		}
		if err := repo.DeleteProduct(ctx, productID); err != nil {
			return fmt.Errorf("deleting product: %w", err)
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

// RecordWatering stamps the watering time, appends the care log entry and
// refreshes the product's alerts.
func (s *service) RecordWatering(ctx context.Context, productID string, input CareActionInput) (*ProductDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindProductByID(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		now := s.now()
		product.LastWateredAt = &now
		if err := repo.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving product")
		}

		entry := &models.PlantCare{
			ProductID:   product.ID,
			Action:      enums.CareActionWatering,
			PerformedAt: now,
			PerformedBy: input.PerformedBy,
			Notes:       input.Notes,
		}
		if err := repo.CreateCareEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording care entry")
		}

		reconciler, err := alerts.NewReconciler(s.alertRepo.WithTx(tx))
		if err != nil {
			return err
		}
		if err := reconciler.ForceResolve(ctx, product.ID, enums.AlertKindWatering); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving watering alerts")
		}
		if err := reconciler.Reconcile(ctx, *product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-evaluating alerts")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

// ExtendLife resets the intake date, logs the action and refreshes alerts.
// Open watering/overstock alerts are captured first and re-created afterwards
// so their history survives the intake reset.
func (s *service) ExtendLife(ctx context.Context, productID string, input CareActionInput) (*ProductDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		alertRepo := s.alertRepo.WithTx(tx)

		product, err := repo.FindProductByID(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		captured := make([]models.Alert, 0, 2)
		for _, kind := range []enums.AlertKind{enums.AlertKindWatering, enums.AlertKindOverstock} {
			open, err := alertRepo.FindUnresolved(ctx, product.ID, kind)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "capturing open alerts")
			}
			captured = append(captured, open...)
		}

		now := s.now()
		product.IntakeDate = now
		if err := repo.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving product")
		}

		notes := strings.TrimSpace(input.Notes)
		if notes == "" {
			notes = lifeExtensionDefaultNotes
		}
		entry := &models.PlantCare{
			ProductID:   product.ID,
			Action:      enums.CareActionLifeExtension,
			PerformedAt: now,
			PerformedBy: input.PerformedBy,
			Notes:       notes,
		}
		if err := repo.CreateCareEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording care entry")
		}

		reconciler, err := alerts.NewReconciler(alertRepo)
		if err != nil {
			return err
		}
		if err := reconciler.ForceResolve(ctx, product.ID, enums.AlertKindShelfLife); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving shelf life alerts")
		}
		if err := reconciler.Reconcile(ctx, *product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-evaluating alerts")
		}
		for _, alert := range captured {
			if err := reconciler.Restore(ctx, product.ID, alert.Kind, alert.Message, alert.Severity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring captured alerts")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

func (s *service) ListCare(ctx context.Context, productID *string) ([]CareEntryDTO, error) {
	entries, err := s.repo.ListCare(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing care entries")
	}
	dtos := make([]CareEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toCareEntryDTO(entry))
	}
	return dtos, nil
}

func (s *service) validateProductFields(price, stock, discountPct int) error {
	if price <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if discountPct < 0 || discountPct > 90 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 90")
	}
	return nil
}

func (s *service) generateProductID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < productIDGenAttempts; attempt++ {
		candidate := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		exists, err := s.repo.ProductIDExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking generated id")
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not generate a unique product id")
}

func (s *service) reconcileAlerts(ctx context.Context, tx *gorm.DB, product models.Product) error {
	repo := s.alertRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	reconciler, err := alerts.NewReconciler(repo)
	if err != nil {
		return err
	}
	if err := reconciler.Reconcile(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "evaluating alerts")
	}
	return nil
}
