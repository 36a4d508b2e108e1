package catalog

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// CategoryDTO is the wire shape for a category.
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProductDTO is the wire shape for a product, including the derived sale price.
type ProductDTO struct {
	ID                    string     `json:"id"`
	SKU                   string     `json:"sku"`
	Name                  string     `json:"name"`
	CategoryID            *uint      `json:"category_id,omitempty"`
	CategoryName          *string    `json:"category_name,omitempty"`
	Price                 int        `json:"price"`
	EffectivePrice        int        `json:"effective_price"`
	Stock                 int        `json:"stock"`
	DiscountPct           int        `json:"discount_pct"`
	WateringFrequencyDays *int       `json:"watering_frequency_days,omitempty"`
	ShelfLifeDays         *int       `json:"shelf_life_days,omitempty"`
	ClimateSensitivity    *string    `json:"climate_sensitivity,omitempty"`
	IntakeDate            time.Time  `json:"intake_date"`
	LastWateredAt         *time.Time `json:"last_watered_at,omitempty"`
	ImagePath             *string    `json:"image_path,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// CareEntryDTO is the wire shape for one care log row.
type CareEntryDTO struct {
	ID          uint             `json:"id"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Action      enums.CareAction `json:"action"`
	PerformedAt time.Time        `json:"performed_at"`
	PerformedBy *string          `json:"performed_by,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	ID                    string
	SKU                   string
	Name                  string
	CategoryID            *uint
	Price                 int
	Stock                 int
	DiscountPct           int
	WateringFrequencyDays *int
	ShelfLifeDays         *int
	ClimateSensitivity    *enums.ClimateSensitivity
	IntakeDate            *time.Time
	ImagePath             *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU                   *string
	Name                  *string
	CategoryID            *uint
	ClearCategory         bool
	Price                 *int
	Stock                 *int
	DiscountPct           *int
	WateringFrequencyDays *int
	ShelfLifeDays         *int
	ClimateSensitivity    *enums.ClimateSensitivity
	IntakeDate            *time.Time
	ImagePath             *string
}

// CareActionInput captures who performed a manual care action and any notes.
type CareActionInput struct {
	PerformedBy *string
	Notes       string
}

func toCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{ID: category.ID, Name: category.Name}
}

func toProductDTO(product models.Product) ProductDTO {
	dto := ProductDTO{
		ID:                    product.ID,
		SKU:                   product.SKU,
		Name:                  product.Name,
		CategoryID:            product.CategoryID,
		Price:                 product.Price,
		EffectivePrice:        product.EffectivePrice(),
		Stock:                 product.Stock,
		DiscountPct:           product.DiscountPct,
		WateringFrequencyDays: product.WateringFrequencyDays,
		ShelfLifeDays:         product.ShelfLifeDays,
		IntakeDate:            product.IntakeDate,
		LastWateredAt:         product.LastWateredAt,
		ImagePath:             product.ImagePath,
		CreatedAt:             product.CreatedAt,
		UpdatedAt:             product.UpdatedAt,
	}
	if product.Category != nil {
		name := product.Category.Name
		dto.CategoryName = &name
	}
	if product.ClimateSensitivity != nil {
		value := product.ClimateSensitivity.String()
		dto.ClimateSensitivity = &value
	}
	return dto
}

func toCareEntryDTO(entry models.PlantCare) CareEntryDTO {
	dto := CareEntryDTO{
		ID:          entry.ID,
		ProductID:   entry.ProductID,
		Action:      entry.Action,
		PerformedAt: entry.PerformedAt,
		PerformedBy: entry.PerformedBy,
		Notes:       entry.Notes,
	}
	if entry.Product != nil {
		dto.ProductName = entry.Product.Name
	}
	return dto
}
