package models

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// Product is a sellable plant (or accessory) on the shop shelf. Prices are
// integer Chilean pesos.
type Product struct {
	ID                    string                    `gorm:"column:id;size:20;primaryKey"`
	SKU                   string                    `gorm:"column:sku;size:64;not null;uniqueIndex"`
	Name                  string                    `gorm:"column:name;size:160;not null"`
	CategoryID            *uint                     `gorm:"column:category_id"`
	Category              *Category                 `gorm:"foreignKey:CategoryID"`
	Price                 int                       `gorm:"column:price;not null"`
	Stock                 int                       `gorm:"column:stock;not null;default:0"`
	DiscountPct           int                       `gorm:"column:discount_pct;not null;default:0"`
	WateringFrequencyDays *int                      `gorm:"column:watering_frequency_days"`
	ShelfLifeDays         *int                      `gorm:"column:shelf_life_days"`
	ClimateSensitivity    *enums.ClimateSensitivity `gorm:"column:climate_sensitivity;size:16"`
	IntakeDate            time.Time                 `gorm:"column:intake_date;not null"`
	LastWateredAt         *time.Time                `gorm:"column:last_watered_at"`
	ImagePath             *string                   `gorm:"column:image_path;size:255"`
	CreatedAt             time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice applies the discount percentage and clamps at zero. The
// /100 division rounds half to even, so an exact .50 lands on the even peso.
func (p Product) EffectivePrice() int {
	price := p.Price * (100 - p.DiscountPct)
	if price <= 0 {
		return 0
	}
	effective, rem := price/100, price%100
	if rem > 50 || (rem == 50 && effective%2 == 1) {
		effective++
	}
	return effective
}
