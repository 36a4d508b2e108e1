package models

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// PlantCare is an append-only audit entry for manual care interventions.
type PlantCare struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   string           `gorm:"column:product_id;size:20;not null;index;constraint:OnDelete:CASCADE"`
	Product     *Product         `gorm:"foreignKey:ProductID"`
	Action      enums.CareAction `gorm:"column:action;size:20;not null"`
	PerformedAt time.Time        `gorm:"column:performed_at;not null;index"`
	PerformedBy *string          `gorm:"column:performed_by;size:120"`
	Notes       string           `gorm:"column:notes;size:500"`
}
