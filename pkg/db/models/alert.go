package models

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// Alert is a care warning raised against a product. At most one unresolved
// alert exists per (product, kind); the evaluator enforces that policy.
type Alert struct {
	ID         uint                `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  string              `gorm:"column:product_id;size:20;not null;index;constraint:OnDelete:CASCADE"`
	Product    *Product            `gorm:"foreignKey:ProductID"`
	Kind       enums.AlertKind     `gorm:"column:kind;size:20;not null;index"`
	Message    string              `gorm:"column:message;size:500;not null"`
	Severity   enums.AlertSeverity `gorm:"column:severity;size:16;not null"`
	Resolved   bool                `gorm:"column:resolved;not null;default:false;index"`
	ResolvedAt *time.Time          `gorm:"column:resolved_at"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}
