package models

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// Order is a completed register sale. Code is assigned once from the row id
// right after insert.
type Order struct {
	ID            uint                `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string              `gorm:"column:code;size:32;uniqueIndex"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;size:20;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;size:20;not null;default:paid"`
	Total         int                 `gorm:"column:total;not null;default:0"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
