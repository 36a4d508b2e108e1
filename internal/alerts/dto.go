package alerts

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// AlertDTO is the wire shape for a care alert.
type AlertDTO struct {
	ID          uint                `json:"id"`
	ProductID   string              `json:"product_id"`
	ProductName string              `json:"product_name,omitempty"`
	Kind        enums.AlertKind     `json:"kind"`
	Message     string              `json:"message"`
	Severity    enums.AlertSeverity `json:"severity"`
	Resolved    bool                `json:"resolved"`
	ResolvedAt  *time.Time          `json:"resolved_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToDTO maps a stored alert row to its wire shape.
func ToDTO(alert models.Alert) AlertDTO {
	dto := AlertDTO{
		ID:         alert.ID,
		ProductID:  alert.ProductID,
		Kind:       alert.Kind,
		Message:    alert.Message,
		Severity:   alert.Severity,
		Resolved:   alert.Resolved,
		ResolvedAt: alert.ResolvedAt,
		CreatedAt:  alert.CreatedAt,
	}
	if alert.Product != nil {
		dto.ProductName = alert.Product.Name
	}
	return dto
}
