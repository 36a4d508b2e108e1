package orders

import (
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// CreateOrderInput is the validated payload for a register sale.
type CreateOrderInput struct {
	PaymentMethod enums.PaymentMethod
	Items         []OrderItemInput
}

// OrderItemInput references a product and how many units were sold.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// ListFilters narrow the order listing.
type ListFilters struct {
	PaymentMethod *enums.PaymentMethod
	DateFrom      *time.Time
	DateTo        *time.Time
}

// OrderItemDTO is the wire shape for a sold line.
type OrderItemDTO struct {
	ID          uint    `json:"id"`
	ProductID   *string `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	ProductSKU  string  `json:"product_sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   int     `json:"unit_price"`
	PriceBase   int     `json:"price_base"`
	DiscountPct int     `json:"discount_pct"`
	LineTotal   int     `json:"line_total"`
}

// OrderDTO is the wire shape for an order with its lines.
type OrderDTO struct {
	ID            uint                `json:"id"`
	Code          string              `json:"code"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Status        enums.OrderStatus   `json:"status"`
	Total         int                 `json:"total"`
	Items         []OrderItemDTO      `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toOrderDTO(order models.Order, withItems bool) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		Code:          order.Code,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}
	if withItems {
		dto.Items = make([]OrderItemDTO, 0, len(order.Items))
		for _, item := range order.Items {
			dto.Items = append(dto.Items, OrderItemDTO{
				ID:          item.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				ProductSKU:  item.ProductSKU,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				PriceBase:   item.PriceBase,
				DiscountPct: item.DiscountPct,
				LineTotal:   item.LineTotal(),
			})
		}
	}
	return dto
}
