package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/pagination"
	"gorm.io/gorm"
)

const orderCodePrefix = "PDLF"

// Service exposes register sale operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uint) (*OrderDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo     Repository
	dbClient *db.Client
	loc      *time.Location
	now      func() time.Time
}

// NewService constructs an order service instance. The location sets the
// shop's calendar day for order codes.
func NewService(repo Repository, dbClient *db.Client, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &service{repo: repo, dbClient: dbClient, loc: loc, now: time.Now}, nil
}

// Create runs the whole sale in one transaction: every product row is locked,
// checked and decremented, and each line snapshots the product at its
// effective price. Any failure rolls everything back.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}

	var orderID uint
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order := &models.Order{
			PaymentMethod: input.PaymentMethod,
			Status:        enums.OrderStatusPaid,
			Total:         0,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		// The code derives from the row id, so it is assigned exactly once
		// right after insert.
		order.Code = fmt.Sprintf("%s-%s-%04d", orderCodePrefix, s.now().In(s.loc).Format("20060102"), order.ID)

		total := 0
		for _, item := range input.Items {
			product, err := repo.LockProduct(ctx, item.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking product")
			}
			if product == nil {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Producto '%s' no existe.", item.ProductID))
			}
			if product.Stock < item.Quantity {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Stock insuficiente para %s. Disponible: %d.", product.Name, product.Stock))
			}

			product.Stock -= item.Quantity
			if err := repo.SaveProduct(ctx, product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}

			unitPrice := product.EffectivePrice()
			line := &models.OrderItem{
				OrderID:     order.ID,
				ProductID:   &product.ID,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
				PriceBase:   product.Price,
				DiscountPct: product.DiscountPct,
			}
			if err := repo.CreateItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order item")
			}
			total += item.Quantity * unitPrice
		}

		order.Total = total
		if err := repo.SaveOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving order total")
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, orderID)
}

func (s *service) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := toOrderDTO(*order, true)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	result := &OrderList{Orders: make([]OrderDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, row := range rows {
		result.Orders = append(result.Orders, toOrderDTO(row, true))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}
