package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
)

// Service exposes KPI queries, the generic report builder and the fixed
// export datasets, all read-only over paid orders.
type Service struct {
	repo Repository
	loc  *time.Location
}

// NewService constructs a reports service instance.
func NewService(repo Repository, loc *time.Location) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc}, nil
}

func (s *Service) sales(ctx context.Context, filters Filters) ([]SaleRow, error) {
	rows, err := s.repo.FetchSales(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sales")
	}
	return rows, nil
}

// Table is a labeled dataset ready for JSON, Excel or PDF rendering.
type Table struct {
	Title   string   `json:"title"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
	// MoneyColumns marks zero-based column indexes that hold peso amounts so
	// exporters can apply currency formatting.
	MoneyColumns []int `json:"-"`
}

// FixedReport renders one of the canned datasets used by the export
// endpoints: productos, medios, categorias or the per-line detail.
func (s *Service) FixedReport(ctx context.Context, name string, filters Filters) (*Table, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}

	switch name {
	case "productos":
		return s.productTable(ctx, rows)
	case "medios":
		return paymentTable(rows), nil
	case "categorias":
		return categoryTable(rows), nil
	default:
		return detailTable(rows), nil
	}
}

func (s *Service) productTable(ctx context.Context, rows []SaleRow) (*Table, error) {
	snapshots, err := s.repo.ProductSnapshots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product snapshots")
	}

	report := buildProductReport(rows, snapshots, rangeDays(rows))
	table := &Table{
		Title:        "Ventas por producto",
		Headers:      []string{"Producto", "Categoría", "Cantidad", "Precio unitario", "Monto", "Precio promedio", "Stock actual", "Última venta", "Rotación diaria"},
		MoneyColumns: []int{3, 4, 5},
	}
	for _, row := range report {
		lastSale := ""
		if row.UltimaVenta != nil {
			lastSale = row.UltimaVenta.In(s.loc).Format("02/01/2006")
		}
		table.Rows = append(table.Rows, []any{
			row.Producto, row.Categoria, row.Cantidad, row.PrecioUnitario,
			row.Monto, row.PrecioPromedio, row.StockActual, lastSale, row.RotacionDiaria,
		})
	}
	return table, nil
}

func paymentTable(rows []SaleRow) *Table {
	buckets := bucketPayments(rows)
	table := &Table{
		Title:        "Ventas por medio de pago",
		Headers:      []string{"Medio de pago", "Tickets", "Porcentaje", "Monto"},
		MoneyColumns: []int{3},
	}
	for _, bucket := range buckets {
		table.Rows = append(table.Rows, []any{bucket.Label, bucket.Value, bucket.Porcentaje, bucket.Monto})
	}
	return table
}

func categoryTable(rows []SaleRow) *Table {
	totals := map[string]int{}
	quantities := map[string]int{}
	for _, row := range rows {
		totals[row.CategoryName] += row.LineTotal
		quantities[row.CategoryName] += row.Quantity
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return totals[names[i]] > totals[names[j]] })

	table := &Table{
		Title:        "Ventas por categoría",
		Headers:      []string{"Categoría", "Cantidad", "Monto"},
		MoneyColumns: []int{2},
	}
	for _, name := range names {
		table.Rows = append(table.Rows, []any{name, quantities[name], totals[name]})
	}
	return table
}

func detailTable(rows []SaleRow) *Table {
	table := &Table{
		Title:        "Detalle de ventas",
		Headers:      []string{"Orden", "Fecha", "Medio de pago", "Producto", "Categoría", "Cantidad", "Precio unitario", "Total línea"},
		MoneyColumns: []int{6, 7},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []any{
			row.OrderCode,
			row.CreatedAt.Format("02/01/2006 15:04"),
			row.PaymentMethod.String(),
			row.ProductName,
			row.CategoryName,
			row.Quantity,
			row.UnitPrice,
			row.LineTotal,
		})
	}
	return table
}

// rangeDays counts calendar days covered by the rows, used as the divisor for
// daily rotation. Empty data falls back to 30.
func rangeDays(rows []SaleRow) int {
	if len(rows) == 0 {
		return 30
	}
	first, last := rows[0].CreatedAt, rows[0].CreatedAt
	for _, row := range rows {
		if row.CreatedAt.Before(first) {
			first = row.CreatedAt
		}
		if row.CreatedAt.After(last) {
			last = row.CreatedAt
		}
	}
	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
