package reports

import (
	"context"
	"sort"
	"time"

	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Supported dimensions and metrics of the generic report builder.
const (
	DimensionProduct       = "producto"
	DimensionCategory      = "categoria"
	DimensionPaymentMethod = "medio_pago"
	DimensionDay           = "fecha_dia"
	DimensionMonth         = "fecha_mes"
)

const (
	MetricQuantity      = "cantidad"
	MetricAmount        = "monto"
	MetricTickets       = "tickets"
	MetricAverageTicket = "ticket_promedio"
)

const defaultQueryLimit = 100

var validDimensions = map[string]bool{
	DimensionProduct:       true,
	DimensionCategory:      true,
	DimensionPaymentMethod: true,
	DimensionDay:           true,
	DimensionMonth:         true,
}

var validMetrics = map[string]bool{
	MetricQuantity:      true,
	MetricAmount:        true,
	MetricTickets:       true,
	MetricAverageTicket: true,
}

// QueryInput drives the generic report builder.
type QueryInput struct {
	Dimension string
	Metrics   []string
	Filters   Filters
	SortBy    string
	SortDir   string
	Limit     int
}

// QueryResult carries the labeled rows for the requested dimension.
type QueryResult struct {
	Dimension string           `json:"dimension"`
	Rows      []map[string]any `json:"rows"`
}

// ProductReportRow is the specialized per-product table.
type ProductReportRow struct {
	Producto       string     `json:"producto"`
	Categoria      string     `json:"categoria"`
	Cantidad       int        `json:"cantidad"`
	PrecioUnitario int        `json:"precio_unitario"`
	Monto          int        `json:"monto"`
	PrecioPromedio int        `json:"precio_promedio"`
	StockActual    int        `json:"stock_actual"`
	UltimaVenta    *time.Time `json:"ultima_venta,omitempty"`
	RotacionDiaria float64    `json:"rotacion_diaria"`
	// MargenPct stays null: the catalog carries no cost data.
	MargenPct *float64 `json:"margen_pct"`
}

// Query executes the generic report. Unknown dimensions fall back to
// medio_pago; unknown metrics are rejected so typos surface to the admin
// building the report.
func (s *Service) Query(ctx context.Context, input QueryInput) (*QueryResult, error) {
	dimension := input.Dimension
	if !validDimensions[dimension] {
		dimension = DimensionPaymentMethod
	}

	metrics := input.Metrics
	if len(metrics) == 0 {
		metrics = []string{MetricQuantity, MetricAmount, MetricTickets, MetricAverageTicket}
	}
	for _, metric := range metrics {
		if !validMetrics[metric] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown metric").
				WithDetails(map[string]string{"metric": metric})
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := s.sales(ctx, input.Filters)
	if err != nil {
		return nil, err
	}

	if dimension == DimensionProduct {
		return s.productQuery(ctx, rows, input, limit)
	}

	type groupAgg struct {
		quantity int
		amount   int
		tickets  map[uint]bool
	}
	groups := map[string]*groupAgg{}
	for _, row := range rows {
		key := s.dimensionKey(dimension, row)
		agg, ok := groups[key]
		if !ok {
			agg = &groupAgg{tickets: map[uint]bool{}}
			groups[key] = agg
		}
		agg.quantity += row.Quantity
		agg.amount += row.LineTotal
		agg.tickets[row.OrderID] = true
	}

	result := &QueryResult{Dimension: dimension, Rows: make([]map[string]any, 0, len(groups))}
	for key, agg := range groups {
		row := map[string]any{dimension: key}
		for _, metric := range metrics {
			switch metric {
			case MetricQuantity:
				row[MetricQuantity] = agg.quantity
			case MetricAmount:
				row[MetricAmount] = agg.amount
			case MetricTickets:
				row[MetricTickets] = len(agg.tickets)
			case MetricAverageTicket:
				average := 0
				if len(agg.tickets) > 0 {
					average = int(decimal.NewFromInt(int64(agg.amount)).
						Div(decimal.NewFromInt(int64(len(agg.tickets)))).
						Round(0).IntPart())
				}
				row[MetricAverageTicket] = average
			}
		}
		result.Rows = append(result.Rows, row)
	}

	sortRows(result.Rows, sortKey(input.SortBy, metrics, dimension), input.SortDir == "asc")
	if len(result.Rows) > limit {
		result.Rows = result.Rows[:limit]
	}
	return result, nil
}

func (s *Service) dimensionKey(dimension string, row SaleRow) string {
	switch dimension {
	case DimensionCategory:
		return row.CategoryName
	case DimensionDay:
		return row.CreatedAt.In(s.loc).Format(time.DateOnly)
	case DimensionMonth:
		return row.CreatedAt.In(s.loc).Format("2006-01")
	default:
		return row.PaymentMethod.String()
	}
}

func (s *Service) productQuery(ctx context.Context, rows []SaleRow, input QueryInput, limit int) (*QueryResult, error) {
	snapshots, err := s.repo.ProductSnapshots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product snapshots")
	}

	report := buildProductReport(rows, snapshots, queryDays(input.Filters))
	sortProductReport(report, input.SortBy, input.SortDir == "asc")
	if len(report) > limit {
		report = report[:limit]
	}

	result := &QueryResult{Dimension: DimensionProduct, Rows: make([]map[string]any, 0, len(report))}
	for _, row := range report {
		entry := map[string]any{
			"producto":        row.Producto,
			"categoria":       row.Categoria,
			"cantidad":        row.Cantidad,
			"precio_unitario": row.PrecioUnitario,
			"monto":           row.Monto,
			"precio_promedio": row.PrecioPromedio,
			"stock_actual":    row.StockActual,
			"rotacion_diaria": row.RotacionDiaria,
			"margen_pct":      row.MargenPct,
		}
		if row.UltimaVenta != nil {
			entry["ultima_venta"] = row.UltimaVenta.In(s.loc).Format(time.DateOnly)
		} else {
			entry["ultima_venta"] = nil
		}
		result.Rows = append(result.Rows, entry)
	}
	return result, nil
}

// queryDays is the rotation divisor: the filter range length when both bounds
// are set, otherwise 30, never below 1.
func queryDays(filters Filters) int {
	if filters.Start != nil && filters.End != nil {
		days := int(filters.End.Sub(*filters.Start).Hours()/24) + 1
		if days < 1 {
			return 1
		}
		return days
	}
	return 30
}

func buildProductReport(rows []SaleRow, snapshots map[string]ProductSnapshot, days int) []ProductReportRow {
	if days < 1 {
		days = 1
	}

	type productAgg struct {
		quantity  int
		amount    int
		lastSale  time.Time
		hasSale   bool
		category  string
		unitPrice int
	}
	aggs := map[string]*productAgg{}
	for _, row := range rows {
		agg, ok := aggs[row.ProductName]
		if !ok {
			agg = &productAgg{category: row.CategoryName}
			aggs[row.ProductName] = agg
		}
		agg.quantity += row.Quantity
		agg.amount += row.LineTotal
		if !agg.hasSale || row.CreatedAt.After(agg.lastSale) {
			agg.lastSale = row.CreatedAt
			agg.hasSale = true
		}
		if row.UnitPrice > agg.unitPrice {
			agg.unitPrice = row.UnitPrice
		}
	}

	report := make([]ProductReportRow, 0, len(aggs))
	for name, agg := range aggs {
		row := ProductReportRow{
			Producto:  name,
			Categoria: agg.category,
			Cantidad:  agg.quantity,
			Monto:     agg.amount,
		}
		// List price from the live catalog when available, otherwise the
		// best observed sale price.
		if snapshot, ok := snapshots[name]; ok && snapshot.ListPrice > 0 {
			row.PrecioUnitario = snapshot.ListPrice
			row.StockActual = snapshot.Stock
		} else {
			row.PrecioUnitario = agg.unitPrice
		}
		if agg.quantity > 0 {
			row.PrecioPromedio = int(decimal.NewFromInt(int64(agg.amount)).
				Div(decimal.NewFromInt(int64(agg.quantity))).
				Round(0).IntPart())
		}
		if agg.hasSale {
			lastSale := agg.lastSale
			row.UltimaVenta = &lastSale
		}
		rotation := decimal.NewFromInt(int64(agg.quantity)).
			Div(decimal.NewFromInt(int64(days))).
			Round(2)
		row.RotacionDiaria, _ = rotation.Float64()
		report = append(report, row)
	}

	sort.Slice(report, func(i, j int) bool {
		if report[i].Monto != report[j].Monto {
			return report[i].Monto > report[j].Monto
		}
		return report[i].Producto < report[j].Producto
	})
	return report
}

func sortProductReport(report []ProductReportRow, by string, ascending bool) {
	if by == "" {
		return
	}
	value := func(row ProductReportRow) float64 {
		switch by {
		case MetricQuantity:
			return float64(row.Cantidad)
		case MetricAmount:
			return float64(row.Monto)
		case "precio_unitario":
			return float64(row.PrecioUnitario)
		case "stock_actual":
			return float64(row.StockActual)
		case "rotacion_diaria":
			return row.RotacionDiaria
		default:
			return float64(row.Monto)
		}
	}
	sort.SliceStable(report, func(i, j int) bool {
		if ascending {
			return value(report[i]) < value(report[j])
		}
		return value(report[i]) > value(report[j])
	})
}

func sortKey(by string, metrics []string, dimension string) string {
	if by == dimension {
		return by
	}
	for _, metric := range metrics {
		if by == metric {
			return by
		}
	}
	for _, metric := range metrics {
		if metric == MetricAmount {
			return MetricAmount
		}
	}
	if len(metrics) > 0 {
		return metrics[0]
	}
	return dimension
}

func sortRows(rows []map[string]any, key string, ascending bool) {
	less := func(i, j int) bool {
		a, b := rows[i][key], rows[j][key]
		switch av := a.(type) {
		case int:
			bv, _ := b.(int)
			if ascending {
				return av < bv
			}
			return av > bv
		case string:
			bv, _ := b.(string)
			if ascending {
				return av < bv
			}
			return av > bv
		default:
			return false
		}
	}
	sort.SliceStable(rows, less)
}

var dimensionHeaders = map[string]string{
	DimensionCategory:      "Categoría",
	DimensionPaymentMethod: "Medio de pago",
	DimensionDay:           "Fecha",
	DimensionMonth:         "Mes",
}

var metricHeaders = map[string]string{
	MetricQuantity:      "Cantidad",
	MetricAmount:        "Monto",
	MetricTickets:       "Tickets",
	MetricAverageTicket: "Ticket promedio",
}

// QueryTable runs the generic report and shapes the result as an exportable
// table, so the same payload can feed JSON, Excel and PDF responses.
func (s *Service) QueryTable(ctx context.Context, input QueryInput) (*Table, error) {
	result, err := s.Query(ctx, input)
	if err != nil {
		return nil, err
	}

	if result.Dimension == DimensionProduct {
		table := &Table{
			Title:        "Reporte por producto",
			Headers:      []string{"Producto", "Categoría", "Cantidad", "Precio unitario", "Monto", "Precio promedio", "Stock actual", "Última venta", "Rotación diaria"},
			MoneyColumns: []int{3, 4, 5},
		}
		for _, row := range result.Rows {
			lastSale := ""
			if v, ok := row["ultima_venta"].(string); ok {
				lastSale = v
			}
			table.Rows = append(table.Rows, []any{
				row["producto"], row["categoria"], row["cantidad"], row["precio_unitario"],
				row["monto"], row["precio_promedio"], row["stock_actual"], lastSale, row["rotacion_diaria"],
			})
		}
		return table, nil
	}

	metrics := input.Metrics
	if len(metrics) == 0 {
		metrics = []string{MetricQuantity, MetricAmount, MetricTickets, MetricAverageTicket}
	}

	table := &Table{
		Title:   "Reporte por " + dimensionHeaders[result.Dimension],
		Headers: []string{dimensionHeaders[result.Dimension]},
	}
	for i, metric := range metrics {
		table.Headers = append(table.Headers, metricHeaders[metric])
		if metric == MetricAmount || metric == MetricAverageTicket {
			table.MoneyColumns = append(table.MoneyColumns, i+1)
		}
	}
	for _, row := range result.Rows {
		cells := []any{row[result.Dimension]}
		for _, metric := range metrics {
			cells = append(cells, row[metric])
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}
