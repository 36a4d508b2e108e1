package reports

import (
	"context"
	"sort"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Overview summarizes the whole sales window.
type Overview struct {
	TotalVentas    int `json:"total_ventas"`
	Tickets        int `json:"tickets"`
	TotalItems     int `json:"total_items"`
	TicketPromedio int `json:"ticket_promedio"`
}

// ProductCount ranks a product by units sold.
type ProductCount struct {
	Producto string `json:"producto"`
	Cantidad int    `json:"cantidad"`
}

// MonthTotal is one month of revenue.
type MonthTotal struct {
	Mes   string `json:"mes"`
	Total int    `json:"total"`
}

// SeriesPoint is a chart-friendly monthly datapoint.
type SeriesPoint struct {
	X string `json:"x"`
	Y int    `json:"y"`
}

// CategoryRevenue totals revenue per category.
type CategoryRevenue struct {
	Categoria string `json:"categoria"`
	Monto     int    `json:"monto"`
}

// PaymentBucket groups payment methods into register buckets.
type PaymentBucket struct {
	Label      string  `json:"label"`
	Value      int     `json:"value"`
	Porcentaje float64 `json:"porcentaje"`
	Monto      int     `json:"monto"`
}

// DailyAverage is revenue averaged over days with sales.
type DailyAverage struct {
	PromedioDiario int `json:"promedio_diario"`
	Dias           int `json:"dias"`
}

// Overview aggregates total revenue, ticket count, units and average ticket.
func (s *Service) Overview(ctx context.Context, filters Filters) (*Overview, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}

	tickets := map[uint]bool{}
	overview := &Overview{}
	for _, row := range rows {
		overview.TotalVentas += row.LineTotal
		overview.TotalItems += row.Quantity
		tickets[row.OrderID] = true
	}
	overview.Tickets = len(tickets)
	if overview.Tickets > 0 {
		overview.TicketPromedio = int(decimal.NewFromInt(int64(overview.TotalVentas)).
			Div(decimal.NewFromInt(int64(overview.Tickets))).
			Round(0).IntPart())
	}
	return overview, nil
}

// TopProducts ranks products by units sold.
func (s *Service) TopProducts(ctx context.Context, filters Filters, limit int) ([]ProductCount, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	counts := map[string]int{}
	for _, row := range rows {
		counts[row.ProductName] += row.Quantity
	}

	ranked := make([]ProductCount, 0, len(counts))
	for name, quantity := range counts {
		ranked = append(ranked, ProductCount{Producto: name, Cantidad: quantity})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Cantidad != ranked[j].Cantidad {
			return ranked[i].Cantidad > ranked[j].Cantidad
		}
		return ranked[i].Producto < ranked[j].Producto
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// MonthlySeries returns revenue per month in ascending month order.
func (s *Service) MonthlySeries(ctx context.Context, filters Filters) ([]SeriesPoint, error) {
	totals, err := s.monthlyTotals(ctx, filters)
	if err != nil {
		return nil, err
	}
	series := make([]SeriesPoint, 0, len(totals))
	for _, total := range totals {
		series = append(series, SeriesPoint{X: total.Mes, Y: total.Total})
	}
	return series, nil
}

// BestMonth returns the month with the highest revenue.
func (s *Service) BestMonth(ctx context.Context, filters Filters) (*MonthTotal, error) {
	totals, err := s.monthlyTotals(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return &MonthTotal{}, nil
	}
	best := totals[0]
	for _, total := range totals[1:] {
		if total.Total > best.Total {
			best = total
		}
	}
	return &best, nil
}

func (s *Service) monthlyTotals(ctx context.Context, filters Filters) ([]MonthTotal, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}

	byMonth := map[string]int{}
	for _, row := range rows {
		byMonth[row.CreatedAt.In(s.loc).Format("2006-01")] += row.LineTotal
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	totals := make([]MonthTotal, 0, len(months))
	for _, month := range months {
		totals = append(totals, MonthTotal{Mes: month, Total: byMonth[month]})
	}
	return totals, nil
}

// RevenueByCategory totals revenue per category, highest first.
func (s *Service) RevenueByCategory(ctx context.Context, filters Filters) ([]CategoryRevenue, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}

	totals := map[string]int{}
	for _, row := range rows {
		totals[row.CategoryName] += row.LineTotal
	}

	ranked := make([]CategoryRevenue, 0, len(totals))
	for name, total := range totals {
		ranked = append(ranked, CategoryRevenue{Categoria: name, Monto: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Monto != ranked[j].Monto {
			return ranked[i].Monto > ranked[j].Monto
		}
		return ranked[i].Categoria < ranked[j].Categoria
	})
	return ranked, nil
}

// PaymentMethods buckets sales into Efectivo / Tarjeta / Transferencia with
// ticket share percentages.
func (s *Service) PaymentMethods(ctx context.Context, filters Filters) ([]PaymentBucket, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}
	return bucketPayments(rows), nil
}

func bucketLabel(method enums.PaymentMethod) string {
	switch method {
	case enums.PaymentMethodCash:
		return "Efectivo"
	case enums.PaymentMethodBankTransfer:
		return "Transferencia"
	default:
		return "Tarjeta"
	}
}

func bucketPayments(rows []SaleRow) []PaymentBucket {
	type bucketAgg struct {
		tickets map[uint]bool
		amount  int
	}
	aggs := map[string]*bucketAgg{}
	totalTickets := map[uint]bool{}
	for _, row := range rows {
		label := bucketLabel(row.PaymentMethod)
		agg, ok := aggs[label]
		if !ok {
			agg = &bucketAgg{tickets: map[uint]bool{}}
			aggs[label] = agg
		}
		agg.tickets[row.OrderID] = true
		agg.amount += row.LineTotal
		totalTickets[row.OrderID] = true
	}

	buckets := make([]PaymentBucket, 0, len(aggs))
	for _, label := range []string{"Efectivo", "Tarjeta", "Transferencia"} {
		agg, ok := aggs[label]
		if !ok {
			continue
		}
		bucket := PaymentBucket{Label: label, Value: len(agg.tickets), Monto: agg.amount}
		if len(totalTickets) > 0 {
			pct := decimal.NewFromInt(int64(len(agg.tickets))).
				Div(decimal.NewFromInt(int64(len(totalTickets)))).
				Mul(decimal.NewFromInt(100)).
				Round(1)
			bucket.Porcentaje, _ = pct.Float64()
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// DailyAverageRevenue averages revenue over the days that had sales.
func (s *Service) DailyAverageRevenue(ctx context.Context, filters Filters) (*DailyAverage, error) {
	rows, err := s.sales(ctx, filters)
	if err != nil {
		return nil, err
	}

	byDay := map[string]int{}
	total := 0
	for _, row := range rows {
		byDay[row.CreatedAt.In(s.loc).Format(time.DateOnly)] += row.LineTotal
		total += row.LineTotal
	}
	result := &DailyAverage{Dias: len(byDay)}
	if len(byDay) > 0 {
		result.PromedioDiario = int(decimal.NewFromInt(int64(total)).
			Div(decimal.NewFromInt(int64(len(byDay)))).
			Round(0).IntPart())
	}
	return result, nil
}
