package controllers

import (
	"net/http"
	"strings"

	"github.com/plantitas-de-la-fe/pos-backend/api/responses"
	"github.com/plantitas-de-la-fe/pos-backend/api/validators"
	"github.com/plantitas-de-la-fe/pos-backend/internal/reports"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/config"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

func kpiFilters(r *http.Request, cfg *config.Config) (reports.Filters, error) {
	filters := reports.Filters{}
	loc := cfg.App.Location()

	start, err := validators.ParseQueryDate(r, "start", loc)
	if err != nil {
		return filters, err
	}
	filters.Start = start

	end, err := validators.ParseQueryDate(r, "end", loc)
	if err != nil {
		return filters, err
	}
	if end != nil {
		endOfDay := end.AddDate(0, 0, 1)
		filters.End = &endOfDay
	}

	filters.Category = strings.TrimSpace(r.URL.Query().Get("categoria"))
	filters.Product = strings.TrimSpace(r.URL.Query().Get("producto"))
	filters.PaymentMethod = strings.TrimSpace(r.URL.Query().Get("medio_pago"))
	return filters, nil
}

func KPIOverview(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		overview, err := svc.Overview(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

func KPITopProducts(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 5, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		top, err := svc.TopProducts(r.Context(), filters, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, top)
	}
}

func KPIBestMonth(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		best, err := svc.BestMonth(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, best)
	}
}

func KPIMonthlySeries(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		series, err := svc.MonthlySeries(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}

func KPIRevenueByCategory(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ranked, err := svc.RevenueByCategory(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ranked)
	}
}

func KPIPaymentMethods(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buckets, err := svc.PaymentMethods(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buckets)
	}
}

func KPIDailyAverage(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		average, err := svc.DailyAverageRevenue(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, average)
	}
}
