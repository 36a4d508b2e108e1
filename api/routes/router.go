package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plantitas-de-la-fe/pos-backend/api/controllers"
	"github.com/plantitas-de-la-fe/pos-backend/api/middleware"
	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/internal/catalog"
	"github.com/plantitas-de-la-fe/pos-backend/internal/orders"
	"github.com/plantitas-de-la-fe/pos-backend/internal/reports"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/config"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
	pkgredis "github.com/plantitas-de-la-fe/pos-backend/pkg/redis"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *pkgredis.Client
	Catalog     catalog.Service
	Orders      orders.Service
	Alerts      alerts.Repository
	Reports     *reports.Service
	Idempotency pkgredis.IdempotencyStore
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Get("/me", controllers.Me(logg))

		staffWrites := middleware.RequireRole(logg, enums.MemberRoleAdmin, enums.MemberRoleBodeguero)
		sellers := middleware.RequireRole(logg, enums.MemberRoleAdmin, enums.MemberRoleVendedor)
		adminOnly := middleware.RequireRole(logg, enums.MemberRoleAdmin)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoriesList(deps.Catalog, logg))
			r.With(staffWrites).Post("/", controllers.CategoriesCreate(deps.Catalog, logg))
			r.With(staffWrites).Patch("/{categoryID}", controllers.CategoriesUpdate(deps.Catalog, logg))
			r.With(staffWrites).Delete("/{categoryID}", controllers.CategoriesDelete(deps.Catalog, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.Catalog, logg))
			r.Get("/{productID}", controllers.ProductsGet(deps.Catalog, logg))
			r.With(staffWrites).Post("/", controllers.ProductsCreate(deps.Catalog, logg))
			r.With(staffWrites).Patch("/{productID}", controllers.ProductsUpdate(deps.Catalog, logg))
			r.With(staffWrites).Delete("/{productID}", controllers.ProductsDelete(deps.Catalog, logg))
			r.With(staffWrites).Post("/{productID}/water", controllers.ProductsWater(deps.Catalog, logg))
			r.With(staffWrites).Post("/{productID}/extend-life", controllers.ProductsExtendLife(deps.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(sellers).Post("/", controllers.OrdersCreate(deps.Orders, logg))
			r.Get("/", controllers.OrdersList(cfg, deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrdersGet(deps.Orders, logg))
		})

		r.Get("/alerts", controllers.AlertsList(deps.Alerts, logg))
		r.Get("/care", controllers.CareList(deps.Catalog, logg))

		r.Route("/kpi", func(r chi.Router) {
			r.Get("/overview", controllers.KPIOverview(cfg, deps.Reports, logg))
			r.Get("/top-products", controllers.KPITopProducts(cfg, deps.Reports, logg))
			r.Get("/best-month", controllers.KPIBestMonth(cfg, deps.Reports, logg))
			r.Get("/monthly-series", controllers.KPIMonthlySeries(cfg, deps.Reports, logg))
			r.Get("/revenue-by-category", controllers.KPIRevenueByCategory(cfg, deps.Reports, logg))
			r.Get("/payment-methods", controllers.KPIPaymentMethods(cfg, deps.Reports, logg))
			r.Get("/daily-average", controllers.KPIDailyAverage(cfg, deps.Reports, logg))
			r.With(adminOnly).Get("/export-excel", controllers.ReportsExport(cfg, deps.Reports, logg))
			r.With(adminOnly).Get("/export-pdf", exportWithFormat(controllers.ReportsExport(cfg, deps.Reports, logg), "pdf"))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/query", controllers.ReportsQuery(cfg, deps.Reports, logg))
			r.Post("/query/export", controllers.ReportsQueryExport(cfg, deps.Reports, logg))
			r.Get("/export", controllers.ReportsExport(cfg, deps.Reports, logg))
			r.Post("/export", controllers.ReportsQueryExport(cfg, deps.Reports, logg))
		})
	})

	return r
}

// exportWithFormat pins the format query parameter so the legacy export-pdf
// path keeps working without the caller passing ?format=pdf.
func exportWithFormat(next http.HandlerFunc, format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		query.Set("format", format)
		r.URL.RawQuery = query.Encode()
		next.ServeHTTP(w, r)
	}
}
