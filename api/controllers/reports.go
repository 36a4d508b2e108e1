package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/api/responses"
	"github.com/plantitas-de-la-fe/pos-backend/api/validators"
	"github.com/plantitas-de-la-fe/pos-backend/internal/reports"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/config"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

const (
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType   = "application/pdf"
)

type reportQueryRequest struct {
	Dimension string             `json:"dimension,omitempty"`
	Metrics   []string           `json:"metrics,omitempty"`
	Filters   reportQueryFilters `json:"filters,omitempty"`
	SortBy    string             `json:"sort_by,omitempty"`
	SortDir   string             `json:"sort_dir,omitempty" validate:"omitempty,oneof=asc desc"`
	Limit     int                `json:"limit,omitempty" validate:"omitempty,min=1,max=1000"`
}

type reportQueryFilters struct {
	Start     *string `json:"start,omitempty"`
	End       *string `json:"end,omitempty"`
	Categoria *string `json:"categoria,omitempty"`
	Producto  *string `json:"producto,omitempty"`
	MedioPago *string `json:"medio_pago,omitempty"`
}

func (req reportQueryRequest) toInput(loc *time.Location) (reports.QueryInput, error) {
	input := reports.QueryInput{
		Dimension: strings.TrimSpace(req.Dimension),
		Metrics:   req.Metrics,
		SortBy:    strings.TrimSpace(req.SortBy),
		SortDir:   strings.TrimSpace(req.SortDir),
		Limit:     req.Limit,
	}

	if req.Filters.Start != nil && *req.Filters.Start != "" {
		start, err := time.ParseInLocation(time.DateOnly, *req.Filters.Start, loc)
		if err != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid start date, expected YYYY-MM-DD")
		}
		input.Filters.Start = &start
	}
	if req.Filters.End != nil && *req.Filters.End != "" {
		end, err := time.ParseInLocation(time.DateOnly, *req.Filters.End, loc)
		if err != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid end date, expected YYYY-MM-DD")
		}
		endOfDay := end.AddDate(0, 0, 1)
		input.Filters.End = &endOfDay
	}
	if req.Filters.Categoria != nil {
		input.Filters.Category = strings.TrimSpace(*req.Filters.Categoria)
	}
	if req.Filters.Producto != nil {
		input.Filters.Product = strings.TrimSpace(*req.Filters.Producto)
	}
	if req.Filters.MedioPago != nil {
		input.Filters.PaymentMethod = strings.TrimSpace(*req.Filters.MedioPago)
	}
	return input, nil
}

// ReportsQuery runs the generic report builder and returns labeled rows.
func ReportsQuery(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reportQueryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(cfg.App.Location())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Query(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ReportsQueryExport renders the generic report as an Excel or PDF download.
func ReportsQueryExport(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reportQueryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(cfg.App.Location())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := svc.QueryTable(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeTableExport(w, r, cfg, logg, table, "reporte")
	}
}

// ReportsExport renders one of the fixed reports as an Excel or PDF download.
func ReportsExport(cfg *config.Config, svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := kpiFilters(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		name := strings.TrimSpace(r.URL.Query().Get("report"))
		if name == "" {
			name = "detalle"
		}
		table, err := svc.FixedReport(r.Context(), name, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeTableExport(w, r, cfg, logg, table, "reporte_"+name)
	}
}

func writeTableExport(w http.ResponseWriter, r *http.Request, cfg *config.Config, logg *logger.Logger, table *reports.Table, basename string) {
	now := time.Now().In(cfg.App.Location())
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))

	switch format {
	case "", "excel", "xlsx":
		payload, err := reports.RenderExcel(table, now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering excel"))
			return
		}
		responses.WriteFile(w, basename+"_"+now.Format("20060102")+".xlsx", excelContentType, payload)
	case "pdf":
		opts := reports.PDFOptions{
			Orientation: strings.TrimSpace(r.URL.Query().Get("orientation")),
			Size:        strings.TrimSpace(r.URL.Query().Get("size")),
		}
		payload, err := reports.RenderPDF(table, now, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering pdf"))
			return
		}
		responses.WriteFile(w, basename+"_"+now.Format("20060102")+".pdf", pdfContentType, payload)
	default:
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "format must be excel or pdf"))
	}
}
