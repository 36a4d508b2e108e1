package controllers

import (
	"net/http"
	"strings"

	"github.com/plantitas-de-la-fe/pos-backend/api/responses"
	"github.com/plantitas-de-la-fe/pos-backend/internal/catalog"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

// CareList returns the care audit log, optionally scoped to one product.
func CareList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var productID *string
		if raw := strings.TrimSpace(r.URL.Query().Get("producto")); raw != "" {
			productID = &raw
		}

		entries, err := svc.ListCare(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
