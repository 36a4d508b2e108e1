package controllers

import (
	"net/http"
	"strings"

	"github.com/plantitas-de-la-fe/pos-backend/api/responses"
	"github.com/plantitas-de-la-fe/pos-backend/api/validators"
	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

// AlertsList returns care alerts, optionally filtered by product, kind and
// resolution state.
func AlertsList(repo alerts.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := alerts.ListFilters{}

		if raw := strings.TrimSpace(r.URL.Query().Get("producto")); raw != "" {
			filters.ProductID = &raw
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := enums.ParseAlertKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid alert kind"))
				return
			}
			filters.Kind = &kind
		}
		resolved, err := validators.ParseQueryBool(r, "resolved")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Resolved = resolved

		rows, err := repo.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing alerts"))
			return
		}

		dtos := make([]alerts.AlertDTO, 0, len(rows))
		for _, row := range rows {
			dtos = append(dtos, alerts.ToDTO(row))
		}
		responses.WriteSuccess(w, dtos)
	}
}
