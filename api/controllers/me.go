package controllers

import (
	"net/http"

	"github.com/plantitas-de-la-fe/pos-backend/api/middleware"
	"github.com/plantitas-de-la-fe/pos-backend/api/responses"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

// Me echoes the authenticated actor from the request context.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"user_id": middleware.UserIDFromContext(r.Context()),
			"name":    middleware.UserNameFromContext(r.Context()),
			"role":    middleware.RoleFromContext(r.Context()),
		})
	}
}
