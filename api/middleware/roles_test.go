package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	called := false
	handler := RequireRole(nil, enums.MemberRoleAdmin, enums.MemberRoleBodeguero)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.MemberRoleBodeguero)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Fatal("handler should run for bodeguero")
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	handler := RequireRole(nil, enums.MemberRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/query", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.MemberRoleVendedor)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}
