package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/auth"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
)

const testJWTSecret = "test-secret"

var (
	superAdmin = model.User{
		ID:                "admin-1",
		Name:              "Super Admin",
		Role:              enum.UserRoleSuperAdmin,
		AssignedBranchIDs: []string{"b1", "b2"},
		Username:          "admin",
	}
	cashier = model.User{
		ID:                "u-cash",
		Name:              "Cashier One",
		Role:              enum.UserRoleCashier,
		AssignedBranchIDs: []string{"b1"},
		Username:          "cash",
		Permissions:       []string{enum.PermPOS, enum.PermOrders},
	}
	manager = model.User{
		ID:                "u-mgr",
		Name:              "Branch Manager",
		Role:              enum.UserRoleBranchManager,
		AssignedBranchIDs: []string{"b1", "b2"},
		Username:          "mgr",
		Permissions:       []string{enum.PermStaff, enum.PermDashboard},
	}
)

func tokenFor(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(testJWTSecret, u)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

// authedRouter mounts routes behind the real Authenticate middleware.
func authedRouter(mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	mount(r)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}
