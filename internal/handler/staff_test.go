package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/auth"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/handler"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/service"
)

// --- Mock service ---

type mockStaffService struct {
	users map[string]model.User
	saved []model.User
}

func newMockStaffService() *mockStaffService {
	return &mockStaffService{users: map[string]model.User{
		superAdmin.ID: superAdmin,
		cashier.ID:    cashier,
	}}
}

func (m *mockStaffService) Staff(context.Context) []model.User {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Public())
	}
	return out
}

func (m *mockStaffService) User(_ context.Context, id string) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, service.ErrNotFound)
	}
	return u.Public(), nil
}

func (m *mockStaffService) SaveUser(_ context.Context, u model.User) (model.User, error) {
	if u.ID == "" {
		u.ID = "USR-new"
	}
	m.saved = append(m.saved, u)
	return u.Public(), nil
}

func (m *mockStaffService) DeleteUser(_ context.Context, id string) error {
	if m.users[id].Role == enum.UserRoleSuperAdmin {
		return fmt.Errorf("%w: cannot delete the last super admin", service.ErrInvalidInput)
	}
	delete(m.users, id)
	return nil
}

func (m *mockStaffService) Impersonate(ctx context.Context, id string) (model.User, error) {
	return m.User(ctx, id)
}

func newStaffRouter(svc handler.StaffService) http.Handler {
	h := handler.NewStaffHandler(svc, testJWTSecret)
	return authedRouter(func(r chi.Router) {
		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequirePermission(enum.PermStaff))
			h.RegisterRoutes(r)
		})
	})
}

// --- Tests ---

func TestStaff_PermissionGuard(t *testing.T) {
	router := newStaffRouter(newMockStaffService())

	assertStatus(t, doRequest(t, router, "GET", "/staff", nil, tokenFor(t, cashier)), http.StatusForbidden)
	assertStatus(t, doRequest(t, router, "GET", "/staff", nil, tokenFor(t, manager)), http.StatusOK)
	assertStatus(t, doRequest(t, router, "GET", "/staff", nil, tokenFor(t, superAdmin)), http.StatusOK)
}

func TestStaff_CreateAndUpdate(t *testing.T) {
	svc := newMockStaffService()
	router := newStaffRouter(svc)
	tok := tokenFor(t, manager)

	body := map[string]interface{}{
		"id":                "ignored",
		"name":              "Waiter",
		"role":              enum.UserRoleWaiter,
		"username":          "waiter",
		"password":          "secret",
		"assignedBranchIds": []string{"b1"},
		"salary":            12000,
	}
	rr := doRequest(t, router, "POST", "/staff", body, tok)
	assertStatus(t, rr, http.StatusCreated)
	resp := decodeResponse(t, rr)
	if resp["id"] != "USR-new" {
		t.Errorf("id = %v, want a fresh id", resp["id"])
	}
	if _, ok := resp["password"]; ok {
		t.Error("response leaks password")
	}
	if svc.saved[0].Password != "secret" {
		t.Error("password not passed to the service")
	}

	rr = doRequest(t, router, "PUT", "/staff/u-cash", map[string]interface{}{"name": "Renamed", "role": enum.UserRoleCashier, "username": "cash"}, tok)
	assertStatus(t, rr, http.StatusOK)
	if svc.saved[1].ID != "u-cash" {
		t.Errorf("update id = %q, want u-cash from the path", svc.saved[1].ID)
	}
}

func TestStaff_OnlySuperAdminGrantsSuperAdmin(t *testing.T) {
	svc := newMockStaffService()
	router := newStaffRouter(svc)
	body := map[string]interface{}{"name": "Boss", "role": enum.UserRoleSuperAdmin, "username": "boss", "password": "x"}

	assertStatus(t, doRequest(t, router, "POST", "/staff", body, tokenFor(t, manager)), http.StatusForbidden)
	assertStatus(t, doRequest(t, router, "POST", "/staff", body, tokenFor(t, superAdmin)), http.StatusCreated)
}

func TestStaff_DeleteLastSuperAdmin(t *testing.T) {
	router := newStaffRouter(newMockStaffService())

	rr := doRequest(t, router, "DELETE", "/staff/admin-1", nil, tokenFor(t, superAdmin))
	assertStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, router, "DELETE", "/staff/u-cash", nil, tokenFor(t, superAdmin))
	assertStatus(t, rr, http.StatusNoContent)

	rr = doRequest(t, router, "GET", "/staff/u-cash", nil, tokenFor(t, superAdmin))
	assertStatus(t, rr, http.StatusNotFound)
}

func TestStaff_Impersonate(t *testing.T) {
	router := newStaffRouter(newMockStaffService())

	rr := doRequest(t, router, "POST", "/staff/u-cash/impersonate", nil, tokenFor(t, manager))
	assertStatus(t, rr, http.StatusForbidden)

	rr = doRequest(t, router, "POST", "/staff/u-cash/impersonate", nil, tokenFor(t, superAdmin))
	assertStatus(t, rr, http.StatusOK)

	access, _ := decodeResponse(t, rr)["access_token"].(string)
	claims, err := auth.ValidateToken(testJWTSecret, access)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != cashier.ID || claims.Role != enum.UserRoleCashier {
		t.Errorf("claims = %+v, want the impersonated cashier", claims)
	}
}
