package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/handler"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/service"
)

// branchLead may manage branches but only works at b1.
var branchLead = model.User{
	ID:                "u-lead",
	Role:              enum.UserRoleBranchManager,
	AssignedBranchIDs: []string{"b1"},
	Permissions:       []string{enum.PermBranches},
}

type mockBranchService struct {
	branches []model.Branch
	deleted  string
}

func newMockBranchService() *mockBranchService {
	return &mockBranchService{branches: model.DefaultBranches()}
}

func (m *mockBranchService) Branches(context.Context) []model.Branch { return m.branches }

func (m *mockBranchService) Branch(_ context.Context, id string) (model.Branch, error) {
	for _, b := range m.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Branch{}, fmt.Errorf("%w: %s", service.ErrUnknownBranch, id)
}

func (m *mockBranchService) SaveBranch(_ context.Context, b model.Branch) (model.Branch, error) {
	if b.ID == "" {
		b.ID = "BR-new"
	}
	m.branches = append(m.branches, b)
	return b, nil
}

func (m *mockBranchService) DeleteBranch(_ context.Context, id string, confirm bool) error {
	if !confirm {
		return service.ErrConfirmationRequired
	}
	m.deleted = id
	return nil
}

func newBranchRouter(svc handler.BranchService) http.Handler {
	h := handler.NewBranchHandler(svc)
	return authedRouter(func(r chi.Router) {
		r.Route("/branches", func(r chi.Router) {
			h.RegisterRoutes(r, middleware.RequirePermission(enum.PermBranches))
		})
	})
}

func TestBranches_ListIsOpen(t *testing.T) {
	router := newBranchRouter(newMockBranchService())

	rr := doRequest(t, router, "GET", "/branches", nil, tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusOK)
}

func TestBranches_SingleBranchNeedsAssignment(t *testing.T) {
	tests := []struct {
		name   string
		user   model.User
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"cashier reads own branch", cashier, "GET", "/branches/b1", nil, http.StatusOK},
		{"cashier reads other branch", cashier, "GET", "/branches/b2", nil, http.StatusForbidden},
		{"cashier updates own branch", cashier, "PUT", "/branches/b1", map[string]string{"name": "x"}, http.StatusForbidden},
		{"lead updates own branch", branchLead, "PUT", "/branches/b1", map[string]string{"name": "Banani"}, http.StatusOK},
		{"lead updates other branch", branchLead, "PUT", "/branches/b2", map[string]string{"name": "Gulshan"}, http.StatusForbidden},
		{"lead deletes other branch", branchLead, "DELETE", "/branches/b2?confirm=true", nil, http.StatusForbidden},
		{"super admin reads any branch", superAdmin, "GET", "/branches/b2", nil, http.StatusOK},
		{"super admin reads unknown branch", superAdmin, "GET", "/branches/b9", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBranchRouter(newMockBranchService())
			rr := doRequest(t, router, tt.method, tt.path, tt.body, tokenFor(t, tt.user))
			assertStatus(t, rr, tt.want)
		})
	}
}

func TestBranches_UpdateUsesPathID(t *testing.T) {
	svc := newMockBranchService()
	router := newBranchRouter(svc)

	rr := doRequest(t, router, "PUT", "/branches/b1", map[string]string{"id": "b2", "name": "Banani"}, tokenFor(t, branchLead))
	assertStatus(t, rr, http.StatusOK)
	if got := svc.branches[len(svc.branches)-1].ID; got != "b1" {
		t.Errorf("saved id = %q, want b1", got)
	}
}

func TestBranches_CreateAndDelete(t *testing.T) {
	svc := newMockBranchService()
	router := newBranchRouter(svc)
	tok := tokenFor(t, superAdmin)

	rr := doRequest(t, router, "POST", "/branches", map[string]string{"id": "b1", "name": "Uttara"}, tok)
	assertStatus(t, rr, http.StatusCreated)
	if got := decodeResponse(t, rr)["id"]; got != "BR-new" {
		t.Errorf("id = %v, want BR-new", got)
	}

	assertStatus(t, doRequest(t, router, "DELETE", "/branches/b2", nil, tok), http.StatusConflict)
	assertStatus(t, doRequest(t, router, "DELETE", "/branches/b2?confirm=true", nil, tok), http.StatusNoContent)
	if svc.deleted != "b2" {
		t.Errorf("deleted = %q, want b2", svc.deleted)
	}

	assertStatus(t, doRequest(t, router, "POST", "/branches", map[string]string{"name": "x"}, tokenFor(t, cashier)), http.StatusForbidden)
}
