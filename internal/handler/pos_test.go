package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/handler"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/pricing"
	"github.com/rr-restro/pos/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mock service ---

type mockPOSService struct {
	lastCheckout service.CheckoutRequest
	checkoutErr  error
}

func (m *mockPOSService) Menu(_ context.Context, branchID, category, search string) ([]model.MenuItem, error) {
	if branchID != "b1" {
		return nil, fmt.Errorf("%w: %s", service.ErrUnknownBranch, branchID)
	}
	return []model.MenuItem{{ID: "m1", Name: "Classic Beef Burger", Category: "Burgers", Price: decimal.NewFromInt(350)}}, nil
}

func (m *mockPOSService) Quote(_ context.Context, req service.CheckoutRequest) (pricing.Quote, error) {
	return pricing.Quote{Subtotal: decimal.NewFromInt(700), Total: decimal.NewFromInt(700)}, nil
}

func (m *mockPOSService) Checkout(_ context.Context, req service.CheckoutRequest) (model.Order, error) {
	m.lastCheckout = req
	if m.checkoutErr != nil {
		return model.Order{}, m.checkoutErr
	}
	return model.Order{
		ID:       "ORD-1",
		BranchID: req.BranchID,
		UserID:   req.UserID,
		Status:   enum.OrderStatusPending,
		Total:    decimal.NewFromInt(700),
	}, nil
}

func (m *mockPOSService) Customer(_ context.Context, phone string) service.CustomerInfo {
	return service.CustomerInfo{Phone: phone, Name: "Rahim", Points: 42}
}

func newPOSRouter(svc handler.POSService) http.Handler {
	h := handler.NewPOSHandler(svc)
	return authedRouter(func(r chi.Router) {
		r.Route("/pos", h.RegisterRoutes)
	})
}

func checkoutBody(branchID string) map[string]interface{} {
	return map[string]interface{}{
		"branch_id": branchID,
		"items": []map[string]interface{}{
			{"menu_item_id": "m1", "variant_id": "v1", "quantity": 2, "add_on_ids": []string{"a1"}},
		},
		"payment_method": "BKASH",
		"customer_phone": "01700000000",
		"discount":       map[string]interface{}{"type": "PERCENT", "value": 10},
		"promo_code":     "first10",
		"redeem_points":  true,
	}
}

// --- Tests ---

func TestCheckout_Created(t *testing.T) {
	svc := &mockPOSService{}
	router := newPOSRouter(svc)

	rr := doRequest(t, router, "POST", "/pos/checkout", checkoutBody("b1"), tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusCreated)

	got := svc.lastCheckout
	if got.UserID != cashier.ID {
		t.Errorf("user id = %q, want the caller %q", got.UserID, cashier.ID)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 2 || got.Lines[0].AddOnIDs[0] != "a1" {
		t.Errorf("lines = %+v", got.Lines)
	}
	if got.Discount.Type != "PERCENT" || !got.Discount.Value.Equal(decimal.NewFromInt(10)) {
		t.Errorf("discount = %+v", got.Discount)
	}
	if !got.RedeemPoints || got.PromoCode != "first10" {
		t.Errorf("redeem/promo not passed through: %+v", got)
	}
	if resp := decodeResponse(t, rr); resp["id"] != "ORD-1" {
		t.Errorf("id = %v", resp["id"])
	}
}

func TestCheckout_ForbiddenBranch(t *testing.T) {
	svc := &mockPOSService{}
	router := newPOSRouter(svc)

	rr := doRequest(t, router, "POST", "/pos/checkout", checkoutBody("b2"), tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusForbidden)
	if svc.lastCheckout.BranchID != "" {
		t.Error("service called for a forbidden branch")
	}
}

func TestCheckout_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"promo minimum", fmt.Errorf("%w (300)", pricing.ErrPromoMinimum), http.StatusBadRequest},
		{"empty cart", service.ErrEmptyCart, http.StatusBadRequest},
		{"not sold here", pricing.ErrItemNotSold, http.StatusBadRequest},
		{"unknown branch", service.ErrUnknownBranch, http.StatusNotFound},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newPOSRouter(&mockPOSService{checkoutErr: tt.err})
			rr := doRequest(t, router, "POST", "/pos/checkout", checkoutBody("b1"), tokenFor(t, superAdmin))
			assertStatus(t, rr, tt.want)
		})
	}
}

func TestCheckout_BadBody(t *testing.T) {
	router := newPOSRouter(&mockPOSService{})

	rr := doRequest(t, router, "POST", "/pos/checkout", "not an object", tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, router, "POST", "/pos/checkout", map[string]string{}, tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestQuote(t *testing.T) {
	router := newPOSRouter(&mockPOSService{})

	rr := doRequest(t, router, "POST", "/pos/quote", checkoutBody("b1"), tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusOK)
	// money travels as a JSON number
	if got := decodeResponse(t, rr)["total"]; got != float64(700) {
		t.Errorf("total = %v (%T), want 700", got, got)
	}
}

func TestMenu(t *testing.T) {
	router := newPOSRouter(&mockPOSService{})
	tok := tokenFor(t, cashier)

	rr := doRequest(t, router, "GET", "/pos/menu?branch_id=b1&category=Burgers", nil, tok)
	assertStatus(t, rr, http.StatusOK)

	rr = doRequest(t, router, "GET", "/pos/menu", nil, tok)
	assertStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, router, "GET", "/pos/menu?branch_id=zz", nil, tokenFor(t, superAdmin))
	assertStatus(t, rr, http.StatusNotFound)
}

func TestCustomerLookup(t *testing.T) {
	router := newPOSRouter(&mockPOSService{})

	rr := doRequest(t, router, "GET", "/pos/customers/01700000000", nil, tokenFor(t, cashier))
	assertStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	if resp["phone"] != "01700000000" || resp["points"] != float64(42) {
		t.Errorf("resp = %v", resp)
	}
}
