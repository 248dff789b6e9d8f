package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/pricing"
	"github.com/rr-restro/pos/internal/service"
	"github.com/shopspring/decimal"
)

// POSService defines the service methods needed by the point-of-sale handlers.
// Satisfied by *service.Service; narrow interface for testability.
type POSService interface {
	Menu(ctx context.Context, branchID, category, search string) ([]model.MenuItem, error)
	Quote(ctx context.Context, req service.CheckoutRequest) (pricing.Quote, error)
	Checkout(ctx context.Context, req service.CheckoutRequest) (model.Order, error)
	Customer(ctx context.Context, phone string) service.CustomerInfo
}

// POSHandler serves the terminal: menu, cart pricing and checkout.
type POSHandler struct {
	svc POSService
}

func NewPOSHandler(svc POSService) *POSHandler {
	return &POSHandler{svc: svc}
}

// RegisterRoutes registers POS endpoints. Expected to be mounted at /pos.
func (h *POSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Post("/quote", h.Quote)
	r.Post("/checkout", h.Checkout)
	r.Get("/customers/{phone}", h.Customer)
}

// --- Request / Response types ---

type cartLineRequest struct {
	MenuItemID string   `json:"menu_item_id"`
	VariantID  string   `json:"variant_id"`
	Quantity   int      `json:"quantity"`
	AddOnIDs   []string `json:"add_on_ids"`
}

type discountRequest struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

type checkoutRequest struct {
	BranchID      string            `json:"branch_id"`
	Items         []cartLineRequest `json:"items"`
	TableNumber   string            `json:"table_number"`
	CounterNumber string            `json:"counter_number"`
	PaymentMethod string            `json:"payment_method"`
	CustomerPhone string            `json:"customer_phone"`
	CustomerName  string            `json:"customer_name"`
	Discount      *discountRequest  `json:"discount"`
	PromoCode     string            `json:"promo_code"`
	RedeemPoints  bool              `json:"redeem_points"`
}

// --- Handlers ---

// Menu handles GET /pos/menu?branch_id=&category=&search=.
func (h *POSHandler) Menu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	branchID := q.Get("branch_id")
	if branchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "branch_id is required"})
		return
	}
	if !h.canAccess(w, r, branchID) {
		return
	}

	items, err := h.svc.Menu(r.Context(), branchID, q.Get("category"), q.Get("search"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Quote prices a cart without placing it.
func (h *POSHandler) Quote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCart(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Quote(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Checkout places the order.
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCart(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Checkout(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Customer looks up the loyalty profile of a phone number.
func (h *POSHandler) Customer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Customer(r.Context(), chi.URLParam(r, "phone")))
}

// --- Helpers ---

func (h *POSHandler) decodeCart(w http.ResponseWriter, r *http.Request) (service.CheckoutRequest, bool) {
	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return service.CheckoutRequest{}, false
	}
	if body.BranchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "branch_id is required"})
		return service.CheckoutRequest{}, false
	}
	if !h.canAccess(w, r, body.BranchID) {
		return service.CheckoutRequest{}, false
	}

	req := service.CheckoutRequest{
		BranchID:      body.BranchID,
		UserID:        middleware.ClaimsFromContext(r.Context()).UserID,
		Lines:         make([]pricing.LineRequest, len(body.Items)),
		TableNumber:   body.TableNumber,
		CounterNumber: body.CounterNumber,
		PaymentMethod: body.PaymentMethod,
		CustomerPhone: body.CustomerPhone,
		CustomerName:  body.CustomerName,
		PromoCode:     body.PromoCode,
		RedeemPoints:  body.RedeemPoints,
	}
	for i, it := range body.Items {
		req.Lines[i] = pricing.LineRequest{
			MenuItemID: it.MenuItemID,
			VariantID:  it.VariantID,
			Quantity:   it.Quantity,
			AddOnIDs:   it.AddOnIDs,
		}
	}
	if body.Discount != nil {
		req.Discount = pricing.Discount{Type: body.Discount.Type, Value: body.Discount.Value}
	}
	return req, true
}

func (h *POSHandler) canAccess(w http.ResponseWriter, r *http.Request, branchID string) bool {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return false
	}
	if !claims.CanAccessBranch(branchID) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this branch"})
		return false
	}
	return true
}
