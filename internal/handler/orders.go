package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/receipt"
)

// OrderService defines the service methods needed by order handlers.
// Satisfied by *service.Service; narrow interface for testability.
type OrderService interface {
	Orders(ctx context.Context, c filter.Criteria, status string) []model.Order
	Order(ctx context.Context, id string) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (model.Order, error)
	DeleteOrder(ctx context.Context, id string, confirm bool) error
	Receipt(ctx context.Context, orderID string) (receipt.Receipt, error)
}

// OrderHandler handles order history, kitchen status and receipts.
type OrderHandler struct {
	svc          OrderService
	receiptWidth int
}

// NewOrderHandler creates a new OrderHandler. receiptWidth is the number of
// characters per line on the thermal printer.
func NewOrderHandler(svc OrderService, receiptWidth int) *OrderHandler {
	return &OrderHandler{svc: svc, receiptWidth: receiptWidth}
}

// RegisterRoutes registers order endpoints. Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/receipt", h.Receipt)
}

// --- Request / Response types ---

type updateStatusRequest struct {
	Status string `json:"status"`
}

// --- Handlers ---

// List handles GET /orders?branch_id=&frequency=&start_date=&end_date=&status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := criteriaFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Orders(r.Context(), c, r.URL.Query().Get("status")))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	o, ok := h.load(w, r)
	if !ok {
		return
	}
	updated, err := h.svc.UpdateOrderStatus(r.Context(), o.ID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /orders/{id}?confirm=true.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), o.ID, confirmed(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Receipt handles GET /orders/{id}/receipt?format=text|html|escpos.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r)
	if !ok {
		return
	}
	rc, err := h.svc.Receipt(r.Context(), o.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(receipt.Text(rc, h.receiptWidth)))
	case "html":
		page, err := receipt.HTML(rc)
		if err != nil {
			log.Printf("ERROR: render receipt %s: %v", o.ID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	case "escpos":
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+rc.Ref()+`.bin"`)
		w.WriteHeader(http.StatusOK)
		w.Write(receipt.ESCPOS(rc, h.receiptWidth))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be text, html or escpos"})
	}
}

// --- Helpers ---

// load fetches the {id} order and checks the caller works at its branch.
func (h *OrderHandler) load(w http.ResponseWriter, r *http.Request) (model.Order, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return model.Order{}, false
	}

	o, err := h.svc.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return model.Order{}, false
	}
	if !claims.CanAccessBranch(o.BranchID) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this branch"})
		return model.Order{}, false
	}
	return o, true
}
