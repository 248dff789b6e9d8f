package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/analytics"
)

// CustomerService defines the service methods needed by customer handlers.
// Satisfied by *service.Service; narrow interface for testability.
type CustomerService interface {
	Customers(ctx context.Context) []analytics.Customer
}

// CustomerHandler lists customers derived from order history.
type CustomerHandler struct {
	svc CustomerService
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// RegisterRoutes registers customer endpoints. Expected to be mounted at
// /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// List handles GET /customers?search=. Search matches phone or name.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers := h.svc.Customers(r.Context())

	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	if search == "" {
		writeJSON(w, http.StatusOK, customers)
		return
	}
	matched := make([]analytics.Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(c.Phone, search) || strings.Contains(strings.ToLower(c.Name), search) {
			matched = append(matched, c)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}
