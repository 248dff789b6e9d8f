package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

// --- Service interface ---

// LedgerService is satisfied by *service.Service.
type LedgerService interface {
	Entries(ctx context.Context, c filter.Criteria) []model.AccountingEntry
	AddVoucher(ctx context.Context, v accounting.Voucher) (model.AccountingEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	Summary(ctx context.Context, c filter.Criteria) accounting.Summary
}

// --- LedgerHandler ---

type LedgerHandler struct {
	svc LedgerService
}

func NewLedgerHandler(svc LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

func (h *LedgerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/entries", h.ListEntries)
	r.Post("/vouchers", h.CreateVoucher)
	r.Delete("/entries/{id}", h.DeleteEntry)
	r.Get("/summary", h.Summary)
}

// --- Request / Response types ---

type voucherRequest struct {
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	BranchID    string          `json:"branch_id"`
}

// --- Handlers ---

// ListEntries handles GET /accounting/entries with the dashboard filters
// plus limit and offset.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	c, ok := parseCriteria(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)
	writeJSON(w, http.StatusOK, page(h.svc.Entries(r.Context(), c), limit, offset))
}

func (h *LedgerHandler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	var req voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.BranchID != "" {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil || !claims.CanAccessBranch(req.BranchID) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this branch"})
			return
		}
	}

	entry, err := h.svc.AddVoucher(r.Context(), accounting.Voucher{
		Description: req.Description,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		BranchID:    req.BranchID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /accounting/summary. Liabilities ignore the filters.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	c, ok := parseCriteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Summary(r.Context(), c))
}
