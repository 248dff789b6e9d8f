package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
)

// --- Service interface ---

// RequestService is satisfied by *service.Service.
type RequestService interface {
	Requests(ctx context.Context, status, userID string) []model.WithdrawalRequest
	ApproveRequest(ctx context.Context, id string) (model.WithdrawalRequest, model.AccountingEntry, error)
	RejectRequest(ctx context.Context, id string) (model.WithdrawalRequest, error)
	RunSalaryCycle(ctx context.Context) []model.WithdrawalRequest
}

// --- RequestHandler ---

// RequestHandler is the back-office side of staff withdrawals: salary
// drafts and advance approvals.
type RequestHandler struct {
	svc RequestService
}

func NewRequestHandler(svc RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

func (h *RequestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/requests", h.ListRequests)
	r.Post("/requests/{id}/approve", h.Approve)
	r.Post("/requests/{id}/reject", h.Reject)
	r.Post("/salary-cycle", h.RunSalaryCycle)
}

// --- Request / Response types ---

type approveResponse struct {
	Request model.WithdrawalRequest `json:"request"`
	Entry   model.AccountingEntry   `json:"entry"`
}

// --- Handlers ---

func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))
	if status != "" && !enum.IsRequestStatus(status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}
	limit, offset := parsePagination(r)
	list := h.svc.Requests(r.Context(), status, r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, page(list, limit, offset))
}

// Approve pays out a pending request and returns the booked expense.
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	req, entry, err := h.svc.ApproveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{Request: req, Entry: entry})
}

func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.RejectRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// RunSalaryCycle drafts this month's salaries. Staff already drafted this
// month are skipped, so the response may be empty.
func (h *RequestHandler) RunSalaryCycle(w http.ResponseWriter, r *http.Request) {
	drafted := h.svc.RunSalaryCycle(r.Context())
	writeJSON(w, http.StatusOK, drafted)
}
