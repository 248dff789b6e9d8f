package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/service"
	"github.com/shopspring/decimal"
)

// WalletService defines the service methods needed by wallet handlers.
// Satisfied by *service.Service; narrow interface for testability.
type WalletService interface {
	Wallet(ctx context.Context, userID string) (service.Wallet, error)
	RequestAdvance(ctx context.Context, userID string, amount decimal.Decimal, reason string) (model.WithdrawalRequest, error)
}

// WalletHandler is the staff self-service area: balance, salary and advance
// requests of the signed-in user.
type WalletHandler struct {
	svc WalletService
}

func NewWalletHandler(svc WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// RegisterRoutes registers wallet endpoints. Expected to be mounted at
// /wallet.
func (h *WalletHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/advances", h.RequestAdvance)
}

// --- Request / Response types ---

type advanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// --- Handlers ---

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	wallet, err := h.svc.Wallet(r.Context(), claims.UserID)
	respondSaved(w, http.StatusOK, wallet, err)
}

// RequestAdvance files an advance request for the signed-in user. The amount
// may not exceed the user's advance limit when one is set.
func (h *WalletHandler) RequestAdvance(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	var req advanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := h.svc.RequestAdvance(r.Context(), claims.UserID, req.Amount, req.Reason)
	respondSaved(w, http.StatusCreated, created, err)
}
