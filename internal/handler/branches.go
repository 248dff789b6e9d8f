package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
)

// BranchService defines the service methods needed by branch handlers.
// Satisfied by *service.Service; narrow interface for testability.
type BranchService interface {
	Branches(ctx context.Context) []model.Branch
	Branch(ctx context.Context, id string) (model.Branch, error)
	SaveBranch(ctx context.Context, b model.Branch) (model.Branch, error)
	DeleteBranch(ctx context.Context, id string, confirm bool) error
}

// BranchHandler handles branch endpoints.
type BranchHandler struct {
	svc BranchService
}

func NewBranchHandler(svc BranchService) *BranchHandler {
	return &BranchHandler{svc: svc}
}

// RegisterRoutes registers branch endpoints. Expected to be mounted at
// /branches. The list is open to any signed-in user; a single branch needs
// an assignment to it, and writes also go through manage.
func (h *BranchHandler) RegisterRoutes(r chi.Router, manage func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.With(manage).Post("/", h.Create)

	r.Route("/{bid}", func(r chi.Router) {
		r.Use(middleware.RequireBranch)
		r.Get("/", h.Get)
		r.With(manage).Put("/", h.Update)
		r.With(manage).Delete("/", h.Delete)
	})
}

// --- Handlers ---

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Branches(r.Context()))
}

func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Branch(r.Context(), chi.URLParam(r, "bid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b model.Branch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	b.ID = ""

	saved, err := h.svc.SaveBranch(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	var b model.Branch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	b.ID = chi.URLParam(r, "bid")

	saved, err := h.svc.SaveBranch(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Delete handles DELETE /branches/{bid}?confirm=true.
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBranch(r.Context(), chi.URLParam(r, "bid"), confirmed(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
