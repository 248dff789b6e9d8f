package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/model"
)

// InventoryService defines the service methods needed by inventory handlers.
// Satisfied by *service.Service; narrow interface for testability.
type InventoryService interface {
	Stock(ctx context.Context, lowOnly bool) []model.StockItem
	SaveStockItem(ctx context.Context, it model.StockItem) (model.StockItem, error)
	DeleteStockItem(ctx context.Context, id string) error
}

// InventoryHandler handles raw material stock.
type InventoryHandler struct {
	svc InventoryService
}

func NewInventoryHandler(svc InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// RegisterRoutes registers inventory endpoints. Expected to be mounted at
// /inventory.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /inventory?low=true.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	low, _ := strconv.ParseBool(r.URL.Query().Get("low"))
	writeJSON(w, http.StatusOK, h.svc.Stock(r.Context(), low))
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var it model.StockItem
	if !decodeBody(w, r, &it) {
		return
	}
	it.ID = ""
	saved, err := h.svc.SaveStockItem(r.Context(), it)
	respondSaved(w, http.StatusCreated, saved, err)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var it model.StockItem
	if !decodeBody(w, r, &it) {
		return
	}
	it.ID = chi.URLParam(r, "id")
	saved, err := h.svc.SaveStockItem(r.Context(), it)
	respondSaved(w, http.StatusOK, saved, err)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, h.svc.DeleteStockItem(r.Context(), chi.URLParam(r, "id")))
}
