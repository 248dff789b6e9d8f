package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/model"
)

// MenuService defines the service methods needed by menu management handlers.
// Satisfied by *service.Service; narrow interface for testability.
type MenuService interface {
	MenuItems(ctx context.Context) []model.MenuItem
	SaveMenuItem(ctx context.Context, m model.MenuItem) (model.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error

	Categories(ctx context.Context) []model.Category
	SaveCategory(ctx context.Context, c model.Category) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	AddOns(ctx context.Context) []model.AddOn
	SaveAddOn(ctx context.Context, a model.AddOn) (model.AddOn, error)
	DeleteAddOn(ctx context.Context, id string) error
}

// MenuHandler manages menu items, categories and add-ons.
type MenuHandler struct {
	svc MenuService
}

func NewMenuHandler(svc MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

// RegisterRoutes registers menu endpoints. Expected to be mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Put("/{id}", h.UpdateItem)
		r.Delete("/{id}", h.DeleteItem)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
	r.Route("/addons", func(r chi.Router) {
		r.Get("/", h.ListAddOns)
		r.Post("/", h.CreateAddOn)
		r.Put("/{id}", h.UpdateAddOn)
		r.Delete("/{id}", h.DeleteAddOn)
	})
}

// --- Menu items ---

func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.MenuItems(r.Context()))
}

func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var m model.MenuItem
	if !decodeBody(w, r, &m) {
		return
	}
	m.ID = ""
	saved, err := h.svc.SaveMenuItem(r.Context(), m)
	respondSaved(w, http.StatusCreated, saved, err)
}

func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var m model.MenuItem
	if !decodeBody(w, r, &m) {
		return
	}
	m.ID = chi.URLParam(r, "id")
	saved, err := h.svc.SaveMenuItem(r.Context(), m)
	respondSaved(w, http.StatusOK, saved, err)
}

func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, h.svc.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")))
}

// --- Categories ---

func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Categories(r.Context()))
}

func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if !decodeBody(w, r, &c) {
		return
	}
	c.ID = ""
	saved, err := h.svc.SaveCategory(r.Context(), c)
	respondSaved(w, http.StatusCreated, saved, err)
}

// UpdateCategory renames a category; items filed under it follow.
func (h *MenuHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if !decodeBody(w, r, &c) {
		return
	}
	c.ID = chi.URLParam(r, "id")
	saved, err := h.svc.SaveCategory(r.Context(), c)
	respondSaved(w, http.StatusOK, saved, err)
}

func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")))
}

// --- Add-ons ---

func (h *MenuHandler) ListAddOns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.AddOns(r.Context()))
}

func (h *MenuHandler) CreateAddOn(w http.ResponseWriter, r *http.Request) {
	var a model.AddOn
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = ""
	saved, err := h.svc.SaveAddOn(r.Context(), a)
	respondSaved(w, http.StatusCreated, saved, err)
}

func (h *MenuHandler) UpdateAddOn(w http.ResponseWriter, r *http.Request) {
	var a model.AddOn
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = chi.URLParam(r, "id")
	saved, err := h.svc.SaveAddOn(r.Context(), a)
	respondSaved(w, http.StatusOK, saved, err)
}

// DeleteAddOn also unlinks the add-on from every menu item.
func (h *MenuHandler) DeleteAddOn(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, h.svc.DeleteAddOn(r.Context(), chi.URLParam(r, "id")))
}

// --- Helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func respondSaved(w http.ResponseWriter, status int, v interface{}, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func respondDeleted(w http.ResponseWriter, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
