package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/service"
)

// SettingsService defines the service methods needed by settings handlers.
// Satisfied by *service.Service; narrow interface for testability.
type SettingsService interface {
	Settings(ctx context.Context) model.Settings
	UpdateSettings(ctx context.Context, in model.Settings) (model.Settings, error)
	SavePromo(ctx context.Context, p model.PromoCode) (model.PromoCode, error)
	DeletePromo(ctx context.Context, id string) error
	Export(ctx context.Context) service.Backup
	Import(ctx context.Context, b service.Backup, confirm bool) error
}

// SettingsHandler handles app settings, promo codes and backups.
type SettingsHandler struct {
	svc SettingsService
}

func NewSettingsHandler(svc SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// RegisterRoutes registers settings endpoints. Expected to be mounted at
// /settings. Every signed-in terminal may read the settings; everything else
// goes through manage.
func (h *SettingsHandler) RegisterRoutes(r chi.Router, manage func(http.Handler) http.Handler) {
	r.Get("/", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(manage)
		r.Put("/", h.Update)
		r.Post("/promos", h.CreatePromo)
		r.Put("/promos/{id}", h.UpdatePromo)
		r.Delete("/promos/{id}", h.DeletePromo)
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
	})
}

// --- Handlers ---

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings(r.Context()))
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var s model.Settings
	if !decodeBody(w, r, &s) {
		return
	}
	saved, err := h.svc.UpdateSettings(r.Context(), s)
	respondSaved(w, http.StatusOK, saved, err)
}

func (h *SettingsHandler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var p model.PromoCode
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = ""
	saved, err := h.svc.SavePromo(r.Context(), p)
	respondSaved(w, http.StatusCreated, saved, err)
}

func (h *SettingsHandler) UpdatePromo(w http.ResponseWriter, r *http.Request) {
	var p model.PromoCode
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "id")
	saved, err := h.svc.SavePromo(r.Context(), p)
	respondSaved(w, http.StatusOK, saved, err)
}

func (h *SettingsHandler) DeletePromo(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, h.svc.DeletePromo(r.Context(), chi.URLParam(r, "id")))
}

// Export downloads the whole state as one JSON document.
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	b := h.svc.Export(r.Context())
	name := "rr-restro-backup"
	if len(b.ExportDate) >= 10 {
		name += "-" + b.ExportDate[:10]
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.json"`)
	writeJSON(w, http.StatusOK, b)
}

// Import handles POST /settings/import?confirm=true. Slices present in the
// document replace the current ones.
func (h *SettingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	var b service.Backup
	if !decodeBody(w, r, &b) {
		return
	}
	if err := h.svc.Import(r.Context(), b, confirmed(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
