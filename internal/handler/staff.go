package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/model"
)

// StaffService defines the service methods needed by staff handlers.
// Satisfied by *service.Service; narrow interface for testability.
type StaffService interface {
	Staff(ctx context.Context) []model.User
	User(ctx context.Context, id string) (model.User, error)
	SaveUser(ctx context.Context, u model.User) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
	Impersonate(ctx context.Context, id string) (model.User, error)
}

// StaffHandler manages staff accounts.
type StaffHandler struct {
	svc       StaffService
	jwtSecret string
}

func NewStaffHandler(svc StaffService, jwtSecret string) *StaffHandler {
	return &StaffHandler{svc: svc, jwtSecret: jwtSecret}
}

// RegisterRoutes registers staff endpoints. Expected to be mounted at /staff.
func (h *StaffHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.With(middleware.RequireRole(enum.UserRoleSuperAdmin)).Post("/{id}/impersonate", h.Impersonate)
}

// --- Handlers ---

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Staff(r.Context()))
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.User(r.Context(), chi.URLParam(r, "id"))
	respondSaved(w, http.StatusOK, u, err)
}

// Create adds a staff member. A password is required.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var u model.User
	if !decodeBody(w, r, &u) {
		return
	}
	u.ID = ""
	if !h.canGrant(w, r, u) {
		return
	}
	saved, err := h.svc.SaveUser(r.Context(), u)
	respondSaved(w, http.StatusCreated, saved, err)
}

// Update replaces a staff member. An empty password keeps the current one.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	var u model.User
	if !decodeBody(w, r, &u) {
		return
	}
	u.ID = chi.URLParam(r, "id")
	if !h.canGrant(w, r, u) {
		return
	}
	saved, err := h.svc.SaveUser(r.Context(), u)
	respondSaved(w, http.StatusOK, saved, err)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id")))
}

// Impersonate signs in as another staff member and returns their tokens.
func (h *StaffHandler) Impersonate(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Impersonate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondWithTokens(w, h.jwtSecret, u)
}

// canGrant stops anyone but a super admin from creating or promoting a
// super admin.
func (h *StaffHandler) canGrant(w http.ResponseWriter, r *http.Request, u model.User) bool {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return false
	}
	if u.Role == enum.UserRoleSuperAdmin && claims.Role != enum.UserRoleSuperAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "only a super admin can grant that role"})
		return false
	}
	return true
}
