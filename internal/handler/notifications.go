package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/model"
)

// NotificationService defines the service methods needed by notification
// handlers. Satisfied by *service.Service; narrow interface for testability.
type NotificationService interface {
	Notifications(ctx context.Context) []model.Notification
	MarkAllRead(ctx context.Context)
}

type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterRoutes registers notification endpoints. Expected to be mounted at
// /notifications.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/read", h.MarkAllRead)
}

// List returns the feed, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Notifications(r.Context()))
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.svc.MarkAllRead(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
