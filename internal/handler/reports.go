package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rr-restro/pos/internal/analytics"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/insight"
)

// ReportService defines the service methods needed by report handlers.
// Satisfied by *service.Service; narrow interface for testability.
type ReportService interface {
	Dashboard(ctx context.Context, c filter.Criteria) analytics.Dashboard
	Analytics(ctx context.Context, c filter.Criteria) analytics.Report
	InsightStats(ctx context.Context, c filter.Criteria) insight.Stats
}

// Insighter turns dashboard figures into advice. Satisfied by
// *insight.Analyst.
type Insighter interface {
	Insight(ctx context.Context, s insight.Stats) string
}

// ReportsHandler serves the dashboard and the analytics report.
type ReportsHandler struct {
	svc     ReportService
	analyst Insighter
}

func NewReportsHandler(svc ReportService, analyst Insighter) *ReportsHandler {
	return &ReportsHandler{svc: svc, analyst: analyst}
}

// RegisterDashboardRoutes registers dashboard endpoints. Expected to be
// mounted at /dashboard.
func (h *ReportsHandler) RegisterDashboardRoutes(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/insight", h.Insight)
}

// RegisterRoutes registers report endpoints. Expected to be mounted at
// /reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.Analytics)
}

// --- Request / Response types ---

type insightResponse struct {
	Insight string `json:"insight"`
}

// --- Handlers ---

// Dashboard handles GET /dashboard?branch_id=&frequency=&start_date=&end_date=.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	c, ok := criteriaFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Dashboard(r.Context(), c))
}

// Insight handles GET /dashboard/insight. It always answers 200; when the
// model is unreachable the body carries a fallback message.
func (h *ReportsHandler) Insight(w http.ResponseWriter, r *http.Request) {
	c, ok := criteriaFromRequest(w, r)
	if !ok {
		return
	}
	text := h.analyst.Insight(r.Context(), h.svc.InsightStats(r.Context(), c))
	writeJSON(w, http.StatusOK, insightResponse{Insight: text})
}

// Analytics handles GET /reports/analytics with the dashboard filters.
func (h *ReportsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	c, ok := criteriaFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Analytics(r.Context(), c))
}
