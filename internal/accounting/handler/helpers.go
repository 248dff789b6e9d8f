package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownBranch):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, accounting.ErrRequestNotPending):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, accounting.ErrInvalidAmount),
		errors.Is(err, accounting.ErrNegativeAmount),
		errors.Is(err, accounting.ErrDescriptionRequired),
		errors.Is(err, accounting.ErrInvalidEntryType),
		errors.Is(err, filter.ErrInvalidFrequency),
		errors.Is(err, filter.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: accounting: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// parseCriteria reads the ledger filters. Only super admins may look at
// every branch at once; everyone else defaults to their first branch.
func parseCriteria(w http.ResponseWriter, r *http.Request) (filter.Criteria, bool) {
	q := r.URL.Query()
	c, err := filter.ParseCriteria(q.Get("branch_id"), q.Get("frequency"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return filter.Criteria{}, false
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return filter.Criteria{}, false
	}
	if claims.Role != enum.UserRoleSuperAdmin && q.Get("branch_id") == "" && len(claims.BranchIDs) > 0 {
		c.BranchID = claims.BranchIDs[0]
	}
	if !claims.CanAccessBranch(c.BranchID) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this branch"})
		return filter.Criteria{}, false
	}
	return c, true
}

func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		fmt.Sscanf(v, "%d", &offset)
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// page cuts one page out of list. Past the end it is empty, never nil.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
