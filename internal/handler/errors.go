package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/pricing"
	"github.com/rr-restro/pos/internal/service"
)

// validationErrors are reported to the client as 400 with their message.
var validationErrors = []error{
	service.ErrInvalidInput,
	service.ErrEmptyCart,
	service.ErrInvalidStatus,
	service.ErrInvalidPayment,
	pricing.ErrItemNotFound,
	pricing.ErrItemNotSold,
	pricing.ErrVariantNotFound,
	pricing.ErrAddOnNotFound,
	pricing.ErrAddOnNotOffered,
	pricing.ErrDuplicateAddOn,
	pricing.ErrInvalidPromoCode,
	pricing.ErrPromoMinimum,
	pricing.ErrInvalidDiscountType,
	pricing.ErrNegativeDiscount,
	pricing.ErrNegativeVAT,
	pricing.ErrInvalidQuantity,
	accounting.ErrInvalidAmount,
	accounting.ErrNegativeAmount,
	accounting.ErrAdvanceLimitExceeded,
	accounting.ErrReasonRequired,
	accounting.ErrDescriptionRequired,
	accounting.ErrInvalidEntryType,
	filter.ErrInvalidFrequency,
	filter.ErrInvalidDate,
}

// writeServiceError maps a service error to its HTTP status. Unknown errors
// are logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownBranch):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrConfirmationRequired), errors.Is(err, accounting.ErrRequestNotPending):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// criteriaFromRequest reads branch_id, frequency, start_date and end_date.
// Callers who may not see every branch default to their first branch; asking
// for a branch outside their assignment (ALL included) is forbidden.
func criteriaFromRequest(w http.ResponseWriter, r *http.Request) (filter.Criteria, bool) {
	q := r.URL.Query()
	c, err := filter.ParseCriteria(q.Get("branch_id"), q.Get("frequency"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return filter.Criteria{}, false
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return filter.Criteria{}, false
	}
	if claims.Role == enum.UserRoleSuperAdmin {
		return c, true
	}
	if q.Get("branch_id") == "" && len(claims.BranchIDs) > 0 {
		c.BranchID = claims.BranchIDs[0]
	}
	if !claims.CanAccessBranch(c.BranchID) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this branch"})
		return filter.Criteria{}, false
	}
	return c, true
}

// confirmed reports whether the request carries confirm=true.
func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
