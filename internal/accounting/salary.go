package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

// MonthLabel formats the salary period, e.g. "October 2026".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// SalaryCycle drafts this month's salary requests. For each staff member
// without a pending or approved salary request for the month, advances taken
// since the first of the month (pending or approved, salary requests
// excluded) are deducted from the base salary. Staff with neither a net nor
// a base salary are skipped. now decides the month and its location.
func SalaryCycle(staff []model.User, requests []model.WithdrawalRequest, now time.Time, currencySymbol string) []model.WithdrawalRequest {
	month := MonthLabel(now)
	marker := salaryReasonPrefix + ": " + month
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var out []model.WithdrawalRequest
	for _, s := range staff {
		if hasSalaryRequest(requests, s.ID, marker) {
			continue
		}

		advances := decimal.Zero
		for _, r := range requests {
			if r.UserID != s.ID || !active(r) || r.CreatedAt.Before(monthStart) {
				continue
			}
			if strings.Contains(r.Reason, salaryReasonPrefix) {
				continue
			}
			advances = advances.Add(r.Amount)
		}

		net := decimal.Max(decimal.Zero, s.Salary.Sub(advances))
		if !net.IsPositive() && !s.Salary.IsPositive() {
			continue
		}

		reason := marker
		if advances.IsPositive() {
			reason += fmt.Sprintf(" (Advances deducted: %s%s)", currencySymbol, advances.String())
		}
		out = append(out, model.WithdrawalRequest{
			ID:        model.NewID(model.PrefixSalary + "-" + s.ID),
			UserID:    s.ID,
			UserName:  s.Name,
			Amount:    net,
			Reason:    reason,
			Status:    enum.RequestStatusPending,
			CreatedAt: model.At(now),
		})
	}
	return out
}

// IsSalaryRequest reports whether the request came from the salary cycle.
func IsSalaryRequest(r model.WithdrawalRequest) bool {
	return strings.HasPrefix(r.Reason, salaryReasonPrefix)
}

func hasSalaryRequest(requests []model.WithdrawalRequest, userID, marker string) bool {
	for _, r := range requests {
		if r.UserID == userID && active(r) && strings.Contains(r.Reason, marker) {
			return true
		}
	}
	return false
}

func active(r model.WithdrawalRequest) bool {
	return r.Status == enum.RequestStatusPending || r.Status == enum.RequestStatusApproved
}
