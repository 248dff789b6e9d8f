// Package accounting produces ledger entries and staff payment requests:
// sales income, cancellation reversals, vouchers, the monthly salary cycle
// and request approval.
package accounting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

// Ledger categories.
const (
	CategorySales          = "Sales"
	CategorySalesReturn    = "Sales Return"
	CategoryPayroll        = "Payroll"
	CategoryStaffAdvance   = "Staff Advance"
	CategoryPayrollAdvance = "Payroll / Staff Advance"
)

const salaryReasonPrefix = "Salary Request"

var (
	ErrRequestNotPending    = errors.New("request is no longer pending")
	ErrInvalidAmount        = errors.New("amount must be > 0")
	ErrNegativeAmount       = errors.New("amount must be >= 0")
	ErrAdvanceLimitExceeded = errors.New("amount exceeds advance limit")
	ErrReasonRequired       = errors.New("reason is required")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrInvalidEntryType     = errors.New("invalid entry type")
)

// SaleEntry is the INCOME entry recorded when an order is placed.
func SaleEntry(o model.Order, now time.Time) model.AccountingEntry {
	method := o.PaymentMethod
	if method == "" {
		method = enum.PaymentMethodCash
	}
	return model.AccountingEntry{
		ID:          model.NewID(model.PrefixIncome),
		Date:        model.At(now),
		Description: fmt.Sprintf("Sales - Order #%s (%s)", model.ShortRef(o.ID), method),
		Type:        enum.EntryTypeIncome,
		Amount:      o.Total,
		Category:    CategorySales,
		BranchID:    o.BranchID,
		OrderID:     o.ID,
	}
}

// NeedsReversal reports whether moving an order from one status to another
// must book a cancellation reversal.
func NeedsReversal(from, to string) bool {
	return to == enum.OrderStatusCancelled && from != enum.OrderStatusCancelled
}

// Reversal is the EXPENSE entry booked when an order is cancelled. The
// original INCOME entry is left in place.
func Reversal(o model.Order, now time.Time) model.AccountingEntry {
	return model.AccountingEntry{
		ID:          model.NewID(model.PrefixReversal),
		Date:        model.At(now),
		Description: fmt.Sprintf("Cancellation Reversal - Order #%s", model.ShortRef(o.ID)),
		Type:        enum.EntryTypeExpense,
		Amount:      o.Total,
		Category:    CategorySalesReturn,
		BranchID:    o.BranchID,
		OrderID:     o.ID,
	}
}

// Voucher is a manually entered ledger line.
type Voucher struct {
	Description string
	Type        string
	Amount      decimal.Decimal
	Category    string
	BranchID    string
}

// NewVoucherEntry validates v and turns it into a ledger entry.
func NewVoucherEntry(v Voucher, now time.Time) (model.AccountingEntry, error) {
	if strings.TrimSpace(v.Description) == "" {
		return model.AccountingEntry{}, ErrDescriptionRequired
	}
	if !enum.IsEntryType(v.Type) {
		return model.AccountingEntry{}, ErrInvalidEntryType
	}
	if v.Amount.IsNegative() {
		return model.AccountingEntry{}, ErrNegativeAmount
	}
	return model.AccountingEntry{
		ID:          model.NewID(model.PrefixVoucher),
		Date:        model.At(now),
		Description: strings.TrimSpace(v.Description),
		Type:        v.Type,
		Amount:      v.Amount,
		Category:    strings.TrimSpace(v.Category),
		BranchID:    v.BranchID,
	}, nil
}

// NewAdvanceRequest builds a staff self-service withdrawal request. The
// advance limit applies only when the user has one configured.
func NewAdvanceRequest(u model.User, amount decimal.Decimal, reason string, now time.Time) (model.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return model.WithdrawalRequest{}, ErrInvalidAmount
	}
	if u.AdvanceLimit.IsPositive() && amount.GreaterThan(u.AdvanceLimit) {
		return model.WithdrawalRequest{}, fmt.Errorf("%w (%s)", ErrAdvanceLimitExceeded, u.AdvanceLimit.String())
	}
	if strings.TrimSpace(reason) == "" {
		return model.WithdrawalRequest{}, ErrReasonRequired
	}
	return model.WithdrawalRequest{
		ID:        model.NewID(model.PrefixRequest),
		UserID:    u.ID,
		UserName:  u.Name,
		Amount:    amount,
		Reason:    strings.TrimSpace(reason),
		Status:    enum.RequestStatusPending,
		CreatedAt: model.At(now),
	}, nil
}

// Approve moves a pending request to APPROVED and returns the matching
// EXPENSE entry booked against branchID.
func Approve(req *model.WithdrawalRequest, branchID string, now time.Time) (model.AccountingEntry, error) {
	if req.Status != enum.RequestStatusPending {
		return model.AccountingEntry{}, ErrRequestNotPending
	}
	req.Status = enum.RequestStatusApproved
	return model.AccountingEntry{
		ID:          model.NewID(model.PrefixPayment),
		Date:        model.At(now),
		Description: fmt.Sprintf("Payment Fulfillment - %s (%s)", req.UserName, req.Reason),
		Type:        enum.EntryTypeExpense,
		Amount:      req.Amount,
		Category:    CategoryPayrollAdvance,
		BranchID:    branchID,
	}, nil
}

// Reject moves a pending request to REJECTED. Nothing is booked.
func Reject(req *model.WithdrawalRequest) error {
	if req.Status != enum.RequestStatusPending {
		return ErrRequestNotPending
	}
	req.Status = enum.RequestStatusRejected
	return nil
}

// Summary is the ledger overview.
type Summary struct {
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Payroll     decimal.Decimal `json:"payroll"`
	Advances    decimal.Decimal `json:"advances"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Net         decimal.Decimal `json:"net"`
}

// Summarize totals the ledger. Liabilities are the pending requests.
func Summarize(entries []model.AccountingEntry, requests []model.WithdrawalRequest) Summary {
	s := Summary{
		Income:      decimal.Zero,
		Expense:     decimal.Zero,
		Payroll:     decimal.Zero,
		Advances:    decimal.Zero,
		Liabilities: decimal.Zero,
	}
	for _, e := range entries {
		if e.Type == enum.EntryTypeIncome {
			s.Income = s.Income.Add(e.Amount)
			continue
		}
		s.Expense = s.Expense.Add(e.Amount)
		switch e.Category {
		case CategoryPayroll, CategoryPayrollAdvance:
			s.Payroll = s.Payroll.Add(e.Amount)
		case CategoryStaffAdvance:
			s.Advances = s.Advances.Add(e.Amount)
		}
	}
	for _, r := range requests {
		if r.Status == enum.RequestStatusPending {
			s.Liabilities = s.Liabilities.Add(r.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}
