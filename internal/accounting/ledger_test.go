package accounting_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

var dhaka = time.FixedZone("BDT", 6*60*60)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSaleEntry(t *testing.T) {
	now := time.Date(2026, 10, 16, 10, 0, 0, 0, dhaka)
	o := model.Order{ID: "ORD-1760590800000", BranchID: "b2", Total: d("820")}

	e := accounting.SaleEntry(o, now)
	if e.Description != "Sales - Order #1760590800000 (CASH)" {
		t.Errorf("description: got %q", e.Description)
	}
	if e.Type != "INCOME" || e.Category != "Sales" || e.BranchID != "b2" || e.OrderID != o.ID {
		t.Errorf("entry: got %+v", e)
	}
	if !e.Amount.Equal(d("820")) {
		t.Errorf("amount: got %s", e.Amount)
	}
	if !strings.HasPrefix(e.ID, "INC-") {
		t.Errorf("id: got %s", e.ID)
	}

	o.PaymentMethod = "BKASH"
	if got := accounting.SaleEntry(o, now).Description; got != "Sales - Order #1760590800000 (BKASH)" {
		t.Errorf("bkash description: got %q", got)
	}
}

func TestReversal(t *testing.T) {
	o := model.Order{ID: "ORD-42", BranchID: "b1", Total: d("500")}
	e := accounting.Reversal(o, time.Now())

	if e.Type != "EXPENSE" || e.Category != "Sales Return" || !e.Amount.Equal(d("500")) {
		t.Errorf("entry: got %+v", e)
	}
	if e.Description != "Cancellation Reversal - Order #42" {
		t.Errorf("description: got %q", e.Description)
	}
}

func TestNeedsReversal(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{"PENDING", "CANCELLED", true},
		{"SERVED", "CANCELLED", true},
		{"CANCELLED", "CANCELLED", false},
		{"CANCELLED", "PENDING", false},
		{"PENDING", "COOKING", false},
	}
	for _, tt := range tests {
		if got := accounting.NeedsReversal(tt.from, tt.to); got != tt.want {
			t.Errorf("%s->%s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestApproveAndReject(t *testing.T) {
	now := time.Now()
	req := model.WithdrawalRequest{ID: "REQ-1", UserName: "Karim", Amount: d("1500"), Reason: "Medical", Status: "PENDING"}

	e, err := accounting.Approve(&req, "b2", now)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if req.Status != "APPROVED" {
		t.Errorf("status: got %s", req.Status)
	}
	if e.Description != "Payment Fulfillment - Karim (Medical)" || e.Category != "Payroll / Staff Advance" || e.BranchID != "b2" {
		t.Errorf("entry: got %+v", e)
	}

	if _, err := accounting.Approve(&req, "b2", now); !errors.Is(err, accounting.ErrRequestNotPending) {
		t.Errorf("second approve: got %v", err)
	}
	if err := accounting.Reject(&req); !errors.Is(err, accounting.ErrRequestNotPending) {
		t.Errorf("reject approved: got %v", err)
	}

	other := model.WithdrawalRequest{Status: "PENDING"}
	if err := accounting.Reject(&other); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if other.Status != "REJECTED" {
		t.Errorf("status: got %s", other.Status)
	}
}

func TestNewAdvanceRequest(t *testing.T) {
	u := model.User{ID: "u1", Name: "Karim", AdvanceLimit: d("1000")}
	now := time.Now()

	req, err := accounting.NewAdvanceRequest(u, d("800"), " Rent ", now)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Status != "PENDING" || req.Reason != "Rent" || req.UserName != "Karim" {
		t.Errorf("request: got %+v", req)
	}

	if _, err := accounting.NewAdvanceRequest(u, d("1000.01"), "Rent", now); !errors.Is(err, accounting.ErrAdvanceLimitExceeded) {
		t.Errorf("over limit: got %v", err)
	}
	if _, err := accounting.NewAdvanceRequest(u, d("0"), "Rent", now); !errors.Is(err, accounting.ErrInvalidAmount) {
		t.Errorf("zero: got %v", err)
	}
	if _, err := accounting.NewAdvanceRequest(u, d("10"), "", now); !errors.Is(err, accounting.ErrReasonRequired) {
		t.Errorf("no reason: got %v", err)
	}

	noLimit := model.User{ID: "u2"}
	if _, err := accounting.NewAdvanceRequest(noLimit, d("99999"), "Rent", now); err != nil {
		t.Errorf("no limit configured: got %v", err)
	}
}

func TestNewVoucherEntry(t *testing.T) {
	e, err := accounting.NewVoucherEntry(accounting.Voucher{
		Description: "Gas cylinder", Type: "EXPENSE", Amount: d("1200"), Category: "Utilities", BranchID: "b1",
	}, time.Now())
	if err != nil {
		t.Fatalf("voucher: %v", err)
	}
	if !strings.HasPrefix(e.ID, "ACC-") || e.Category != "Utilities" {
		t.Errorf("entry: got %+v", e)
	}

	if _, err := accounting.NewVoucherEntry(accounting.Voucher{Description: "x", Type: "LOAN"}, time.Now()); !errors.Is(err, accounting.ErrInvalidEntryType) {
		t.Errorf("type: got %v", err)
	}
	if _, err := accounting.NewVoucherEntry(accounting.Voucher{Description: "x", Type: "INCOME", Amount: d("-1")}, time.Now()); !errors.Is(err, accounting.ErrNegativeAmount) {
		t.Errorf("negative: got %v", err)
	}
	if _, err := accounting.NewVoucherEntry(accounting.Voucher{Type: "INCOME"}, time.Now()); !errors.Is(err, accounting.ErrDescriptionRequired) {
		t.Errorf("description: got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	entries := []model.AccountingEntry{
		{Type: "INCOME", Amount: d("1000")},
		{Type: "EXPENSE", Amount: d("200"), Category: "Payroll / Staff Advance"},
		{Type: "EXPENSE", Amount: d("100"), Category: "Payroll"},
		{Type: "EXPENSE", Amount: d("50"), Category: "Staff Advance"},
		{Type: "EXPENSE", Amount: d("25"), Category: "Sales Return"},
	}
	requests := []model.WithdrawalRequest{
		{Status: "PENDING", Amount: d("300")},
		{Status: "APPROVED", Amount: d("999")},
		{Status: "PENDING", Amount: d("20")},
	}

	s := accounting.Summarize(entries, requests)
	checks := map[string]struct {
		got  decimal.Decimal
		want string
	}{
		"income":      {s.Income, "1000"},
		"expense":     {s.Expense, "375"},
		"payroll":     {s.Payroll, "300"},
		"advances":    {s.Advances, "50"},
		"liabilities": {s.Liabilities, "320"},
		"net":         {s.Net, "625"},
	}
	for name, c := range checks {
		if !c.got.Equal(d(c.want)) {
			t.Errorf("%s: got %s, want %s", name, c.got, c.want)
		}
	}
}
