package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mock Request Service ---

type mockRequestService struct {
	requests   []model.WithdrawalRequest
	lastStatus string
	lastUser   string
	cycles     int
}

func newMockRequestService() *mockRequestService {
	return &mockRequestService{requests: []model.WithdrawalRequest{
		{ID: "WDR-1", UserID: "u-cash", UserName: "Cashier One", Amount: decimal.NewFromInt(2000), Reason: "rent", Status: enum.RequestStatusPending},
		{ID: "WDR-2", UserID: "u-cash", UserName: "Cashier One", Amount: decimal.NewFromInt(500), Reason: "bus", Status: enum.RequestStatusRejected},
	}}
}

func (m *mockRequestService) find(id string) (*model.WithdrawalRequest, error) {
	for i := range m.requests {
		if m.requests[i].ID == id {
			return &m.requests[i], nil
		}
	}
	return nil, fmt.Errorf("request %s: %w", id, service.ErrNotFound)
}

func (m *mockRequestService) Requests(_ context.Context, status, userID string) []model.WithdrawalRequest {
	m.lastStatus, m.lastUser = status, userID
	return m.requests
}

func (m *mockRequestService) ApproveRequest(_ context.Context, id string) (model.WithdrawalRequest, model.AccountingEntry, error) {
	req, err := m.find(id)
	if err != nil {
		return model.WithdrawalRequest{}, model.AccountingEntry{}, err
	}
	entry, err := accounting.Approve(req, "b1", testNow)
	if err != nil {
		return model.WithdrawalRequest{}, model.AccountingEntry{}, err
	}
	return *req, entry, nil
}

func (m *mockRequestService) RejectRequest(_ context.Context, id string) (model.WithdrawalRequest, error) {
	req, err := m.find(id)
	if err != nil {
		return model.WithdrawalRequest{}, err
	}
	if err := accounting.Reject(req); err != nil {
		return model.WithdrawalRequest{}, err
	}
	return *req, nil
}

func (m *mockRequestService) RunSalaryCycle(context.Context) []model.WithdrawalRequest {
	m.cycles++
	if m.cycles > 1 {
		return []model.WithdrawalRequest{}
	}
	return []model.WithdrawalRequest{{ID: "SAL-1", UserID: "admin-1", Amount: decimal.NewFromInt(50000), Status: enum.RequestStatusPending}}
}

// --- Tests ---

func TestListRequests_Filters(t *testing.T) {
	svc := newMockRequestService()
	router := setupAccountingRouter(nil, svc)
	tok := tokenFor(t, admin)

	rr := doRequest(t, router, "GET", "/accounting/requests?status=pending&user_id=u-cash", nil, tok)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if svc.lastStatus != enum.RequestStatusPending || svc.lastUser != "u-cash" {
		t.Errorf("filters = %q/%q", svc.lastStatus, svc.lastUser)
	}
	if got := len(decodeList(t, rr)); got != 2 {
		t.Errorf("len = %d, want 2", got)
	}

	rr = doRequest(t, router, "GET", "/accounting/requests?status=LOST", nil, tok)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestApproveRequest(t *testing.T) {
	svc := newMockRequestService()
	router := setupAccountingRouter(nil, svc)
	tok := tokenFor(t, admin)

	rr := doRequest(t, router, "POST", "/accounting/requests/WDR-1/approve", nil, tok)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Request model.WithdrawalRequest `json:"request"`
		Entry   model.AccountingEntry   `json:"entry"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Request.Status != enum.RequestStatusApproved {
		t.Errorf("request status = %s", resp.Request.Status)
	}
	if resp.Entry.Type != enum.EntryTypeExpense || !resp.Entry.Amount.Equal(decimal.NewFromInt(2000)) || resp.Entry.BranchID != "b1" {
		t.Errorf("entry = %+v", resp.Entry)
	}

	// a second decision on the same request conflicts
	rr = doRequest(t, router, "POST", "/accounting/requests/WDR-1/approve", nil, tok)
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}

	rr = doRequest(t, router, "POST", "/accounting/requests/WDR-9/approve", nil, tok)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestRejectRequest(t *testing.T) {
	svc := newMockRequestService()
	router := setupAccountingRouter(nil, svc)
	tok := tokenFor(t, admin)

	rr := doRequest(t, router, "POST", "/accounting/requests/WDR-2/reject", nil, tok)
	if rr.Code != http.StatusConflict {
		t.Errorf("already rejected: status = %d, want 409", rr.Code)
	}

	rr = doRequest(t, router, "POST", "/accounting/requests/WDR-1/reject", nil, tok)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if svc.requests[0].Status != enum.RequestStatusRejected {
		t.Errorf("status = %s, want REJECTED", svc.requests[0].Status)
	}
}

func TestRunSalaryCycle(t *testing.T) {
	router := setupAccountingRouter(nil, newMockRequestService())
	tok := tokenFor(t, admin)

	rr := doRequest(t, router, "POST", "/accounting/salary-cycle", nil, tok)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := len(decodeList(t, rr)); got != 1 {
		t.Errorf("drafted = %d, want 1", got)
	}

	rr = doRequest(t, router, "POST", "/accounting/salary-cycle", nil, tok)
	if got := len(decodeList(t, rr)); got != 0 {
		t.Errorf("second run drafted = %d, want 0", got)
	}
}
