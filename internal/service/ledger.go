package service

import (
	"context"
	"fmt"

	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/events"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/store"
	"github.com/shopspring/decimal"
)

// Entries returns the ledger entries matching c, newest first.
func (s *Service) Entries(ctx context.Context, c filter.Criteria) []model.AccountingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.state.Entries, c, s.now())
}

// AddVoucher books a manual entry. An empty branch books against the first
// branch.
func (s *Service) AddVoucher(ctx context.Context, v accounting.Voucher) (model.AccountingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.BranchID == "" {
		v.BranchID = s.defaultBranchID()
	} else if _, i := find(s.state.Branches, v.BranchID, branchKey); i < 0 {
		return model.AccountingEntry{}, fmt.Errorf("%w: %s", ErrUnknownBranch, v.BranchID)
	}

	e, err := accounting.NewVoucherEntry(v, s.now())
	if err != nil {
		return model.AccountingEntry{}, err
	}
	s.state.Entries = append([]model.AccountingEntry{e}, s.state.Entries...)
	s.persist(ctx, store.KeyEntries)
	return e, nil
}

func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.Entries, id, entryKey)
	if i < 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	s.state.Entries = removeAt(s.state.Entries, i)
	s.persist(ctx, store.KeyEntries)
	return nil
}

// Summary totals the entries matching c. Liabilities always cover every
// pending request.
func (s *Service) Summary(ctx context.Context, c filter.Criteria) accounting.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return accounting.Summarize(filter.Apply(s.state.Entries, c, s.now()), s.state.Requests)
}

// Requests lists withdrawal requests, optionally narrowed to one status and
// one user.
func (s *Service) Requests(ctx context.Context, status, userID string) []model.WithdrawalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.WithdrawalRequest, 0, len(s.state.Requests))
	for _, r := range s.state.Requests {
		if status != "" && r.Status != status {
			continue
		}
		if userID != "" && r.UserID != userID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RequestAdvance files a staff advance request and notifies the back office.
func (s *Service) RequestAdvance(ctx context.Context, userID string, amount decimal.Decimal, reason string) (model.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i := find(s.state.Staff, userID, userKey)
	if i < 0 {
		return model.WithdrawalRequest{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	req, err := accounting.NewAdvanceRequest(u, amount, reason, s.now())
	if err != nil {
		return model.WithdrawalRequest{}, err
	}
	s.state.Requests = append([]model.WithdrawalRequest{req}, s.state.Requests...)

	n := s.notify("Financial Request",
		fmt.Sprintf("%s submitted an advance request for %s%s.", u.Name, s.state.Settings.CurrencySymbol, amount.String()),
		enum.NotificationInfo)

	s.persist(ctx, store.KeyRequests, store.KeyNotifications)
	s.publish(ctx, events.RequestCreated, "", req)
	s.publish(ctx, events.NotificationCreated, "", n)
	return req, nil
}

// ApproveRequest approves a pending request and books the payment against
// the staff member's first branch.
func (s *Service) ApproveRequest(ctx context.Context, id string) (model.WithdrawalRequest, model.AccountingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, i := find(s.state.Requests, id, requestKey)
	if i < 0 {
		return model.WithdrawalRequest{}, model.AccountingEntry{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}

	entry, err := accounting.Approve(&req, s.payingBranch(req.UserID), s.now())
	if err != nil {
		return model.WithdrawalRequest{}, model.AccountingEntry{}, err
	}
	s.state.Requests[i] = req
	s.state.Entries = append([]model.AccountingEntry{entry}, s.state.Entries...)

	s.persist(ctx, store.KeyRequests, store.KeyEntries)
	s.publish(ctx, events.RequestUpdated, "", req)
	return req, entry, nil
}

func (s *Service) RejectRequest(ctx context.Context, id string) (model.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, i := find(s.state.Requests, id, requestKey)
	if i < 0 {
		return model.WithdrawalRequest{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if err := accounting.Reject(&req); err != nil {
		return model.WithdrawalRequest{}, err
	}
	s.state.Requests[i] = req

	s.persist(ctx, store.KeyRequests)
	s.publish(ctx, events.RequestUpdated, "", req)
	return req, nil
}

// RunSalaryCycle drafts this month's salary requests and returns the new
// ones. Running it twice in a month adds nothing.
func (s *Service) RunSalaryCycle(ctx context.Context) []model.WithdrawalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafted := accounting.SalaryCycle(s.state.Staff, s.state.Requests, s.now(), s.state.Settings.CurrencySymbol)
	if len(drafted) == 0 {
		return []model.WithdrawalRequest{}
	}
	s.state.Requests = append(append([]model.WithdrawalRequest(nil), drafted...), s.state.Requests...)

	s.persist(ctx, store.KeyRequests)
	for _, r := range drafted {
		s.publish(ctx, events.RequestCreated, "", r)
	}
	return drafted
}

// Wallet is a staff member's self-service view.
type Wallet struct {
	Balance      decimal.Decimal           `json:"balance"`
	AdvanceLimit decimal.Decimal           `json:"advanceLimit"`
	Salary       decimal.Decimal           `json:"salary"`
	Pending      decimal.Decimal           `json:"pending"`
	Approved     decimal.Decimal           `json:"approved"`
	Requests     []model.WithdrawalRequest `json:"requests"`
}

func (s *Service) Wallet(ctx context.Context, userID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i := find(s.state.Staff, userID, userKey)
	if i < 0 {
		return Wallet{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	w := Wallet{
		Balance:      u.WalletBalance,
		AdvanceLimit: u.AdvanceLimit,
		Salary:       u.Salary,
		Pending:      decimal.Zero,
		Approved:     decimal.Zero,
		Requests:     []model.WithdrawalRequest{},
	}
	for _, r := range s.state.Requests {
		if r.UserID != userID {
			continue
		}
		w.Requests = append(w.Requests, r)
		switch r.Status {
		case enum.RequestStatusPending:
			w.Pending = w.Pending.Add(r.Amount)
		case enum.RequestStatusApproved:
			w.Approved = w.Approved.Add(r.Amount)
		}
	}
	return w, nil
}

// payingBranch is the user's first assigned branch that still exists, else
// the first branch. Caller holds s.mu.
func (s *Service) payingBranch(userID string) string {
	if u, i := find(s.state.Staff, userID, userKey); i >= 0 {
		for _, b := range u.AssignedBranchIDs {
			if _, j := find(s.state.Branches, b, branchKey); j >= 0 {
				return b
			}
		}
	}
	return s.defaultBranchID()
}

// defaultBranchID is the first branch, or "" when there are none. Caller
// holds s.mu.
func (s *Service) defaultBranchID() string {
	if len(s.state.Branches) == 0 {
		return ""
	}
	return s.state.Branches[0].ID
}
