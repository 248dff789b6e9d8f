package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rr-restro/pos/internal/analytics"
	"github.com/rr-restro/pos/internal/filter"
	"github.com/rr-restro/pos/internal/insight"
	"github.com/rr-restro/pos/internal/loyalty"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/receipt"
	"github.com/rr-restro/pos/internal/store"
)

func (s *Service) Dashboard(ctx context.Context, c filter.Criteria) analytics.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return analytics.BuildDashboard(filter.Apply(s.state.Orders, c, now), now)
}

func (s *Service) Analytics(ctx context.Context, c filter.Criteria) analytics.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return analytics.Build(
		filter.Apply(s.state.Orders, c, now),
		filter.Apply(s.state.Entries, c, now),
		s.state.Branches,
	)
}

// InsightStats are the dashboard figures sent to the AI analyst.
func (s *Service) InsightStats(ctx context.Context, c filter.Criteria) insight.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := filter.Apply(s.state.Orders, c, s.now())
	names := make([]string, len(s.state.Branches))
	for i, b := range s.state.Branches {
		names[i] = b.Name
	}
	return insight.Stats{
		CurrencySymbol: s.state.Settings.CurrencySymbol,
		TotalSales:     analytics.Revenue(orders),
		TotalOrders:    len(orders),
		Branches:       names,
	}
}

func (s *Service) Customers(ctx context.Context) []analytics.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.Customers(s.state.Orders, s.ledger.Snapshot(s.state.Orders, s.version))
}

// CustomerInfo is what a POS terminal shows after a phone number is typed.
type CustomerInfo struct {
	Phone      string       `json:"phone"`
	Name       string       `json:"name"`
	Points     model.Points `json:"points"`
	FirstOrder bool         `json:"firstOrder"`
}

func (s *Service) Customer(ctx context.Context, phone string) CustomerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	phone = strings.TrimSpace(phone)
	return CustomerInfo{
		Phone:      phone,
		Name:       s.knownName(phone),
		Points:     s.pointsFor(phone),
		FirstOrder: loyalty.IsFirstOrder(s.state.Orders, phone),
	}
}

func (s *Service) Notifications(ctx context.Context) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification{}, s.state.Notifications...)
}

func (s *Service) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Notifications {
		s.state.Notifications[i].Read = true
	}
	s.persist(ctx, store.KeyNotifications)
}

// Receipt assembles the printable receipt of an order.
func (s *Service) Receipt(ctx context.Context, orderID string) (receipt.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, i := find(s.state.Orders, orderID, orderKey)
	if i < 0 {
		return receipt.Receipt{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	var branch *model.Branch
	if b, j := find(s.state.Branches, o.BranchID, branchKey); j >= 0 {
		branch = &b
	}
	cashier := ""
	if u, j := find(s.state.Staff, o.UserID, userKey); j >= 0 {
		cashier = u.Name
	}
	return receipt.New(s.state.Settings, branch, cashier, o, s.loc), nil
}
