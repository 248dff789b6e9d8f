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
)

// Orders returns the orders matching c, newest first. An empty status
// matches every status.
func (s *Service) Orders(ctx context.Context, c filter.Criteria, status string) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := filter.Apply(s.state.Orders, c, s.now())
	if status == "" {
		return matched
	}
	out := make([]model.Order, 0, len(matched))
	for _, o := range matched {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func (s *Service) Order(ctx context.Context, id string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, i := find(s.state.Orders, id, orderKey)
	if i < 0 {
		return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o, nil
}

// UpdateOrderStatus moves an order to status. Any transition is allowed;
// entering CANCELLED books a reversal entry. Setting the current status is a
// no-op.
func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) (model.Order, error) {
	if !enum.IsOrderStatus(status) {
		return model.Order{}, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, i := find(s.state.Orders, id, orderKey)
	if i < 0 {
		return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if o.Status == status {
		return o, nil
	}

	keys := []string{store.KeyOrders}
	if accounting.NeedsReversal(o.Status, status) {
		rev := accounting.Reversal(o, s.now())
		s.state.Entries = append([]model.AccountingEntry{rev}, s.state.Entries...)
		keys = append(keys, store.KeyEntries)
	}

	o.Status = status
	s.state.Orders[i] = o
	s.ordersChanged()

	s.persist(ctx, keys...)
	s.publish(ctx, events.OrderStatusChanged, o.BranchID, o)
	return o, nil
}

// DeleteOrder removes an order from history. Ledger entries stay.
func (s *Service) DeleteOrder(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, i := find(s.state.Orders, id, orderKey)
	if i < 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	s.state.Orders = removeAt(s.state.Orders, i)
	s.ordersChanged()

	s.persist(ctx, store.KeyOrders)
	s.publish(ctx, events.OrderDeleted, o.BranchID, map[string]string{"id": o.ID})
	return nil
}
