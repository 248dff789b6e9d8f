// Package events fans domain events out to live terminals (websocket rooms)
// and, when configured, to a RabbitMQ topic exchange.
package events

import (
	"context"
	"errors"

	"github.com/rr-restro/pos/internal/model"
)

// Event types.
const (
	OrderCreated        = "order.created"
	OrderStatusChanged  = "order.status_changed"
	OrderDeleted        = "order.deleted"
	NotificationCreated = "notification.created"
	RequestCreated      = "request.created"
	RequestUpdated      = "request.updated"
)

// Event is one domain change. BranchID is empty for events that concern the
// whole chain (notifications, staff requests).
type Event struct {
	Type     string          `json:"type"`
	BranchID string          `json:"branchId,omitempty"`
	At       model.Timestamp `json:"at"`
	Data     any             `json:"data"`
}

// Publisher delivers events. Implementations must not block for long; they
// are called after each state change.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to each publisher in turn and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
