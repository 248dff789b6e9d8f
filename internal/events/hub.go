package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rr-restro/pos/internal/ws"
)

// Broadcaster is satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(branchID string, event ws.Event)
}

// HubPublisher pushes events into the websocket rooms of their branch.
type HubPublisher struct {
	hub Broadcaster
}

func NewHubPublisher(hub Broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", e.Type, err)
	}
	p.hub.Broadcast(e.BranchID, ws.Event{Type: e.Type, Payload: payload})
	return nil
}
