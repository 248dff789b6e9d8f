package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rr-restro/pos/internal/enum"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, branchID string) *Client {
	return &Client{
		hub:      hub,
		branchID: branchID,
		send:     make(chan []byte, 256),
	}
}

func expectEvent(t *testing.T, c *Client, wantType string) {
	t.Helper()
	select {
	case msg := <-c.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if received.Type != wantType {
			t.Errorf("type: got %q, want %q", received.Type, wantType)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("client in %s did not receive %s", c.branchID, wantType)
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.send:
		t.Fatalf("client in %s should not receive a message", c.branchID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, "b1")
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms["b1"] == nil {
		t.Fatal("branch room not created")
	}
	if !hub.rooms["b1"][client] {
		t.Fatal("client not registered in branch room")
	}
}

func TestHubCleanupEmptyRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub, "b1")
	client2 := mockClient(hub, "b1")
	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if len(hub.rooms["b1"]) != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", len(hub.rooms["b1"]))
	}
	hub.mu.RUnlock()

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms["b1"] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
}

func TestBroadcastToSingleBranch(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	b1 := mockClient(hub, "b1")
	b2 := mockClient(hub, "b2")
	hub.register <- b1
	hub.register <- b2
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("b1", Event{Type: "order.created", Payload: json.RawMessage(`{"id":"ORD-1"}`)})

	expectEvent(t, b1, "order.created")
	expectSilence(t, b2)
}

func TestBroadcastReachesAllRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	office := mockClient(hub, enum.BranchAll)
	b2 := mockClient(hub, "b2")
	hub.register <- office
	hub.register <- b2
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("b1", Event{Type: "order.status_changed", Payload: json.RawMessage(`{}`)})

	expectEvent(t, office, "order.status_changed")
	expectSilence(t, b2)
}

func TestBroadcastWithoutBranchReachesEveryone(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	clients := []*Client{mockClient(hub, "b1"), mockClient(hub, "b2"), mockClient(hub, enum.BranchAll)}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("", Event{Type: "notification.created", Payload: json.RawMessage(`{}`)})

	for _, c := range clients {
		expectEvent(t, c, "notification.created")
	}
}

func TestBroadcastToBranchWithoutClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	b1 := mockClient(hub, "b1")
	hub.register <- b1
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("b9", Event{Type: "order.created", Payload: json.RawMessage(`{}`)})

	expectSilence(t, b1)
}
