package ws

import (
	"encoding/json"
	"sync"

	"github.com/rr-restro/pos/internal/enum"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// branchEvent routes an event to a branch room. An empty BranchID reaches
// every room.
type branchEvent struct {
	BranchID string
	Event    Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Clients join the room of one branch, or the ALL room to follow every
// branch (head office screens).
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast chan *branchEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *branchEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.branchID] == nil {
				h.rooms[client.branchID] = make(map[*Client]bool)
			}
			h.rooms[client.branchID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for _, room := range h.targets(event.BranchID) {
				for client := range h.rooms[room] {
					select {
					case client.send <- message:
					default:
						// Client's send buffer is full, close and unregister
						h.drop(client)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for the branch room and the ALL room. An empty
// branchID reaches every connected client.
func (h *Hub) Broadcast(branchID string, event Event) {
	h.broadcast <- &branchEvent{
		BranchID: branchID,
		Event:    event,
	}
}

// targets lists the rooms an event for branchID is delivered to.
// Caller holds h.mu.
func (h *Hub) targets(branchID string) []string {
	if branchID == "" || branchID == enum.BranchAll {
		rooms := make([]string, 0, len(h.rooms))
		for room := range h.rooms {
			rooms = append(rooms, room)
		}
		return rooms
	}
	return []string{branchID, enum.BranchAll}
}

// drop removes a client and closes its send channel. Caller holds h.mu.
func (h *Hub) drop(client *Client) {
	clients, ok := h.rooms[client.branchID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.branchID)
	}
}
