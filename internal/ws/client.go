package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rr-restro/pos/internal/auth"
)

const (
	writeWait = 10 * time.Second
	// Terminals that stop answering pings for this long are dropped.
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Screens only listen; anything bigger than a close frame is noise.
	maxMessageSize = 512
	sendBuffer     = 256
)

// Client is one kitchen, counter or head office screen following a
// branch room.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	branchID string
	send     chan []byte
}

// Handler upgrades WS /ws/branches/{bid}?token=JWT. Browsers must come from
// one of origins ("*" allows any); requests without an Origin header, such
// as kitchen printers, are let through on the token alone.
func Handler(hub *Hub, jwtSecret string, origins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := auth.ValidateToken(jwtSecret, token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		branchID := chi.URLParam(r, "bid")
		if branchID == "" {
			http.Error(w, "missing branch id", http.StatusBadRequest)
			return
		}
		if !claims.CanAccessBranch(branchID) {
			http.Error(w, "branch access denied", http.StatusForbidden)
			return
		}

		// Upgrade answers 403 itself when the origin is rejected.
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WARN: websocket upgrade for branch %s: %v", branchID, err)
			return
		}

		c := &Client{
			hub:      hub,
			conn:     conn,
			branchID: branchID,
			send:     make(chan []byte, sendBuffer),
		}
		hub.register <- c

		go c.writeLoop()
		go c.readLoop()
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// readLoop only keeps the read deadline moving; its exit is how a
// disconnect reaches the hub.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WARN: websocket branch %s: %v", c.branchID, err)
			}
			return
		}
	}
}

// writeLoop delivers queued events and pings the screen. It ends when the
// hub closes send or a write fails.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeBatch(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeBatch sends first plus whatever else is already queued as one
// newline separated text frame.
func (c *Client) writeBatch(first []byte) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(first)
	for n := len(c.send); n > 0; n-- {
		w.Write([]byte{'\n'})
		w.Write(<-c.send)
	}
	return w.Close()
}
