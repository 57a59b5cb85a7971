// Package realtime pushes domain events to connected dashboards over
// websockets. Delivery is best effort: no replay, no acknowledgement.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/metrics"
	"sadhna-backend/internal/models"
)

const (
	EventAttendanceAdded    = "attendanceAdded"
	EventLeaveApplied       = "leaveApplied"
	EventLeaveStatusUpdated = "leaveStatusUpdated"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Audience selects recipients. A client matches when its user ID or its
// role is listed. An empty audience reaches everyone.
type Audience struct {
	UserIDs []int
	Roles   []string
}

func (a Audience) includes(userID int, role string) bool {
	if len(a.UserIDs) == 0 && len(a.Roles) == 0 {
		return true
	}
	for _, id := range a.UserIDs {
		if id == userID {
			return true
		}
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Event struct {
	Name     string
	Data     interface{}
	Audience Audience
}

type frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Identifier resolves the token a client connects with.
type Identifier interface {
	Identify(ctx context.Context, token string) (*models.User, error)
}

type client struct {
	conn   *websocket.Conn
	userID int
	role   string
	send   chan []byte
}

type Hub struct {
	identifier Identifier
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(identifier Identifier) *Hub {
	return &Hub{
		identifier: identifier,
		upgrader: websocket.Upgrader{
			// browsers connect from the separately hosted frontend
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ClientCount returns the number of open subscriptions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish fans the event out to matching clients. It never blocks: a client
// whose buffer is full misses the event.
func (h *Hub) Publish(ctx context.Context, ev Event) {
	metrics.RealtimeEvents.WithLabelValues(ev.Name).Inc()

	payload, err := json.Marshal(frame{Event: ev.Name, Data: ev.Data})
	if err != nil {
		logger.FromContext(ctx).Errorf("[Realtime] encode %s: %v", ev.Name, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !ev.Audience.includes(c.userID, c.role) {
			continue
		}
		select {
		case c.send <- payload:
		default:
			metrics.RealtimeDropped.Inc()
			logger.FromContext(ctx).Warnf("[Realtime] dropped %s for user %d, buffer full", ev.Name, c.userID)
		}
	}
}

// ServeWS upgrades an authenticated request to a websocket subscription.
// The token comes from the token query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}
	user, err := h.identifier.Identify(r.Context(), token)
	if err != nil {
		http.Error(w, "Token is not valid", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.FromContext(r.Context()).Warnf("[Realtime] upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, userID: user.ID, role: user.Role, send: make(chan []byte, sendBuffer)}
	h.register(c)
	logger.Default().Debugf("[Realtime] %s connected", user.Username)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeClients.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.RealtimeClients.Dec()
	}
	h.mu.Unlock()
}

// readPump only watches for disconnects; clients never send anything we use.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Nop discards events. Used where no hub is wired, e.g. in tests.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
