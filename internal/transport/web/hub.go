package web

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/avstrong/wandernest/internal/events"
	"github.com/avstrong/wandernest/internal/logger"
)

const sendBuffer = 64

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub fans bus events out to every connected websocket view.
type Hub struct {
	mu       sync.RWMutex
	l        *logger.Logger
	upgrader websocket.Upgrader
	clients  map[*wsClient]struct{}
}

func NewHub(l *logger.Logger) *Hub {
	return &Hub{
		l: l,
		//nolint:exhaustruct
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Forward is an events.Handler that relays the event under its name.
func (h *Hub) Forward(ev events.Event) {
	msg, err := json.Marshal(wsMessage{Type: ev.EventName(), Data: ev})
	if err != nil {
		h.l.LogErrorf("Could not encode %s event: %v", ev.EventName(), err.Error())

		return
	}

	h.Broadcast(msg)
}

// Broadcast queues msg for every client. A client whose buffer is full is dropped.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.l.LogWarnf("Dropping websocket client %s, send buffer full", c.id)
			h.remove(c)
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.remove(c)
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(c)
}

// remove must be called with mu held.
func (h *Hub) remove(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, id string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.LogWarnf("Websocket upgrade failed: %v", err.Error())

		return
	}

	c := &wsClient{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}

	h.register(c)
	h.l.LogInfo("Websocket client %s connected", id)

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames and unregisters the client once the connection
// goes away.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
		c.hub.l.LogInfo("Websocket client %s disconnected", c.id)
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.l.LogWarnf("Websocket client %s: %v", c.id, err.Error())
			}

			return
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.l.LogWarnf("Websocket write to %s failed: %v", c.id, err.Error())

			return
		}
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
