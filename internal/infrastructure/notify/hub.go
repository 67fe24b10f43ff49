package notify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"blinkpay.backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub fans deposit notifications out to the websocket connections of each
// merchant. Merchant ids are matched case-insensitively. A merchant may hold
// several connections (multiple devices); all of them receive every event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
	}
}

func normalizeID(merchantID string) string {
	return strings.ToLower(strings.TrimSpace(merchantID))
}

// Add attaches conn to the merchant's channel and starts its pumps. It
// returns immediately; the connection lives until the peer closes or a write
// fails.
func (h *Hub) Add(merchantID string, conn *websocket.Conn) {
	key := normalizeID(merchantID)
	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	h.mu.Lock()
	if h.clients[key] == nil {
		h.clients[key] = make(map[*client]struct{})
	}
	h.clients[key][c] = struct{}{}
	h.mu.Unlock()

	logger.Debug(context.Background(), "websocket connected", zap.String("merchant_id", key))

	go h.writePump(key, c)
	go h.readPump(key, c)
}

// Notify sends payload to every connection of merchantID and returns how many
// connections it was queued to. Zero means nobody is listening right now.
func (h *Hub) Notify(merchantID string, payload interface{}) int {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error(context.Background(), "marshal notification", zap.Error(err))
		return 0
	}

	key := normalizeID(merchantID)
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[key] {
		select {
		case c.send <- data:
			delivered++
		default:
			// slow consumer, drop rather than block the caller
		}
	}
	return delivered
}

// Connections reports how many connections a merchant currently holds.
func (h *Hub) Connections(merchantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[normalizeID(merchantID)])
}

func (h *Hub) remove(key string, c *client) {
	h.mu.Lock()
	if set, ok := h.clients[key]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
			if len(set) == 0 {
				delete(h.clients, key)
			}
		}
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) readPump(key string, c *client) {
	defer h.remove(key, c)

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// inbound payloads are ignored, the channel is push-only
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(key string, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug(context.Background(), "websocket write failed", zap.String("merchant_id", key), zap.Error(err))
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
