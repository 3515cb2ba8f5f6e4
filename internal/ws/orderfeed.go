package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"calabash/config"
	"calabash/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// OrderFeed pushes order lifecycle events to connected admin dashboards.
type OrderFeed struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
	logger  *zap.Logger
}

func NewOrderFeed(logger *zap.Logger) *OrderFeed {
	return &OrderFeed{
		clients: make(map[*websocket.Conn]chan []byte),
		logger:  logger,
	}
}

type feedEvent struct {
	Type  string      `json:"type"`
	Order interface{} `json:"order"`
	At    time.Time   `json:"at"`
}

// Broadcast fans an event out to every connected dashboard. Slow consumers
// are skipped rather than blocking the request path.
func (f *OrderFeed) Broadcast(eventType string, order interface{}) {
	data, err := json.Marshal(feedEvent{Type: eventType, Order: order, At: time.Now()})
	if err != nil {
		return
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, send := range f.clients {
		select {
		case send <- data:
		default:
		}
	}
}

// Handle upgrades an authenticated admin connection. The dashboard passes the
// login token as a query parameter since browsers cannot set headers on
// websocket upgrades.
func (f *OrderFeed) Handle(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if _, err := auth.ParseAdminToken(cfg, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			f.logger.Warn("order feed upgrade failed", zap.Error(err))
			return
		}
		send := make(chan []byte, 16)
		f.mu.Lock()
		f.clients[conn] = send
		f.mu.Unlock()

		go f.writeLoop(conn, send)
		f.readLoop(conn)
	}
}

func (f *OrderFeed) writeLoop(conn *websocket.Conn, send chan []byte) {
	for data := range send {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// readLoop discards inbound frames and tears the client down on close.
func (f *OrderFeed) readLoop(conn *websocket.Conn) {
	defer func() {
		f.mu.Lock()
		if send, ok := f.clients[conn]; ok {
			close(send)
			delete(f.clients, conn)
		}
		f.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
