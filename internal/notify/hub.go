package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	session string
	send    chan []byte
}

// Hub раздаёт уведомления подключённым WebSocket-клиентам
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

var _ Notifier = (*Hub)(nil)

// Notify не блокируется: медленный клиент теряет уведомления
func (h *Hub) Notify(_ context.Context, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if n.Session != "" && c.session != "" && c.session != n.Session {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Debug("notification dropped", "session", c.session)
		}
	}
}

// Clients количество подключений
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve поднимает соединение и держит его до отключения клиента.
// Пустой session: подписка на все уведомления; права проверяет вызывающий.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, session string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	// server read timeout must not close long-lived connections
	conn.SetReadDeadline(time.Time{})
	c := &client{session: session, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	go h.writeLoop(conn, c, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(done)
	return conn.Close()
}

func (h *Hub) writeLoop(conn *websocket.Conn, c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case data := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
