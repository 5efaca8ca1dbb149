package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/vibeprint/storefront/pkg/logger"
)

const (
	EventCartUpdated = "cartUpdated"

	clientSendBuffer = 16
)

// Event is the JSON frame pushed to connected tabs.
type Event struct {
	Type string `json:"type"`
}

type Client struct {
	ID   string
	Hub  *Hub
	Conn *Conn
	Send chan []byte
}

func NewClient(hub *Hub, conn *Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, clientSendBuffer),
	}
}

// Hub fans events out to every connected client. Delivery is best effort:
// a client whose buffer is full is dropped rather than waited on.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", map[string]interface{}{
				"client_id": client.ID,
				"clients":   total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					delete(h.clients, client)
					close(client.Send)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"client_id": client.ID,
					})
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	logger.Debug("WebSocket client unregistered", map[string]interface{}{
		"client_id": client.ID,
		"clients":   len(h.clients),
	})
}

// Register hands client to Run. Once the hub has stopped the client is closed
// instead, so its pumps never wait on a Send that nobody will close.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues event for every client. It never blocks; when the queue
// is full the event is dropped.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// NotifyCartUpdated has the signature of a cart change handler.
func (h *Hub) NotifyCartUpdated() {
	h.Broadcast(Event{Type: EventCartUpdated})
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
