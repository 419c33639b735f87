package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Message is the envelope pushed to connected providers
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub manages provider WebSocket connections and routes order notifications
// to them. Customers never connect; notifications are a provider surface.
type Hub struct {
	// Connected provider clients, keyed by user id
	Clients map[uint]*Client

	Broadcast  chan *Message
	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new notification hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Broadcast:  make(chan *Message, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("🔌 Provider connected: user=%d", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client.UserID]; ok {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Provider disconnected: user=%d", client.UserID)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)
		}
	}
}

// broadcastMessage sends a message to every connected provider
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	for userID, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, userID)
		}
	}
}

// SendToUser sends a message to one provider if connected. Disconnected
// providers pick the order up from their notification list instead.
func (h *Hub) SendToUser(userID uint, message *Message) {
	h.mu.RLock()
	client, exists := h.Clients[userID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ Send buffer full for user %d, dropping message", userID)
	}
}

// IsUserConnected checks if a provider currently holds a connection
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.Clients[userID]
	return exists
}

// NotifyOrderPlaced pushes a new-order notification to the assigned provider
func (h *Hub) NotifyOrderPlaced(providerID uint, order interface{}) {
	h.SendToUser(providerID, &Message{
		Type:      "order_placed",
		Data:      order,
		Timestamp: time.Now(),
	})
}
