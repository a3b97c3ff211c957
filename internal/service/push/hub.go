// Package push fans order status updates out to connected storefront clients
// over WebSocket.
package push

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks active connections keyed by user id. One connection per user;
// a reconnect replaces the previous one.
type Hub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations. Long running; usually a goroutine from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if previous, ok := h.clients[client.userID]; ok {
				close(previous.send)
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			log.Debug().Int64("user_id", client.userID).Msg("push client registered")
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Debug().Int64("user_id", client.userID).Msg("push client unregistered")
		}
	}
}

// Send queues a message for the user if they are connected. Returns false
// when the user has no connection or their buffer is full. The read lock is
// held across the send: Run closes replaced channels under the write lock,
// so a close can never race the send.
func (h *Hub) Send(userID int64, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	if !ok {
		return false
	}
	select {
	case client.send <- message:
		return true
	default:
		log.Warn().Int64("user_id", userID).Msg("push buffer full, dropping message")
		return false
	}
}
