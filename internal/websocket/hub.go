package websocket

import (
	"log"
	"sync"
)

// Hub tracks connected clients by user ID and routes notification pushes
// to every connection a user has open.
type Hub struct {
	mu sync.RWMutex

	// userID -> set of connections (a user may have several tabs open)
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client connected: user=%s", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected: user=%s", client.userID)
		}
	}
}

// BroadcastToUser sends a message to every connection of one user.
// Slow or dead connections are dropped instead of blocking the caller.
// Sends happen under the read lock: Run closes a client's send channel
// only while holding the write lock, so a send can never hit a channel
// that a concurrent disconnect just closed.
func (h *Hub) BroadcastToUser(userID string, message []byte) {
	var dead []*Client

	h.mu.RLock()
	for client := range h.clients[userID] {
		select {
		case client.send <- message:
		default:
			dead = append(dead, client)
		}
	}
	h.mu.RUnlock()

	// Unregister outside the lock; Run needs the write lock to process it
	for _, client := range dead {
		h.unregister <- client
	}
}

// ConnectedUsers returns how many distinct users are connected
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
