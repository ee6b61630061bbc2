package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event is a committed store change pushed to subscribers.
type Event struct {
	Resource  string      `json:"resource"`
	Op        string      `json:"op"`
	ID        string      `json:"id"`
	Item      interface{} `json:"item,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// allResources is the topic of clients that did not filter by resource.
const allResources = ""

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	// Registered clients organized by resource; allResources receives everything
	clients map[string]map[*Client]bool

	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.closeAll()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues an event for delivery. It is dropped once the hub stopped.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.resource]; !ok {
		h.clients[client.resource] = make(map[*Client]bool)
	}
	h.clients[client.resource][client] = true

	h.logger.Info().
		Str("resource", client.resource).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.resource]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.resource)
	}

	h.logger.Info().
		Str("resource", client.resource).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client unregistered")
}

// broadcastEvent sends event to the clients of its resource and to unfiltered clients
func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("resource", event.Resource).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for _, topic := range []string{event.Resource, allResources} {
		for client := range h.clients[topic] {
			select {
			case client.send <- data:
				sent++
			default:
				// Slow or gone; drop it
				h.removeLocked(client)
			}
		}
	}

	h.logger.Debug().
		Str("resource", event.Resource).
		Str("op", event.Op).
		Int("clientCount", sent).
		Msg("Event broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// ClientsCount returns the number of clients subscribed to resource ("" for unfiltered ones)
func (h *Hub) ClientsCount(resource string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[resource])
}
