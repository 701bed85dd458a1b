package sse

import (
	"context"
	"sync"

	"notifyd/internal/metrics"
)

// Event is one frame pushed to the clients of a room.
type Event struct {
	ID      string `json:"id"`
	Room    string `json:"room"`
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

type Client struct {
	Room string
	Ch   chan Event
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	stopOnce   sync.Once
	rooms      map[string]map[*Client]struct{}
	mu         sync.RWMutex
	metrics    *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		metrics:    m,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for its room. It gives up when ctx ends or the hub
// has stopped and reports whether the event was queued.
func (h *Hub) Publish(ctx context.Context, event Event) bool {
	select {
	case h.broadcast <- event:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.broadcastToRoom(event)
		}
	}
}

// Clients returns the number of clients subscribed to room.
func (h *Hub) Clients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[client.Room] == nil {
		h.rooms[client.Room] = make(map[*Client]struct{})
	}
	h.rooms[client.Room][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[client.Room]
	if room == nil {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.Room)
	}
}

func (h *Hub) broadcastToRoom(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[event.Room] {
		select {
		case client.Ch <- event:
		default:
			// Drop if the client is too slow.
			if h.metrics != nil {
				h.metrics.RealtimeDropped.Inc()
			}
		}
	}
}
