package sse

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/kbukum/ocvflow/logger"
)

const hubBuffer = 256

// Hub manages client connections and routes events to them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex
	log        *logger.Logger
}

type message struct {
	pattern string
	event   Event
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Call Run to start routing.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, hubBuffer),
		done:       make(chan struct{}),
		log:        logger.Get("sse"),
	}
}

// Run routes events until Stop is called. Run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields("client_id", client.id, logger.FieldCount, total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields("client_id", client.id, logger.FieldCount, total))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop closes every client and makes Run return. Safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues an event for every client whose ID matches pattern. It
// never blocks; false means the hub was stopped or its queue was full.
func (h *Hub) Broadcast(pattern string, ev Event) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- message{pattern: pattern, event: ev}:
		return true
	default:
		h.log.Warn("hub queue full, dropping event", logger.Fields("pattern", pattern, "event", ev.Type))
		return false
	}
}

// Publish encodes v as JSON and broadcasts it as eventType.
func (h *Hub) Publish(pattern, eventType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: encoding %s event: %w", eventType, err)
	}
	h.Broadcast(pattern, Event{Type: eventType, Data: data})
	return nil
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for id, client := range h.clients {
		matched, err := filepath.Match(msg.pattern, id)
		if err != nil {
			h.log.Error("bad client pattern", logger.ErrorFields("broadcast", err))
			return
		}
		if matched && client.Send(msg.event) {
			sent++
		}
	}
	h.log.Debug("event delivered", logger.Fields(
		"pattern", msg.pattern,
		"event", msg.event.Type,
		logger.FieldCount, sent,
	))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the IDs of connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
