package sse

import "github.com/kbukum/ocvflow/logger"

const clientBuffer = 64

// Client is a connected SSE subscriber.
type Client struct {
	id     string
	events chan Event
}

// NewClient creates a client with a buffered event channel.
func NewClient(id string) *Client {
	return &Client{
		id:     id,
		events: make(chan Event, clientBuffer),
	}
}

// ID returns the client's identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel the handler drains.
func (c *Client) Events() <-chan Event { return c.events }

// Send queues an event. It returns false when the client is too slow and
// the event was dropped.
func (c *Client) Send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		logger.Get("sse").Warn("client buffer full, dropping event", logger.Fields(
			"client_id", c.id,
			"event", ev.Type,
		))
		return false
	}
}

// Close closes the event channel.
func (c *Client) Close() {
	close(c.events)
}
