package sse

// Broadcaster sends events to clients whose ID matches a glob pattern,
// e.g. "ui:*" or "ui:abc123".
type Broadcaster interface {
	Broadcast(pattern string, ev Event) bool
	Publish(pattern, eventType string, v any) error
}
