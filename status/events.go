package status

import (
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/runner"
	"github.com/kbukum/ocvflow/sse"
)

// UIClientPrefix prefixes the IDs of clients connected to /api/events.
const UIClientPrefix = "ui:"

const uiPattern = UIClientPrefix + "*"

// FailureEvent is the payload of a failure event.
type FailureEvent struct {
	NodeID string `json:"node_id"`
	Node   string `json:"node"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// TickPublisher returns a runner tick handler that forwards ticks to the
// connected clients. It never blocks the worker.
func TickPublisher(b sse.Broadcaster) func(runner.Tick) {
	log := logger.Get("status")
	return func(t runner.Tick) {
		if err := b.Publish(uiPattern, sse.EventTick, t); err != nil {
			log.Warn("tick not published", logger.ErrorFields("publish", err))
		}
	}
}

// FailurePublisher returns a runner failure handler that forwards
// unexpected failures to the connected clients.
func FailurePublisher(b sse.Broadcaster) func(*graph.Node, error) {
	return func(n *graph.Node, err error) {
		_ = b.Publish(uiPattern, sse.EventFailure, FailureEvent{
			NodeID: n.ID().String(),
			Node:   n.Name(),
			Kind:   n.Kind(),
			Error:  err.Error(),
		})
	}
}
