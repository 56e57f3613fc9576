package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/ocvflow/logger"
)

// KeepAliveInterval is the gap between keep-alive comments.
var KeepAliveInterval = 30 * time.Second

// ConnectedEvent is the payload of the first event on every stream.
type ConnectedEvent struct {
	ClientID string `json:"client_id"`
}

// ServeSSE streams events to one client until the request ends or the hub
// stops.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string) {
	log := logger.Get("sse")
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported", logger.Fields("client_id", clientID))
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server's WriteTimeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not clear write deadline", logger.Fields("client_id", clientID, logger.FieldError, err.Error()))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(clientID)
	if !hub.Register(client) {
		http.Error(w, "event hub stopped", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	connected, _ := json.Marshal(ConnectedEvent{ClientID: clientID})
	writeEvent(w, Event{Type: EventConnected, Data: connected})
	flusher.Flush()
	log.Debug("client connected", logger.Fields("client_id", clientID, "remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected", logger.Fields("client_id", clientID))
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) {
	if ev.Type != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", ev.Data)
}
