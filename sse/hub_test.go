package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID())
		return Event{}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func TestClient_SendDropsWhenFull(t *testing.T) {
	c := NewClient("ui:1")
	for i := 0; i < clientBuffer; i++ {
		if !c.Send(Event{Type: EventTick}) {
			t.Fatalf("send %d failed before buffer was full", i)
		}
	}
	if c.Send(Event{Type: EventTick}) {
		t.Error("expected send to fail when buffer is full")
	}
}

func TestClient_Close(t *testing.T) {
	c := NewClient("ui:1")
	c.Close()
	if _, open := <-c.Events(); open {
		t.Error("expected channel to be closed")
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := startHub(t)
	c := NewClient("ui:1")
	if !hub.Register(c) {
		t.Fatal("register failed")
	}
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
	if _, open := <-c.Events(); open {
		t.Error("expected unregister to close the client")
	}
}

func TestHub_BroadcastPatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    map[string]bool
	}{
		{"exact", "ui:a", map[string]bool{"ui:a": true}},
		{"wildcard", "ui:*", map[string]bool{"ui:a": true, "ui:b": true}},
		{"all", "*", map[string]bool{"ui:a": true, "ui:b": true, "cli:c": true}},
		{"none", "other:*", map[string]bool{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hub := startHub(t)
			clients := []*Client{NewClient("ui:a"), NewClient("ui:b"), NewClient("cli:c")}
			for _, c := range clients {
				hub.Register(c)
			}
			waitFor(t, func() bool { return hub.ClientCount() == 3 })

			if !hub.Broadcast(tc.pattern, Event{Type: EventTick, Data: []byte("{}")}) {
				t.Fatal("broadcast rejected")
			}
			// A second message to everyone marks the end of the first.
			hub.Broadcast("*", Event{Type: "marker"})

			for _, c := range clients {
				ev := receive(t, c)
				if tc.want[c.ID()] {
					if ev.Type != EventTick {
						t.Errorf("%s: expected tick, got %s", c.ID(), ev.Type)
					}
					ev = receive(t, c)
				}
				if ev.Type != "marker" {
					t.Errorf("%s: unexpected event %s", c.ID(), ev.Type)
				}
			}
		})
	}
}

func TestHub_Publish(t *testing.T) {
	hub := startHub(t)
	c := NewClient("ui:a")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	if err := hub.Publish("ui:*", EventRunStarted, map[string]string{"run_id": "r1"}); err != nil {
		t.Fatal(err)
	}
	ev := receive(t, c)
	if ev.Type != EventRunStarted || string(ev.Data) != `{"run_id":"r1"}` {
		t.Errorf("unexpected event %s %s", ev.Type, ev.Data)
	}

	if err := hub.Publish("*", EventTick, func() {}); err == nil {
		t.Error("expected encoding error")
	}
}

func TestHub_StopClosesClientsAndRejects(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()
	c := NewClient("ui:a")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Stop()
	hub.Stop()
	<-done

	if hub.ClientCount() != 0 {
		t.Error("expected clients removed on stop")
	}
	if hub.Register(NewClient("ui:b")) {
		t.Error("expected register to fail after stop")
	}
	if hub.Broadcast("*", Event{Type: EventTick}) {
		t.Error("expected broadcast to fail after stop")
	}
	hub.Unregister(c)
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub() // not running: the queue fills up
	for i := 0; i < hubBuffer; i++ {
		hub.Broadcast("*", Event{Type: EventTick})
	}
	finished := make(chan bool)
	go func() { finished <- hub.Broadcast("*", Event{Type: EventTick}) }()
	select {
	case ok := <-finished:
		if ok {
			t.Error("expected overflow to be dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent("/api/events")
	if comp.Name() != "sse" {
		t.Errorf("unexpected name %s", comp.Name())
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	comp.Hub().Register(NewClient("ui:a"))
	waitFor(t, func() bool { return comp.Hub().ClientCount() == 1 })

	h := comp.Health(context.Background())
	if h.Message != "1 clients connected" {
		t.Errorf("unexpected health message %q", h.Message)
	}
	if d := comp.Describe(); d.Type != "sse" || !strings.Contains(d.Details, "/api/events") {
		t.Errorf("unexpected description %+v", d)
	}
	if err := comp.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestServeSSE(t *testing.T) {
	hub := startHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		ServeSSE(hub, rec, req, "ui:test")
		close(served)
	}()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.Broadcast("ui:*", Event{Type: EventTick, Data: []byte(`{"seq":1}`)})
	// The unregister on return happens after the tick has been written.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-served

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"event: connected\ndata: {\"client_id\":\"ui:test\"}\n\n",
		"event: tick\ndata: {\"seq\":1}\n\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
