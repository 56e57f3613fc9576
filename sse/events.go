package sse

// Event types written to the "event:" field of the stream.
const (
	// EventConnected is sent once when a client connects.
	EventConnected = "connected"

	// EventTick carries a refresh tick with node state snapshots.
	EventTick = "tick"

	// EventRunStarted is sent when a run begins.
	EventRunStarted = "run.started"

	// EventRunStopped is sent when a run has ended.
	EventRunStopped = "run.stopped"

	// EventFailure reports an unexpected node failure.
	EventFailure = "failure"
)

// Event is one typed message on the stream.
type Event struct {
	Type string
	Data []byte
}
