// Package status serves the engine's state over HTTP.
//
// Routes:
//
//	GET  /health          component health
//	GET  /api/nodes       state slots of every node
//	GET  /api/nodes/:id   state slots of one node
//	GET  /api/order       execution order of the current run
//	POST /api/run/start   start a run
//	POST /api/run/stop    stop the run
//	GET  /api/events      Server-Sent Events: ticks, run and failure events
//
// The server reads node state; it never processes nodes. Start and stop
// forward to the runner.
package status
