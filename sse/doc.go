// Package sse streams run events to browsers over Server-Sent Events.
//
// A Hub routes events to connected clients by glob pattern on the client
// ID. Publishing never blocks the caller: the runner's worker goroutine
// emits ticks through it, and a slow hub drops events instead of stalling
// the run.
//
// # Usage
//
//	hub := sse.NewHub()
//	go hub.Run()
//	router.GET("/api/events", func(c *gin.Context) {
//		sse.ServeSSE(hub, c.Writer, c.Request, "ui:"+uuid.NewString())
//	})
//	hub.Publish("ui:*", sse.EventTick, tick)
package sse
