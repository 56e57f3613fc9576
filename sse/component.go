package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/ocvflow/component"
)

// Component runs a Hub under the component registry.
type Component struct {
	hub  *Hub
	wg   sync.WaitGroup
	path string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component around a fresh hub served at path.
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

// Hub returns the hub for publishing and serving.
func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

// Start runs the hub loop in the background.
func (c *Component) Start(context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop stops the hub and waits for its loop to return.
func (c *Component) Stop(context.Context) error {
	c.hub.Stop()
	c.wg.Wait()
	return nil
}

func (c *Component) Health(context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Event Stream",
		Type:    "sse",
		Details: "Path: " + c.path,
	}
}
