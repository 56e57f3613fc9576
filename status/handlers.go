package status

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/ocvflow/component"
	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/runner"
	"github.com/kbukum/ocvflow/sse"
)

// OrderEntry is one node in the execution order.
type OrderEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Kind string    `json:"kind"`
}

// RunStatus describes the runner.
type RunStatus struct {
	RunID uuid.UUID    `json:"run_id"`
	State string       `json:"state"`
	Order []OrderEntry `json:"order,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	var healths []component.Health
	if s.health != nil {
		healths = s.health(c.Request.Context())
	}
	status := component.Overall(healths)
	code := http.StatusOK
	if status == component.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":     status,
		"service":    s.service,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": healths,
	})
}

// nodes returns the run's snapshots, or the scene's while idle.
func (s *Server) nodes() []runner.NodeState {
	if states := s.ctl.Nodes(); len(states) > 0 {
		return states
	}
	if s.scene == nil {
		return []runner.NodeState{}
	}
	nodes := s.scene.Nodes()
	states := make([]runner.NodeState, len(nodes))
	for i, n := range nodes {
		states[i] = runner.Snapshot(n)
	}
	return states
}

func (s *Server) handleNodes(c *gin.Context) {
	RespondOK(c, s.nodes())
}

func (s *Server) handleNode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondWithError(c, errors.InvalidInput("id", "not a UUID"))
		return
	}
	for _, st := range s.nodes() {
		if st.ID == id {
			RespondOK(c, st)
			return
		}
	}
	RespondWithError(c, errors.NotFound("node", id.String()))
}

func (s *Server) runStatus(withOrder bool) RunStatus {
	rs := RunStatus{RunID: s.ctl.RunID(), State: s.ctl.State().String()}
	if withOrder {
		rs.Order = []OrderEntry{}
		for _, n := range s.ctl.Order() {
			rs.Order = append(rs.Order, OrderEntry{ID: n.ID(), Name: n.Name(), Kind: n.Kind()})
		}
	}
	return rs
}

func (s *Server) handleOrder(c *gin.Context) {
	RespondOK(c, s.runStatus(true))
}

func (s *Server) handleStart(c *gin.Context) {
	// The run outlives the request.
	if err := s.ctl.Start(context.WithoutCancel(c.Request.Context())); err != nil {
		RespondWithError(c, err)
		return
	}
	rs := s.runStatus(false)
	s.publish(sse.EventRunStarted, rs)
	RespondAccepted(c, rs)
}

func (s *Server) handleStop(c *gin.Context) {
	runID := s.ctl.RunID()
	if err := s.ctl.Stop(c.Request.Context()); err != nil {
		RespondWithError(c, err)
		return
	}
	rs := s.runStatus(false)
	if runID != uuid.Nil {
		s.publish(sse.EventRunStopped, RunStatus{RunID: runID, State: rs.State})
	}
	RespondOK(c, rs)
}

func (s *Server) publish(eventType string, v any) {
	if s.hub != nil {
		_ = s.hub.Publish(uiPattern, eventType, v)
	}
}

func (s *Server) handleEvents(c *gin.Context) {
	if s.hub == nil {
		RespondWithError(c, errors.NotFound("event stream", ""))
		return
	}
	sse.ServeSSE(s.hub, c.Writer, c.Request, UIClientPrefix+uuid.NewString())
}
