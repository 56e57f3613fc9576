package status

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/ocvflow/component"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/runner"
	"github.com/kbukum/ocvflow/sse"
)

const eventsPath = "/api/events"

// Controller is the part of the runner the server drives. *runner.Runner
// satisfies it.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	State() runner.State
	RunID() uuid.UUID
	Order() []*graph.Node
	Nodes() []runner.NodeState
}

// HealthChecker reports the health of registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Option configures a Server.
type Option func(*Server)

// WithScene lists the scene's nodes while no run is active.
func WithScene(scene *graph.Scene) Option {
	return func(s *Server) { s.scene = scene }
}

// WithHub serves the hub's events at /api/events.
func WithHub(hub *sse.Hub) Option {
	return func(s *Server) { s.hub = hub }
}

// WithHealth reports checker's results at /health.
func WithHealth(checker HealthChecker) Option {
	return func(s *Server) { s.health = checker }
}

// WithLogger sets the server's logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Server) { s.log = log }
}

// Server is the status HTTP server backed by gin.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	service    string
	log        *logger.Logger

	ctl    Controller
	scene  *graph.Scene
	hub    *sse.Hub
	health HealthChecker
}

// New creates a server with its middleware and routes registered. cfg gets
// its defaults applied.
func New(cfg Config, service string, ctl Controller, opts ...Option) *Server {
	cfg.ApplyDefaults()
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		config:  cfg,
		service: service,
		ctl:     ctl,
		log:     logger.Get("status"),
	}
	for _, opt := range opts {
		opt(s)
	}
	// HTTP/2 cleartext lets a browser hold many event streams on one
	// connection.
	h2s := &http2.Server{MaxConcurrentStreams: 250, IdleTimeout: 120 * time.Second}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(s.engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	s.engine.Use(Recovery(s.log), RequestID(), CORS(cfg.CORS), RequestLogger(s.log))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	api := s.engine.Group("/api")
	api.GET("/nodes", s.handleNodes)
	api.GET("/nodes/:id", s.handleNode)
	api.GET("/order", s.handleOrder)
	api.POST("/run/start", s.handleStart)
	api.POST("/run/stop", s.handleStop)
	api.GET("/events", s.handleEvents)
}

// Handler returns the HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start binds the port and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start(context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("status server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()
	s.log.Info("status server started", logger.Fields("addr", s.httpServer.Addr))
	return nil
}

// Stop shuts the server down with a 5-second deadline. Open event streams
// end when the hub stops.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status server shutdown: %w", err)
	}
	s.log.Info("status server stopped")
	return nil
}
