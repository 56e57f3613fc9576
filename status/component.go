package status

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/ocvflow/component"
)

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component runs a Server under the component registry.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (sc *Component) Name() string { return "status-server" }

func (sc *Component) Start(ctx context.Context) error { return sc.server.Start(ctx) }

func (sc *Component) Stop(ctx context.Context) error { return sc.server.Stop(ctx) }

func (sc *Component) Health(context.Context) component.Health {
	return component.Health{Name: sc.Name(), Status: component.StatusHealthy}
}

func (sc *Component) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "Status Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Port:    cfg.Port,
	}
}

// Routes lists the registered routes, API routes first.
func (sc *Component) Routes() []component.Route {
	ginRoutes := sc.server.engine.Routes()
	sort.Slice(ginRoutes, func(i, j int) bool {
		iSys, jSys := ginRoutes[i].Path == "/health", ginRoutes[j].Path == "/health"
		if iSys != jSys {
			return !iSys
		}
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return ginRoutes[i].Method < ginRoutes[j].Method
	})

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handlerName(r.Handler),
		})
	}
	return routes
}

// handlerName shortens gin's handler names:
// "github.com/kbukum/ocvflow/status.(*Server).handleNodes-fm" becomes
// "Server.handleNodes".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)
	if _, rest, ok := strings.Cut(name, "."); ok && rest != "" {
		name = rest
	}
	return name
}
