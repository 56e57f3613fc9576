package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/ocvflow/component"
)

// Summary prints the startup overview: components, routes, live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary printing to os.Stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints the summary, collecting descriptions, routes and health
// from the registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	w := s.out
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if registry == nil || len(registry.All()) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n\n")
		return
	}

	var descs []component.Description
	var routes []component.Route
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			descs = append(descs, desc)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(descs) > 0 {
		fmt.Fprintf(w, "📊 Components\n")
		for i, d := range descs {
			details := d.Details
			if d.Port > 0 && !strings.Contains(details, fmt.Sprintf(":%d", d.Port)) {
				details = fmt.Sprintf("%s (:%d)", details, d.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(descs)), d.Name, d.Type, details)
		}
		fmt.Fprintln(w)
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
		fmt.Fprintln(w)
	}

	healths := registry.HealthAll(ctx)
	fmt.Fprintf(w, "🏥 Health Check\n")
	for i, h := range healths {
		msg := ""
		if h.Message != "" {
			msg = " (" + h.Message + ")"
		}
		fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(healths)), healthStatusIcon(h.Status), h.Name, h.Status, msg)
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
