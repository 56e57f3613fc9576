package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/ocvflow/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
	loggers         []string
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger instead of initializing the
// global one from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithComponentLoggers registers a named logger per component once the
// application logger is ready, so logger.Get(name) returns it.
func WithComponentLoggers(names ...string) Option {
	return func(o *appOptions) { o.loggers = append(o.loggers, names...) }
}

// WithSummaryOutput redirects the startup summary, os.Stdout by default.
// Pass io.Discard to silence it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) { o.summaryOut = w }
}
