package runner

import (
	"time"

	"github.com/kbukum/ocvflow/validation"
)

// FailurePolicy decides what happens to failures a processor did not
// classify as recoverable, including panics.
type FailurePolicy string

const (
	// PolicySwallow drops the failure.
	PolicySwallow FailurePolicy = "swallow"
	// PolicyLog logs it and calls the failure handler.
	PolicyLog FailurePolicy = "log"
	// PolicyRecord also writes it into the node's error slot.
	PolicyRecord FailurePolicy = "record"
)

// Config tunes the run loop.
type Config struct {
	// RefreshInterval is the minimum spacing of refresh ticks.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval" validate:"gt=0"`
	// BaseDelay and PerNodeDelay make up the pause after each tick:
	// BaseDelay + PerNodeDelay*nodes. Zero means the default; use a
	// nanosecond for an effectively unthrottled loop.
	BaseDelay    time.Duration `yaml:"base_delay" mapstructure:"base_delay" validate:"gte=0"`
	PerNodeDelay time.Duration `yaml:"per_node_delay" mapstructure:"per_node_delay" validate:"gte=0"`
	// StopTimeout bounds the cooperative wait in Stop before the run's
	// context is cancelled.
	StopTimeout        time.Duration `yaml:"stop_timeout" mapstructure:"stop_timeout" validate:"gt=0"`
	UnexpectedFailures FailurePolicy `yaml:"unexpected_failures" mapstructure:"unexpected_failures" validate:"oneof=swallow log record"`
	// AutoStart starts a run when the host starts.
	AutoStart bool `yaml:"auto_start" mapstructure:"auto_start"`
}

// Defaults.
const (
	DefaultRefreshInterval = 42 * time.Millisecond
	DefaultBaseDelay       = 10 * time.Millisecond
	DefaultPerNodeDelay    = time.Millisecond
	DefaultStopTimeout     = time.Second
)

// ApplyDefaults fills unset fields. Every zero duration is treated as unset.
func (c *Config) ApplyDefaults() {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.PerNodeDelay == 0 {
		c.PerNodeDelay = DefaultPerNodeDelay
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.UnexpectedFailures == "" {
		c.UnexpectedFailures = PolicyLog
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// throttle returns the pause after a tick for a run of n nodes.
func (c *Config) throttle(n int) time.Duration {
	return c.BaseDelay + c.PerNodeDelay*time.Duration(n)
}
