package main

import (
	"errors"
	"fmt"

	"github.com/kbukum/ocvflow/config"
	"github.com/kbukum/ocvflow/observability"
	"github.com/kbukum/ocvflow/runner"
	"github.com/kbukum/ocvflow/status"
)

// Config is the host configuration, loaded from config.yml, .env and
// OCVFLOW_* environment variables.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Runner    runner.Config        `yaml:"runner" mapstructure:"runner"`
	Status    status.Config        `yaml:"status" mapstructure:"status"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Pipeline  PipelineConfig       `yaml:"pipeline" mapstructure:"pipeline"`
}

// PipelineConfig selects the graph definition to load.
type PipelineConfig struct {
	// Name is looked up as {name}.yaml in Dirs.
	Name string   `yaml:"name" mapstructure:"name"`
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Runner.ApplyDefaults()
	c.Status.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	if len(c.Pipeline.Dirs) == 0 {
		c.Pipeline.Dirs = []string{"./pipelines", "./cmd/ocvflow/pipelines"}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.ServiceConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Runner.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("runner: %w", err))
	}
	if err := c.Status.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("status: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}
	if c.Pipeline.Name == "" {
		errs = append(errs, fmt.Errorf("pipeline.name is required"))
	}
	return errors.Join(errs...)
}
