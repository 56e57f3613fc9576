package bootstrap

import "github.com/kbukum/ocvflow/config"

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods.
//
//	type HostConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Runner runner.Config `yaml:"runner" mapstructure:"runner"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
