// Package config loads host configuration with Viper.
//
// A config.yml is read first, then an optional .env file, then environment
// variables carrying the service prefix:
//
//	var cfg Config
//	err := config.LoadConfig("ocvflow", &cfg)
//
// OCVFLOW_RUNNER_REFRESH_INTERVAL=100ms overrides runner.refresh_interval.
package config
