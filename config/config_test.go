package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

type runnerSection struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	StopTimeout     time.Duration `mapstructure:"stop_timeout"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Runner        runnerSection `mapstructure:"runner"`
	Pipeline      string        `mapstructure:"pipeline"`
}

type fakeFS struct {
	files  map[string]bool
	loaded []string
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }

func (f *fakeFS) LoadEnv(path string) error {
	f.loaded = append(f.loaded, path)
	return nil
}

func TestServiceConfigDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "ocvflow"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("expected development+debug, got %q debug=%v", cfg.Environment, cfg.Debug)
	}
	if cfg.Logging.ServiceName != "ocvflow" {
		t.Errorf("expected logging service name to follow config name, got %q", cfg.Logging.ServiceName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "x", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: ocvflow
environment: staging
runner:
  refresh_interval: 42ms
  stop_timeout: 1s
pipeline: pipelines/demo.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OCVFLOW_RUNNER_STOP_TIMEOUT", "3s")
	t.Setenv("OTHER_RUNNER_STOP_TIMEOUT", "9s")

	var cfg testConfig
	if err := LoadConfig("ocvflow", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "ocvflow" || cfg.Environment != "staging" {
		t.Errorf("unexpected service section %+v", cfg.ServiceConfig)
	}
	if cfg.Runner.RefreshInterval != 42*time.Millisecond {
		t.Errorf("expected 42ms, got %v", cfg.Runner.RefreshInterval)
	}
	if cfg.Runner.StopTimeout != 3*time.Second {
		t.Errorf("expected env override 3s, got %v", cfg.Runner.StopTimeout)
	}
	if cfg.Pipeline != "pipelines/demo.yaml" {
		t.Errorf("unexpected pipeline %q", cfg.Pipeline)
	}
}

func TestLoadConfigMissingFileIsError(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{"./config.yml": true}}
	var cfg testConfig
	err := LoadConfig("ocvflow", &cfg, WithFileSystem(fs))
	if err == nil {
		t.Fatal("expected read error for a file the fake reports but disk lacks")
	}
}

func TestResolveFiles(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{
		"./cmd/ocvflow/config.yml": true,
		"./config.yml":             true,
		"./.env":                   true,
	}}
	got := ResolveFiles("ocvflow", LoaderConfig{FileSystem: fs})
	if got.ConfigFile != "./cmd/ocvflow/config.yml" {
		t.Errorf("expected cmd config first, got %q", got.ConfigFile)
	}
	if got.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", got.EnvFile)
	}

	explicit := ResolveFiles("ocvflow", LoaderConfig{FileSystem: fs, ConfigFile: "x.yml"})
	if explicit.ConfigFile != "x.yml" {
		t.Errorf("expected explicit path, got %q", explicit.ConfigFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("RUNNER_STOP_TIMEOUT")
	sort.Strings(got)
	want := []string{"runner.stop.timeout", "runner.stop_timeout", "runner_stop.timeout", "runner_stop_timeout"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if v := envKeyVariants("NAME"); len(v) != 1 || v[0] != "name" {
		t.Errorf("unexpected single-part variants %v", v)
	}
}
