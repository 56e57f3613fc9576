// Command ocvflow loads a pipeline definition and runs it, serving node
// state and tick events over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/ocvflow/bootstrap"
	"github.com/kbukum/ocvflow/config"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/nodes"
	"github.com/kbukum/ocvflow/observability"
	"github.com/kbukum/ocvflow/pipeline"
	"github.com/kbukum/ocvflow/plugin"
	"github.com/kbukum/ocvflow/runner"
	"github.com/kbukum/ocvflow/sse"
	"github.com/kbukum/ocvflow/status"
	"github.com/kbukum/ocvflow/version"
)

const serviceName = "ocvflow"

// componentLoggers are the names packages pass to logger.Get.
var componentLoggers = []string{"components", "catalog", "pipeline", "nodes", "runner", "sse", "status"}

func main() {
	var (
		configFile   = pflag.StringP("config", "c", "", "config file (default: search cmd/ocvflow, config/, .)")
		envFile      = pflag.String("env-file", "", ".env file")
		pipelineName = pflag.StringP("pipeline", "p", "", "pipeline to run, overrides pipeline.name")
		autoStart    = pflag.Bool("start", false, "start the run as soon as the host is up")
		showVersion  = pflag.BoolP("version", "v", false, "print the version and exit")
		listNodes    = pflag.Bool("list", false, "list available components and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Println(serviceName, version.Get())
		return
	}
	if *listNodes {
		printCatalog()
		return
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
	); err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	if *pipelineName != "" {
		cfg.Pipeline.Name = *pipelineName
	}
	if *autoStart {
		cfg.Runner.AutoStart = true
	}

	if err := run(context.Background(), &cfg); err != nil {
		logger.Error("ocvflow exited with error", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithComponentLoggers(componentLoggers...))
	if err != nil {
		return err
	}

	telemetry := observability.NewComponent(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	catalog := plugin.NewCatalog()
	if err := catalog.Install(nodes.Plugin()); err != nil {
		return err
	}

	loader := pipeline.NewFileLoader(cfg.Pipeline.Dirs...)
	def, err := loader.Load(cfg.Pipeline.Name)
	if err != nil {
		return fmt.Errorf("loading pipeline: %w", err)
	}
	scene := graph.NewScene()
	builder := &pipeline.Builder{
		Catalog: catalog,
		Loader:  loader,
		Deps: plugin.Deps{
			Logger:  logger.Get("nodes"),
			Metrics: metrics,
		},
	}
	if _, err := builder.Build(def, scene); err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	events := sse.NewComponent("/api/events")
	opts := []runner.Option{
		runner.WithMetrics(metrics),
		runner.WithTickHandler(status.TickPublisher(events.Hub())),
		runner.WithFailureHandler(status.FailurePublisher(events.Hub())),
	}
	// Node hook spans come from the runner only; the catalog adds metrics
	// and logging decorators but no tracing layer.
	if cfg.Telemetry.Enabled {
		opts = append(opts, runner.WithTracing())
	}
	r := runner.New(scene, cfg.Runner, opts...)

	server := status.New(cfg.Status, cfg.Name, r,
		status.WithScene(scene),
		status.WithHub(events.Hub()),
		status.WithHealth(app.Components.HealthAll),
	)

	// Registration order is start order; the runner stops first and
	// telemetry flushes last.
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}
	if err := app.RegisterComponent(events); err != nil {
		return err
	}
	if cfg.Status.Enabled {
		if err := app.RegisterComponent(status.NewComponent(server)); err != nil {
			return err
		}
	}
	if err := app.RegisterComponent(r.Component()); err != nil {
		return err
	}

	app.Logger.Info("pipeline loaded", logger.Fields(
		"pipeline", def.Name,
		logger.FieldCount, len(scene.Nodes()),
	))
	return app.Run(ctx)
}

func printCatalog() {
	catalog := plugin.NewCatalog()
	_ = catalog.Install(nodes.Plugin())
	for _, tb := range plugin.ToolBars() {
		comps := catalog.ByToolBar(tb)
		if len(comps) == 0 {
			continue
		}
		fmt.Println(tb)
		for _, c := range comps {
			fmt.Printf("  %-22s %s\n", c.Name, c.Description)
		}
	}
}
