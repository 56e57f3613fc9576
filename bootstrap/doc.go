// Package bootstrap runs the host's lifecycle: typed configuration,
// component start and stop, hooks and the startup summary.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(hub)
//	app.RegisterComponent(r.Component())
//	err = app.Run(ctx)
//
// Run blocks until SIGINT, SIGTERM or context cancellation, then stops
// components in reverse registration order. RunTask does the same around a
// finite task.
package bootstrap
