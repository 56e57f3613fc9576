// Package runner executes a graph as a live pipeline.
//
// A run resolves the current scene once, calls every node's Start hook,
// then loops over the order on a single goroutine: each node is processed
// inside its lock, failures are isolated per node, and at most once per
// RefreshInterval the nodes are stamped, refreshed and reported as a Tick.
// After each tick the worker pauses for BaseDelay plus PerNodeDelay per
// node.
//
// Stop is cooperative first: the worker finishes its iteration and calls
// every node's Stop hook. When that takes longer than StopTimeout, the
// run's context is cancelled and Stop waits for the worker to return.
//
//	r := runner.New(scene, cfg, runner.WithTickHandler(publish))
//	_ = r.Start(ctx)
//	...
//	_ = r.Stop(ctx)
package runner
