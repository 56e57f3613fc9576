package graph

import "context"

// Processor is the work a node performs during a run.
//
// Start is called once before the first iteration and Stop once after the
// loop exits, both outside the node lock. Process is called every iteration
// while the runner holds the node lock. A Process error built with
// errors.ProcessingFailed is a recoverable failure recorded on the node;
// anything else, including a panic, is treated as unexpected.
type Processor interface {
	Start(ctx context.Context, n *Node) error
	Process(ctx context.Context, n *Node) error
	Stop(ctx context.Context, n *Node) error
}

// Updater is implemented by processors that refresh derived display state
// on the throttled refresh tick rather than on every Process call.
type Updater interface {
	Update(n *Node)
}

// ProcessorFunc adapts a function to a Processor with no-op Start and Stop.
type ProcessorFunc func(ctx context.Context, n *Node) error

func (f ProcessorFunc) Start(context.Context, *Node) error { return nil }

func (f ProcessorFunc) Process(ctx context.Context, n *Node) error { return f(ctx, n) }

func (f ProcessorFunc) Stop(context.Context, *Node) error { return nil }

// nopProcessor backs nodes created without a processor.
type nopProcessor struct{}

func (nopProcessor) Start(context.Context, *Node) error   { return nil }
func (nopProcessor) Process(context.Context, *Node) error { return nil }
func (nopProcessor) Stop(context.Context, *Node) error    { return nil }
