// Package graph holds the processing graph: nodes, the edges between them,
// the scene that owns both, and the resolver that turns a scene into an
// execution order.
//
// A Node is a plain data entity. Its work is done by a Processor supplied
// when the node is created (usually by a plugin component); the runner only
// talks to the Node, which brackets the processor with its lock and keeps
// the state slots (error, last update, output) that a UI reads concurrently.
//
//	scene := graph.NewScene()
//	src := graph.NewNode("camera", "source.pattern", pattern)
//	blur := graph.NewNode("blur", "processor.blur", box)
//	_ = scene.AddNode(src)
//	_ = scene.AddNode(blur)
//	_, _ = scene.Connect(src, blur)
//
//	res := graph.Resolve(scene.Items())
//	// res.Order == [camera, blur]
package graph
