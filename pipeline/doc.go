// Package pipeline loads declarative graph definitions and builds them
// into a scene through the plugin catalog.
//
// A definition names nodes, the component each one is created from, and
// the nodes it reads from. Definitions can include others by name; included
// nodes come first and a name defined twice keeps its first definition.
//
//	name: edges
//	includes: [camera]
//	nodes:
//	  - name: blur
//	    component: processor.blur
//	    sources: [camera]
//	    params: {radius: 2}
//
// The engine never writes these files; they are host input only.
package pipeline
