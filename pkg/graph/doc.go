// Package graph provides the serialization types for laid-out mind maps.
//
// This package defines the canonical wire format for positioned mind maps,
// used for layout files, API responses, caching and renderers.
//
// # Architecture
//
// The package sits at the serialization boundary between the layout engine
// and everything that consumes its output:
//
//   - [Layout], [Node], [Edge], [Viewport]: serialization types (this package)
//   - pkg/mindmap.Model: the node/edge arena built from a category map
//   - pkg/layout.Layout: the computed placement of a model
//
// Use layout.Layout.Export to convert computed placements into this format.
// Renderers only ever see a [Layout].
//
// # Constants
//
// This package is the single source of truth for rendering constants:
//
//	graph.StyleRadial    // "radial"
//	graph.StyleGraphviz  // "graphviz"
//	graph.FormatSVG      // "svg", also png, pdf, json, dot
//
// # Layout Serialization
//
//	{
//	  "central": "Tree",
//	  "nodes": [
//	    {"key": "Tree", "label": "Tree", "kind": "central", "color_index": 0,
//	     "x": 0, "y": 0, "width": 2.2, "height": 1, "angle": 0, "lines": ["Tree"]}
//	  ],
//	  "edges": [],
//	  "viewport": {"min_x": -1, "min_y": -1, "max_x": 1, "max_y": 1}
//	}
//
// Node keys qualify category and leaf labels with their parent's key, joined
// by a NUL byte (escaped as \u0000 in JSON). Display the label, not the key.
//
// Common operations:
//
//	l, _ := graph.ReadLayoutFile("tree.layout.json")
//	graph.WriteLayoutFile(l, "tree.layout.json")
//	data, _ := graph.MarshalLayout(l)
//	parsed, _ := graph.UnmarshalLayout(data)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
