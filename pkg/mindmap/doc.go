// Package mindmap holds the three-tier node/edge structure of a mind map.
//
// A [Model] is built fresh from a category map by [Build] and never mutated
// afterwards. It is a flat arena: nodes live in a slice indexed by integer
// id, and edges are id pairs. Node 0 is always the single [Central] node;
// its children are [Category] nodes in map order, and each category's
// children are [Leaf] nodes in item order.
//
//	m, err := mindmap.BuildJSON("Tree", []byte(`{"Nature": ["roots", "leaves"], "Cycle": "growth"}`))
//	// 1 central, 2 categories, 3 leaves, 5 edges
//
// # Keys
//
// Every node has a key that is unique within the model. Category and leaf
// keys are qualified by their parent's key, joined with a NUL byte, so two
// leaves that share text under different categories stay separate nodes.
// Labels are what renderers display.
//
// # Colors
//
// A category's ColorIndex is its position modulo [PaletteSize]. Leaves share
// their category's index.
package mindmap
