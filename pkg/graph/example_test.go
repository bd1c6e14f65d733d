package graph_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/mindmap/pkg/graph"
)

func ExampleUnmarshalLayout() {
	data := []byte(`{
		"central": "Tree",
		"nodes": [
			{"key": "Tree", "label": "Tree", "kind": "central"},
			{"key": "Tree\u0000Cycle", "label": "Cycle", "kind": "category", "color_index": 1, "x": -4},
			{"key": "Tree\u0000Cycle\u0000growth", "label": "growth", "kind": "leaf", "color_index": 1, "x": -6}
		],
		"edges": [
			{"from": "Tree", "to": "Tree\u0000Cycle"},
			{"from": "Tree\u0000Cycle", "to": "Tree\u0000Cycle\u0000growth"}
		],
		"viewport": {"min_x": -8.2, "min_y": -1, "max_x": 1.2, "max_y": 1}
	}`)

	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	leaf, _ := l.Node("Tree\x00Cycle\x00growth")
	fmt.Println("Nodes:", len(l.Nodes))
	fmt.Println("Leaf:", leaf.Label, "at x =", leaf.X)
	fmt.Printf("Viewport: %.1f wide\n", l.Viewport.Width())
	// Output:
	// Nodes: 3
	// Leaf: growth at x = -6
	// Viewport: 9.4 wide
}

func ExampleWriteLayoutFile() {
	l := graph.Layout{
		Central: "Tree",
		Nodes:   []graph.Node{{Key: "Tree", Label: "Tree", Kind: graph.KindCentral, Width: 2.2, Height: 1}},
		Edges:   []graph.Edge{},
		Viewport: graph.Viewport{
			MinX: -1, MinY: -1, MaxX: 1, MaxY: 1,
		},
	}

	path := filepath.Join(os.TempDir(), "example-layout.json")
	defer os.Remove(path)

	if err := graph.WriteLayoutFile(l, path); err != nil {
		fmt.Println("Error:", err)
		return
	}

	back, err := graph.ReadLayoutFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Central:", back.Central)
	// Output:
	// Central: Tree
}
