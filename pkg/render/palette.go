package render

import "github.com/matzehuels/mindmap/pkg/graph"

// Palette holds the category colors. A category and its leaves use
// Palette[colorIndex mod len(Palette)].
var Palette = [8]string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// CentralColor fills the central node.
const CentralColor = "#2C3E50"

// TextColor is used for every label.
const TextColor = "#FFFFFF"

// EdgeColor strokes every edge.
const EdgeColor = "#808080"

// Color returns the fill color of a node.
func Color(n graph.Node) string {
	if n.IsCentral() {
		return CentralColor
	}
	return CategoryColor(n.ColorIndex)
}

// CategoryColor returns the palette color for a color index.
func CategoryColor(index int) string {
	i := index % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// Title returns the diagram title for a central label.
func Title(central string) string {
	return "Mind map: " + central
}
