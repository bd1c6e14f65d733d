package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Render styles.
const (
	StyleRadial   = "radial"   // native SVG renderer
	StyleGraphviz = "graphviz" // neato with pinned positions
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json" // layout wire format
	FormatDOT  = "dot"  // Graphviz source
)

// Node kinds as they appear on the wire.
const (
	KindCentral  = "central"
	KindCategory = "category"
	KindLeaf     = "leaf"
)

// Styles lists the valid render styles.
var Styles = []string{StyleRadial, StyleGraphviz}

// Formats lists the valid output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// =============================================================================
// Node and Edge - Positioned Elements
// =============================================================================

// Node is a positioned, sized mind-map box.
//
// X and Y are the box center in layout units with the y axis pointing up.
// Angle is the radial direction the node was placed along, in radians.
type Node struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	ColorIndex int      `json:"color_index"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Angle      float64  `json:"angle"`
	Lines      []string `json:"lines,omitempty"`
}

// IsCentral returns true for the root node.
func (n *Node) IsCentral() bool { return n.Kind == KindCentral }

// IsCategory returns true for first-tier nodes.
func (n *Node) IsCategory() bool { return n.Kind == KindCategory }

// IsLeaf returns true for second-tier nodes.
func (n *Node) IsLeaf() bool { return n.Kind == KindLeaf }

// DisplayLines returns the wrapped label, or the label as one line when the
// layout carries no wrapping.
func (n *Node) DisplayLines() []string {
	if len(n.Lines) > 0 {
		return n.Lines
	}
	if n.Label == "" {
		return nil
	}
	return []string{n.Label}
}

// Edge is a parent→child link between node keys.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Viewport is the rectangle a renderer should fit, margins included.
type Viewport struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (v Viewport) Width() float64 { return v.MaxX - v.MinX }

// Height returns the vertical extent.
func (v Viewport) Height() float64 { return v.MaxY - v.MinY }

// Contains reports whether (x, y) lies inside the viewport.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.MinX && x <= v.MaxX && y >= v.MinY && y <= v.MaxY
}
