package layout

import (
	"math"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/textbox"
)

// Placement is the computed position and box of one node.
type Placement struct {
	NodeID     int
	Key        string
	Label      string
	Kind       mindmap.Kind
	ColorIndex int
	X, Y       float64
	Angle      float64 // radial direction in radians; 0 for the central node
	Width      float64
	Height     float64
	Lines      []string
}

// Edge links two placements by node key.
type Edge struct {
	From, To string
}

// Layout is the result of Compute.
type Layout struct {
	Central    string
	Placements []Placement // indexed by node id
	Edges      []Edge
	Viewport   graph.Viewport
	Options    Options
}

// Compute places every node of m. It never fails; a central-only model yields
// a single placement at the origin.
func Compute(m *mindmap.Model, opts ...Option) Layout {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	nodes := m.Nodes()
	l := Layout{
		Central:    m.Central().Label,
		Placements: make([]Placement, len(nodes)),
		Options:    o,
	}
	for _, n := range nodes {
		box := textbox.Size(n.Kind, n.Label)
		l.Placements[n.ID] = Placement{
			NodeID:     n.ID,
			Key:        n.Key,
			Label:      n.Label,
			Kind:       n.Kind,
			ColorIndex: n.ColorIndex,
			Width:      box.Width,
			Height:     box.Height,
			Lines:      box.Lines,
		}
	}

	cats := m.Categories()
	for i, cat := range cats {
		theta := 2 * math.Pi * float64(i) / float64(len(cats))
		cx, cy := polar(0, 0, o.CategoryRadius, theta)
		l.place(cat.ID, cx, cy, theta)

		leaves := cat.Children
		switch k := len(leaves); k {
		case 0:
		case 1:
			x, y := polar(cx, cy, o.LeafRadius, theta)
			l.place(leaves[0], x, y, theta)
		default:
			for j, id := range leaves {
				phi := theta + o.LeafSpan*(float64(j)-float64(k-1)/2)/float64(k-1)
				x, y := polar(cx, cy, o.LeafRadius, phi)
				l.place(id, x, y, phi)
			}
		}
	}

	for _, e := range m.Edges() {
		l.Edges = append(l.Edges, Edge{From: nodes[e.From].Key, To: nodes[e.To].Key})
	}
	l.Viewport = viewport(l.Placements)
	return l
}

func (l *Layout) place(id int, x, y, angle float64) {
	p := &l.Placements[id]
	p.X, p.Y, p.Angle = x, y, angle
}

func polar(ox, oy, r, theta float64) (x, y float64) {
	return ox + r*math.Cos(theta), oy + r*math.Sin(theta)
}

// Viewport margins.
const (
	MarginRatio = 0.2
	MarginPad   = 1.0
)

func viewport(ps []Placement) graph.Viewport {
	if len(ps) == 0 {
		return graph.Viewport{MinX: -MarginPad, MinY: -MarginPad, MaxX: MarginPad, MaxY: MarginPad}
	}
	minX, maxX := ps[0].X, ps[0].X
	minY, maxY := ps[0].Y, ps[0].Y
	for _, p := range ps[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	mx := MarginRatio*(maxX-minX) + MarginPad
	my := MarginRatio*(maxY-minY) + MarginPad
	return graph.Viewport{MinX: minX - mx, MinY: minY - my, MaxX: maxX + mx, MaxY: maxY + my}
}

// Lookup returns the placement of the node with the given key.
func (l Layout) Lookup(key string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.Key == key {
			return p, true
		}
	}
	return Placement{}, false
}

// Export converts the layout into the serialization format.
func (l Layout) Export() graph.Layout {
	out := graph.Layout{
		Central:  l.Central,
		Nodes:    make([]graph.Node, len(l.Placements)),
		Edges:    make([]graph.Edge, len(l.Edges)),
		Viewport: l.Viewport,
	}
	for i, p := range l.Placements {
		out.Nodes[i] = graph.Node{
			Key:        p.Key,
			Label:      p.Label,
			Kind:       p.Kind.String(),
			ColorIndex: p.ColorIndex,
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
			Angle:      p.Angle,
			Lines:      p.Lines,
		}
	}
	for i, e := range l.Edges {
		out.Edges[i] = graph.Edge{From: e.From, To: e.To}
	}
	return out
}
