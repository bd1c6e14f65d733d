package radial

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/textbox"
)

// UnitPx is the number of SVG user units per layout unit. At this scale the
// textbox calibration maps font sizes one to one onto user units.
const UnitPx = 10.0

const (
	titleBand     = 30.0
	titleFontSize = 18.0
	fontFamily    = "Helvetica, Arial, sans-serif"
	cornerRadius  = 2.0
)

type Option func(*renderer)

type renderer struct {
	zoom       float64
	title      bool
	background string
}

// WithZoom scales the width and height attributes of the SVG. The viewBox is
// unchanged.
func WithZoom(z float64) Option { return func(r *renderer) { r.zoom = z } }

// WithoutTitle drops the "Mind map: <central>" heading.
func WithoutTitle() Option { return func(r *renderer) { r.title = false } }

// WithBackground fills the canvas with color. An empty color leaves it
// transparent.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

type bounds struct{ minX, minY, maxX, maxY float64 }

// RenderSVG draws l as SVG.
func RenderSVG(l graph.Layout, opts ...Option) []byte {
	r := renderer{zoom: 4, title: true, background: "#FFFFFF"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.zoom <= 0 {
		r.zoom = 1
	}

	b := canvasBounds(l)
	top := 0.0
	if r.title {
		top = titleBand
	}
	width := (b.maxX - b.minX) * UnitPx
	height := (b.maxY-b.minY)*UnitPx + top
	sx := func(x float64) float64 { return (x - b.minX) * UnitPx }
	sy := func(y float64) float64 { return (b.maxY-y)*UnitPx + top }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		width, height, width*r.zoom, height*r.zoom, fontFamily)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(r.background))
	}
	if r.title {
		fmt.Fprintf(&buf, `  <text class="title" x="%.2f" y="%.2f" font-size="%.0f" font-weight="bold" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			width/2, titleBand/2, titleFontSize, render.CentralColor, escape(render.Title(l.Central)))
	}

	byKey := make(map[string]graph.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		byKey[n.Key] = n
	}

	fmt.Fprintf(&buf, `  <g class="edges" stroke="%s" stroke-opacity="0.6" stroke-width="1">`+"\n", render.EdgeColor)
	for _, e := range l.Edges {
		from, okF := byKey[e.From]
		to, okT := byKey[e.To]
		if !okF || !okT {
			continue
		}
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", sx(from.X), sy(from.Y), sx(to.X), sy(to.Y))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range drawOrder(l.Nodes) {
		renderNode(&buf, n, sx(n.X), sy(n.Y))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n graph.Node, cx, cy float64) {
	kind, err := mindmap.ParseKind(n.Kind)
	if err != nil {
		kind = mindmap.Leaf
	}
	m := textbox.For(kind)
	w, h := n.Width*UnitPx, n.Height*UnitPx

	fmt.Fprintf(buf, `    <g class="node %s">`+"\n", kind)
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
		cx-w/2, cy-h/2, w, h, cornerRadius, render.Color(n))

	lines := n.DisplayLines()
	if len(lines) == 0 {
		buf.WriteString("    </g>\n")
		return
	}
	weight := "normal"
	if m.Bold {
		weight = "bold"
	}
	lineH := m.FontSize * textbox.HeightFactor * UnitPx
	fmt.Fprintf(buf, `      <text font-size="%.0f" font-weight="%s" fill="%s" text-anchor="middle" dominant-baseline="central">`,
		m.FontSize, weight, render.TextColor)
	for i, line := range lines {
		y := cy + (float64(i)-float64(len(lines)-1)/2)*lineH
		fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, cx, y, escape(line))
	}
	buf.WriteString("</text>\n    </g>\n")
}

// drawOrder puts leaves first and the central node last so parents paint
// over their children where boxes overlap.
func drawOrder(nodes []graph.Node) []graph.Node {
	rank := func(n graph.Node) int {
		switch n.Kind {
		case graph.KindCentral:
			return 2
		case graph.KindCategory:
			return 1
		}
		return 0
	}
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b graph.Node) int { return cmp.Compare(rank(a), rank(b)) })
	return out
}

// canvasBounds is the layout viewport grown to contain every box.
func canvasBounds(l graph.Layout) bounds {
	v := l.Viewport
	b := bounds{v.MinX, v.MinY, v.MaxX, v.MaxY}
	if v.Width() <= 0 || v.Height() <= 0 {
		b = bounds{-1, -1, 1, 1}
	}
	for _, n := range l.Nodes {
		b.minX = min(b.minX, n.X-n.Width/2)
		b.maxX = max(b.maxX, n.X+n.Width/2)
		b.minY = min(b.minY, n.Y-n.Height/2)
		b.maxY = max(b.maxY, n.Y+n.Height/2)
	}
	return b
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
