package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/textbox"
)

// InchesPerUnit converts layout units to Graphviz inches. One unit is ten
// points, the scale the textbox calibration assumes.
const InchesPerUnit = 10.0 / 72

// Options configures DOT generation.
type Options struct {
	// NoTitle omits the "Mind map: <central>" graph label.
	NoTitle bool
}

// ToDOT converts a layout to Graphviz DOT with every node pinned at its
// layout position. Render it with neato, which honours pinned positions;
// [RenderSVG] does that. Node names are positional ("n0", "n1", ...) and
// labels carry the wrapped lines.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	if !opts.NoTitle {
		fmt.Fprintf(&buf, "  label=%q;\n", render.Title(l.Central))
		fmt.Fprintf(&buf, "  labelloc=t;\n  fontsize=18;\n  fontname=\"Helvetica-Bold\";\n  fontcolor=%q;\n", render.CentralColor)
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontcolor=%q, color=\"white\", margin=\"0.02,0.02\"];\n", render.TextColor)
	fmt.Fprintf(&buf, "  edge [color=\"%s99\", penwidth=2];\n", render.EdgeColor)
	buf.WriteString("\n")

	ids := make(map[string]string, len(l.Nodes))
	for i, n := range l.Nodes {
		id := "n" + strconv.Itoa(i)
		ids[n.Key] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		from, okF := ids[e.From]
		to, okT := ids[e.To]
		if !okF || !okT {
			continue
		}
		fmt.Fprintf(&buf, "  %s -- %s;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.Node) []string {
	kind, err := mindmap.ParseKind(n.Kind)
	if err != nil {
		kind = mindmap.Leaf
	}
	m := textbox.For(kind)
	font := "Helvetica"
	if m.Bold {
		font = "Helvetica-Bold"
	}
	return []string{
		fmt.Sprintf("label=%q", strings.Join(n.DisplayLines(), "\n")),
		fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.X*InchesPerUnit, n.Y*InchesPerUnit),
		fmt.Sprintf("width=%.3f", n.Width*InchesPerUnit),
		fmt.Sprintf("height=%.3f", n.Height*InchesPerUnit),
		fmt.Sprintf("fillcolor=%q", render.Color(n)),
		fmt.Sprintf("fontsize=%.0f", m.FontSize),
		fmt.Sprintf("fontname=%q", font),
	}
}

// RenderSVG renders DOT produced by [ToDOT] to SVG using Graphviz's neato
// engine. Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([-0-9.]+)\s+([-0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root tag with one that scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT as PNG via SVG conversion at the given scale.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
