package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/render/nodelink"
	"github.com/matzehuels/mindmap/pkg/render/radial"
)

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout builds the mind map model for opts.Central and opts.Map and
// places it. A nil map yields a central-only layout.
func ComputeLayout(opts Options) (graph.Layout, error) {
	m, err := mindmap.Build(opts.Central, opts.Map)
	if err != nil {
		return graph.Layout{}, err
	}
	return layout.Compute(m, layout.WithOptions(opts.LayoutOptions())).Export(), nil
}

// mapBytes is the canonical encoding used to hash a category map.
func mapBytes(m *catmap.Map) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return m.MarshalJSON()
}

// =============================================================================
// Render
// =============================================================================

// RenderLayout produces every requested format from a layout.
//
// With the radial style, SVG comes from the native renderer and PNG/PDF are
// converted from it. With the graphviz style, the layout is emitted as DOT
// with pinned positions and Graphviz renders all image formats. The json and
// dot formats are the same under both styles.
func RenderLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	r := &layoutRenderer{l: l, opts: opts}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.render(ctx, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// layoutRenderer memoizes the intermediate SVG and DOT across formats.
type layoutRenderer struct {
	l    graph.Layout
	opts Options
	svg  []byte
	dot  string
}

func (r *layoutRenderer) render(ctx context.Context, format string) ([]byte, error) {
	switch format {
	case graph.FormatJSON:
		return graph.MarshalLayout(r.l)
	case graph.FormatDOT:
		return []byte(r.toDOT()), nil
	}

	if r.opts.Style == graph.StyleGraphviz {
		switch format {
		case graph.FormatSVG:
			return r.graphvizSVG(ctx)
		case graph.FormatPNG:
			return nodelink.RenderPNG(ctx, r.toDOT(), DefaultPNGScale)
		case graph.FormatPDF:
			return nodelink.RenderPDF(ctx, r.toDOT())
		}
		return nil, ValidateFormat(format)
	}

	switch format {
	case graph.FormatSVG:
		return r.radialSVG(), nil
	case graph.FormatPNG:
		return render.ToPNG(ctx, r.radialSVG(), DefaultPNGScale)
	case graph.FormatPDF:
		return render.ToPDF(ctx, r.radialSVG())
	}
	return nil, ValidateFormat(format)
}

func (r *layoutRenderer) radialSVG() []byte {
	if r.svg == nil {
		opts := []radial.Option{radial.WithZoom(r.opts.Zoom)}
		if r.opts.NoTitle {
			opts = append(opts, radial.WithoutTitle())
		}
		r.svg = radial.RenderSVG(r.l, opts...)
	}
	return r.svg
}

func (r *layoutRenderer) graphvizSVG(ctx context.Context) ([]byte, error) {
	if r.svg == nil {
		svg, err := nodelink.RenderSVG(ctx, r.toDOT())
		if err != nil {
			return nil, err
		}
		r.svg = svg
	}
	return r.svg, nil
}

func (r *layoutRenderer) toDOT() string {
	if r.dot == "" {
		r.dot = nodelink.ToDOT(r.l, nodelink.Options{NoTitle: r.opts.NoTitle})
	}
	return r.dot
}
