// Package render turns laid-out mind maps into images.
//
// # Overview
//
// Renderers consume a [graph.Layout] and never see the model it came from.
// This package holds what they share:
//
//   - The category color palette ([Palette], [Color])
//   - Generic format conversion (SVG to PDF/PNG)
//
// Two renderers live in subpackages:
//
//   - [radial]: native SVG drawn straight from layout coordinates
//   - [nodelink]: Graphviz DOT with pinned positions, rendered by neato
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := radial.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [graph.Layout]: github.com/matzehuels/mindmap/pkg/graph.Layout
// [radial]: github.com/matzehuels/mindmap/pkg/render/radial
// [nodelink]: github.com/matzehuels/mindmap/pkg/render/nodelink
package render
