// Package nodelink renders mind-map layouts through Graphviz.
//
// # Overview
//
// Instead of letting Graphviz choose positions, [ToDOT] pins every node at
// its computed layout position (pos="x,y!") and sizes it from the layout
// box. Graphviz's neato engine then only draws: straight edges first, then
// rounded boxes in the category palette.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The DOT source is an undirected graph; it can be saved and rendered with
// the Graphviz command line as `neato -n2 -Tsvg`, or customized first.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
