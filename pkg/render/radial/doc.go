// Package radial renders a mind-map layout as a standalone SVG.
//
// The drawing follows the layout exactly: one layout unit is [UnitPx] SVG
// user units, the y axis is flipped so positive y points up, and the canvas
// covers the layout viewport widened to fit every box. Edges are drawn
// first as straight gray lines between node centers, then boxes from leaves
// up to the central node, each filled from [render.Palette] by color index
// and labelled with its wrapped lines in white.
//
//	svg := radial.RenderSVG(l, radial.WithZoom(2))
//
// A layout holding only the central node renders as a single centered box.
//
// [render.Palette]: github.com/matzehuels/mindmap/pkg/render.Palette
package radial
