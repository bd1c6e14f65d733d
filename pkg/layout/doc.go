// Package layout places the nodes of a mind map on a radial plan.
//
// [Compute] is a pure function of a [mindmap.Model]: the central node sits
// at the origin, categories are spread evenly on a ring around it, and each
// category's leaves fan out from the category along its own direction.
//
// # Placement
//
// Category i of n sits at angle 2πi/n on a ring of radius CategoryRadius.
// A category with one leaf places it straight outward, LeafRadius beyond the
// category. With m > 1 leaves, leaf j sits at
//
//	θ + span·(j − (m−1)/2)/(m−1)
//
// so the first and last leaves mark the ends of the span and the fan is
// symmetric about the category's angle. Leaf positions are measured from the
// category, not the origin.
//
// Box sizes come from package textbox and never influence positions; long
// labels may overlap their neighbours.
//
// # Viewport
//
// The layout carries a viewport with a margin of 20% of the node spread plus
// one unit on each side, per axis. A central-only layout gets a 2×2 viewport
// around the origin.
package layout
