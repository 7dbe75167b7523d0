// Package render draws well constellations.
//
// # Overview
//
// Two views are provided:
//
//   - Panel grids of every solution in a set (in [panels] subpackage)
//   - Node-link diagrams of a single solution (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both views use them.
//
//	svg := panels.RenderSVG(set, names)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Panel Grids
//
// The [panels] subpackage lays the solutions out on a near-square grid
// sharing one coordinate range, so constellations can be compared by eye.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage pins each well at its solved position and uses
// Graphviz to draw the measured distances between them.
//
//	dot := nodelink.ToDOT(sol, names, m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [panels]: github.com/matzehuels/wellpos/pkg/render/panels
// [nodelink]: github.com/matzehuels/wellpos/pkg/render/nodelink
package render
