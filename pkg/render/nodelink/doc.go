// Package nodelink renders one well constellation as a node-link diagram.
//
// # Usage
//
// Convert a solution to DOT, then render it with the embedded Graphviz:
//
//	dot := nodelink.ToDOT(sol, names, m, nodelink.Options{Distances: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated graph uses the neato engine. Placed wells carry a pinned
// pos attribute (inches, y up), so Graphviz only routes edges and labels.
// Absent wells are unpinned, dashed and grey. Edges are the known entries
// of the distance matrix; edges touching an absent well are dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
