package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/render"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// DefaultExtent is the size in inches of the longest side of the
// constellation when Options.Scale is zero.
const DefaultExtent = 6.0

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is inches per distance unit. Zero fits the constellation into
	// DefaultExtent.
	Scale float64

	// Distances labels every edge with its measured distance.
	Distances bool
}

// ToDOT converts a solution to Graphviz DOT source for the neato engine.
// Placed wells are pinned at their coordinates; absent wells are left for
// neato to place and drawn dashed. Every known distance of m between two
// wells becomes an edge. A nil m draws wells only.
func ToDOT(sol triangulate.Solution, names []string, m *distance.Matrix, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultExtent / extent(sol)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, margin=\"0.05\"];\n")
	buf.WriteString("  edge [color=\"#99aabb\", fontsize=10];\n")
	buf.WriteString("\n")

	for i, p := range sol.Points {
		attrs := []string{fmt.Sprintf("label=%q", name(names, i))}
		if p.Placed {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", coord(p.X*scale), coord(p.Y*scale)))
		} else {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  w%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	if m != nil {
		buf.WriteString("\n")
		for _, e := range m.KnownPairs() {
			if e.I >= len(sol.Points) || e.J >= len(sol.Points) {
				continue
			}
			var attrs []string
			if opts.Distances {
				attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(m.At(e.I, e.J), 'f', 2, 64)))
			}
			if !sol.Points[e.I].Placed || !sol.Points[e.J].Placed {
				attrs = append(attrs, "style=dashed")
			}
			if len(attrs) == 0 {
				fmt.Fprintf(&buf, "  w%d -- w%d;\n", e.I, e.J)
				continue
			}
			fmt.Fprintf(&buf, "  w%d -- w%d [%s];\n", e.I, e.J, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func name(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("p%d", i)
}

func coord(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// extent is the longest side of the bounding box of the placed wells.
func extent(sol triangulate.Solution) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range sol.Points {
		if !p.Placed {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if math.IsInf(span, 0) || math.IsNaN(span) || span == 0 {
		return 1
	}
	return span
}

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// width and height match the view box in pixels.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
