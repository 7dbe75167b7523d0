package panels

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

const (
	DefaultPanelSize = 320.0
	DefaultTitle     = "Possible well constellations"

	padFraction   = 0.2
	titleHeight   = 48.0
	captionHeight = 24.0
	margin        = 16.0
	pointRadius   = 4.0
)

const panelCSS = `
    .title { font: bold 20px sans-serif; fill: #222; }
    .caption { font: 14px sans-serif; fill: #444; }
    .frame { fill: #fafafa; stroke: #ccc; }
    .axis { stroke: #bbb; stroke-dasharray: 4 3; }
    .edge { stroke: #9ab; stroke-width: 1; }
    .well { fill: #1f5fa8; stroke: #fff; stroke-width: 1; }
    .label { font: 12px sans-serif; fill: #222; }
    .empty { font: italic 14px sans-serif; fill: #888; }`

type Option func(*renderer)

type renderer struct {
	panel  float64
	title  string
	matrix *distance.Matrix
	labels bool
}

// WithPanelSize sets the side length of each panel in pixels.
func WithPanelSize(px float64) Option {
	return func(r *renderer) {
		if px > 2*margin {
			r.panel = px
		}
	}
}

func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithEdges draws a line for every known distance between placed wells.
func WithEdges(m *distance.Matrix) Option { return func(r *renderer) { r.matrix = m } }

func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// Grid returns the panel grid used for k solutions.
func Grid(k int) (cols, rows int) {
	if k <= 0 {
		return 1, 1
	}
	cols = int(math.Ceil(math.Sqrt(float64(k))))
	rows = (k + cols - 1) / cols
	return cols, rows
}

// RenderSVG draws every solution of set in its own panel. All panels share
// one square coordinate range, so distances are comparable across panels.
// names labels the wells by index; missing names fall back to p0, p1, ...
func RenderSVG(set *triangulate.SolutionSet, names []string, opts ...Option) []byte {
	r := renderer{panel: DefaultPanelSize, title: DefaultTitle, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var sols []triangulate.Solution
	if set != nil {
		sols = set.Solutions
	}
	cols, rows := Grid(len(sols))
	width := float64(cols) * r.panel
	height := titleHeight + float64(rows)*(r.panel+captionHeight)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", panelCSS)
	fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
		width/2, titleHeight*0.65, html.EscapeString(r.title))

	if len(sols) == 0 {
		fmt.Fprintf(&buf, `  <text class="empty" x="%.1f" y="%.1f" text-anchor="middle">No consistent constellation</text>`+"\n",
			width/2, titleHeight+r.panel/2)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	b := boundsOf(sols)
	for i, sol := range sols {
		col, row := i%cols, i/cols
		p := panel{
			x:    float64(col)*r.panel + margin,
			y:    titleHeight + float64(row)*(r.panel+captionHeight) + captionHeight,
			size: r.panel - 2*margin,
			b:    b,
		}
		r.renderPanel(&buf, i, sol, names, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderPanel(buf *bytes.Buffer, i int, sol triangulate.Solution, names []string, p panel) {
	fmt.Fprintf(buf, `  <g class="panel" id="result-%d">`+"\n", i+1)
	fmt.Fprintf(buf, `    <text class="caption" x="%.1f" y="%.1f" text-anchor="middle">Result %d</text>`+"\n",
		p.x+p.size/2, p.y-6, i+1)
	fmt.Fprintf(buf, `    <rect class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
		p.x, p.y, p.size, p.size)

	ox, oy := p.project(0, 0)
	fmt.Fprintf(buf, `    <line class="axis" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", p.x, oy, p.x+p.size, oy)
	fmt.Fprintf(buf, `    <line class="axis" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", ox, p.y, ox, p.y+p.size)

	if r.matrix != nil {
		for _, e := range r.matrix.KnownPairs() {
			if e.I >= len(sol.Points) || e.J >= len(sol.Points) {
				continue
			}
			a, c := sol.Points[e.I], sol.Points[e.J]
			if !a.Placed || !c.Placed {
				continue
			}
			x1, y1 := p.project(a.X, a.Y)
			x2, y2 := p.project(c.X, c.Y)
			fmt.Fprintf(buf, `    <line class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x1, y1, x2, y2)
		}
	}

	for j, pt := range sol.Points {
		if !pt.Placed {
			continue
		}
		x, y := p.project(pt.X, pt.Y)
		fmt.Fprintf(buf, `    <circle class="well" cx="%.2f" cy="%.2f" r="%.1f"/>`+"\n", x, y, pointRadius)
		if r.labels {
			fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f">%s</text>`+"\n",
				x+pointRadius+2, y-pointRadius-2, html.EscapeString(label(names, j)))
		}
	}
	buf.WriteString("  </g>\n")
}

func label(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("p%d", i)
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

// boundsOf returns a square range covering every placed point and the
// origin, padded on each side.
func boundsOf(sols []triangulate.Solution) bounds {
	var b bounds
	for _, sol := range sols {
		for _, p := range sol.Points {
			if !p.Placed {
				continue
			}
			b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
			b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
		}
	}

	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	half := span/2 + padFraction*span
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	return bounds{cx - half, cy - half, cx + half, cy + half}
}

type panel struct {
	x, y, size float64
	b          bounds
}

// project maps world coordinates into the panel, with y pointing up.
func (p panel) project(x, y float64) (float64, float64) {
	scale := p.size / (p.b.maxX - p.b.minX)
	return p.x + (x-p.b.minX)*scale, p.y + (p.b.maxY-y)*scale
}
