package panels

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

func pt(x, y float64) triangulate.Point {
	return triangulate.Point{X: x, Y: y, Placed: true}
}

func rightTriangle() *triangulate.SolutionSet {
	return &triangulate.SolutionSet{
		N: 3,
		Solutions: []triangulate.Solution{
			{Points: []triangulate.Point{pt(0, 0), pt(3, 0), pt(3, 4)}},
			{Points: []triangulate.Point{pt(0, 0), pt(3, 0), pt(3, -4)}},
		},
	}
}

func TestGrid(t *testing.T) {
	tests := []struct {
		k, cols, rows int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
	}
	for _, tt := range tests {
		cols, rows := Grid(tt.k)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("Grid(%d) = %d×%d, want %d×%d", tt.k, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(rightTriangle(), []string{"B1", "B2", "B3"}))

	for _, want := range []string{DefaultTitle, "Result 1", "Result 2", ">B3</text>", `width="640"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if n := strings.Count(svg, "<circle"); n != 6 {
		t.Errorf("drew %d wells, want 6", n)
	}
	if strings.Contains(svg, `class="edge"`) {
		t.Error("edges drawn without WithEdges")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	m, err := distance.New([][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}})
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(rightTriangle(), nil,
		WithEdges(m), WithTitle("North & South"), WithPanelSize(200), WithoutLabels()))

	if n := strings.Count(svg, `class="edge"`); n != 6 {
		t.Errorf("drew %d edges, want 6", n)
	}
	if !strings.Contains(svg, "North &amp; South") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(svg, `width="400"`) {
		t.Error("panel size not applied")
	}
	if strings.Contains(svg, `class="label"`) {
		t.Error("labels drawn with WithoutLabels")
	}
}

func TestRenderSVGAbsentPoints(t *testing.T) {
	set := &triangulate.SolutionSet{
		N: 3,
		Solutions: []triangulate.Solution{
			{Points: []triangulate.Point{pt(0, 0), pt(3, 0), {}}},
		},
	}
	svg := string(RenderSVG(set, []string{"a"}))
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("drew %d wells, want 2", n)
	}
	if !strings.Contains(svg, ">p1</text>") {
		t.Error("missing names should fall back to index labels")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	for _, set := range []*triangulate.SolutionSet{nil, {N: 3}} {
		svg := string(RenderSVG(set, nil))
		if !strings.Contains(svg, "No consistent constellation") {
			t.Error("empty set should say so")
		}
		if strings.Contains(svg, "<circle") {
			t.Error("empty set should draw no wells")
		}
	}
}

func TestBoundsOf(t *testing.T) {
	b := boundsOf(rightTriangle().Solutions[:1])
	want := bounds{-1.3, -0.8, 4.3, 4.8}
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"minX", b.minX, want.minX},
		{"minY", b.minY, want.minY},
		{"maxX", b.maxX, want.maxX},
		{"maxY", b.maxY, want.maxY},
	} {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}

	single := boundsOf([]triangulate.Solution{{Points: []triangulate.Point{pt(0, 0)}}})
	if single.maxX-single.minX <= 0 {
		t.Error("degenerate bounds should still have extent")
	}
}

func TestProject(t *testing.T) {
	p := panel{x: 10, y: 20, size: 100, b: bounds{-1, -1, 1, 1}}
	tests := []struct {
		x, y, wantX, wantY float64
	}{
		{-1, 1, 10, 20},
		{1, -1, 110, 120},
		{0, 0, 60, 70},
	}
	for _, tt := range tests {
		x, y := p.project(tt.x, tt.y)
		if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
			t.Errorf("project(%g, %g) = (%g, %g), want (%g, %g)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
	}
}
