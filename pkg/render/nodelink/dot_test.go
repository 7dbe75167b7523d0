package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

func triangle(t *testing.T) (triangulate.Solution, *distance.Matrix) {
	t.Helper()
	m, err := distance.New([][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}})
	if err != nil {
		t.Fatal(err)
	}
	sol := triangulate.Solution{Points: []triangulate.Point{
		{X: 0, Y: 0, Placed: true},
		{X: 3, Y: 0, Placed: true},
		{X: 3, Y: 4, Placed: true},
	}}
	return sol, m
}

func TestToDOT(t *testing.T) {
	sol, m := triangle(t)
	dot := ToDOT(sol, []string{"B1", "B2", "B3"}, m, Options{Scale: 1, Distances: true})

	for _, want := range []string{
		"layout=neato",
		`w0 [label="B1", pos="0.0000,0.0000!"]`,
		`w2 [label="B3", pos="3.0000,4.0000!"]`,
		`w1 -- w2 [label="4.00"]`,
		`w0 -- w2 [label="5.00"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, " -- "); n != 3 {
		t.Errorf("got %d edges, want 3", n)
	}
}

func TestToDOTScale(t *testing.T) {
	sol, _ := triangle(t)
	dot := ToDOT(sol, nil, nil, Options{})

	// longest side is 4, fitted into DefaultExtent inches
	if !strings.Contains(dot, `w2 [label="p2", pos="4.5000,6.0000!"]`) {
		t.Errorf("unexpected scaling:\n%s", dot)
	}
	if strings.Contains(dot, " -- ") {
		t.Error("nil matrix should draw no edges")
	}
}

func TestToDOTAbsentWell(t *testing.T) {
	sol, m := triangle(t)
	sol.Points[2] = triangulate.Point{}
	dot := ToDOT(sol, []string{"B1", "B2", "B3"}, m, Options{Scale: 1})

	if !strings.Contains(dot, `w2 [label="B3", style="filled,dashed", fillcolor=lightgrey]`) {
		t.Errorf("absent well not dashed:\n%s", dot)
	}
	if !strings.Contains(dot, "w1 -- w2 [style=dashed]") {
		t.Errorf("edge to absent well not dashed:\n%s", dot)
	}
	if !strings.Contains(dot, "w0 -- w1;") {
		t.Errorf("edge between placed wells missing:\n%s", dot)
	}
}

func TestCoordNegativeZero(t *testing.T) {
	var negZero float64
	negZero = -negZero
	if got := coord(negZero); got != "0.0000" {
		t.Errorf("coord(-0) = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("body changed: %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	sol, m := triangle(t)
	svg, err := RenderSVG(context.Background(), ToDOT(sol, []string{"B1", "B2", "B3"}, m, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "B3") {
		t.Errorf("unexpected svg: %.200s", s)
	}
}
