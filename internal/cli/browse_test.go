package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/wellpos/pkg/distance"
	wellio "github.com/matzehuels/wellpos/pkg/io"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

func testSolutions(t *testing.T) wellio.Solutions {
	t.Helper()
	m, err := distance.New([][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}})
	if err != nil {
		t.Fatal(err)
	}
	pt := func(x, y float64) triangulate.Point { return triangulate.Point{X: x, Y: y, Placed: true} }
	return wellio.Solutions{
		Names:  []string{"B1", "B2", "B3"},
		Matrix: m,
		Set: &triangulate.SolutionSet{
			N: 3,
			Solutions: []triangulate.Solution{
				{Points: []triangulate.Point{pt(0, 0), pt(3, 0), pt(3, 4)}},
				{Points: []triangulate.Point{pt(0, 0), pt(3, 0), {}}},
			},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSolutionsModelNavigation(t *testing.T) {
	var m tea.Model = NewSolutionsModel(testSolutions(t))

	steps := []struct {
		key  string
		want int
	}{
		{"left", 0},
		{"right", 1},
		{"right", 1},
		{"h", 0},
		{"l", 1},
		{"g", 0},
		{"G", 1},
	}
	for _, st := range steps {
		m, _ = m.Update(keyMsg(st.key))
		if got := m.(SolutionsModel).Index; got != st.want {
			t.Fatalf("after %q: Index = %d, want %d", st.key, got, st.want)
		}
	}

	if _, cmd := m.Update(keyMsg("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestSolutionsModelView(t *testing.T) {
	m := NewSolutionsModel(testSolutions(t))

	view := m.View()
	for _, want := range []string{"Result 1 of 2", "B1", "3.0000", "4.0000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m.Index = 1
	if view := m.View(); !strings.Contains(view, "absent") {
		t.Errorf("absent well should be marked:\n%s", view)
	}

	empty := NewSolutionsModel(wellio.Solutions{Set: &triangulate.SolutionSet{}})
	if !strings.Contains(empty.View(), "No consistent constellation") {
		t.Error("empty set should say so")
	}
	if got := renderAllSolutions(wellio.Solutions{}); !strings.Contains(got, "No consistent constellation") {
		t.Errorf("renderAllSolutions(empty) = %q", got)
	}
}

func TestWellResidual(t *testing.T) {
	s := testSolutions(t)
	sol := s.Set.Solutions[0]

	if r := wellResidual(sol, s.Matrix, 2); r > 1e-12 {
		t.Errorf("exact placement residual = %g, want 0", r)
	}

	off := triangulate.Solution{Points: append([]triangulate.Point(nil), sol.Points...)}
	off.Points[2].Y = 4.5
	if r := wellResidual(off, s.Matrix, 2); math.Abs(r-0.5) > 1e-12 {
		t.Errorf("residual = %g, want 0.5", r)
	}

	if r := wellResidual(sol, nil, 0); !math.IsNaN(r) {
		t.Errorf("residual without matrix = %g, want NaN", r)
	}
	if got := formatResidual(math.NaN()); got != "-" {
		t.Errorf("formatResidual(NaN) = %q", got)
	}
}

func TestFormatCoord(t *testing.T) {
	if got := formatCoord(math.Copysign(0, -1)); got != "0.0000" {
		t.Errorf("formatCoord(-0) = %q, want 0.0000", got)
	}
	if got := formatCoord(-1.23456); got != "-1.2346" {
		t.Errorf("formatCoord(-1.23456) = %q", got)
	}
}
