package triangulate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/wellpos/pkg/distance"
)

// Outcome classifies an attempt to place a point against an anchor pair.
type Outcome int

const (
	// Indeterminate means the anchors do not constrain the point (a distance
	// is unknown, or the anchors coincide). It may succeed later.
	Indeterminate Outcome = iota
	// Contradiction means no position is consistent with the placed points.
	Contradiction
	// Placed means at least one consistent position was found.
	Placed
)

func (o Outcome) String() string {
	switch o {
	case Indeterminate:
		return "indeterminate"
	case Contradiction:
		return "contradiction"
	case Placed:
		return "placed"
	}
	return "unknown"
}

// Place computes the positions of target from its distances to the placed
// anchors a and b, keeping only those consistent with every other placed
// point that has a known distance to target.
//
// On Placed it returns one extended placement per distinct valid position,
// the positive-side root first. The input placement is not modified.
func Place(p *Placement, target, a, b int, m *distance.Matrix, eps float64) ([]*Placement, Outcome) {
	return place(p, p.snapshot(), target, a, b, m, eps)
}

func place(p *Placement, s snapshot, target, a, b int, m *distance.Matrix, eps float64) ([]*Placement, Outcome) {
	if !m.Known(target, a) || !m.Known(target, b) {
		return nil, Indeterminate
	}

	f, ok := frameFrom(s.pts[a], s.pts[b])
	c := r2.Norm(r2.Sub(s.pts[b], s.pts[a]))
	if !ok || c < eps/4 {
		return nil, Indeterminate
	}

	da, db := m.At(target, a), m.At(target, b)
	if da+db < c-eps {
		return nil, Contradiction
	}

	x := (da*da + c*c - db*db) / (2 * c)
	y := math.Sqrt(discriminant(da, db, c)) / (2 * c)

	cands := []r2.Vec{f.toWorld(r2.Vec{X: x, Y: y})}
	if 2*y >= eps/4 {
		cands = append(cands, f.toWorld(r2.Vec{X: x, Y: -y}))
	}

	var out []*Placement
	for _, q := range cands {
		if s.fits(q, target, m, eps) {
			out = append(out, p.With(target, q))
		}
	}
	if len(out) == 0 {
		return nil, Contradiction
	}
	return out, Placed
}

// discriminant returns 2(a²b² + a²c² + b²c²) − (a⁴ + b⁴ + c⁴), i.e. sixteen
// times the squared triangle area, clamped at zero. The product form keeps
// near-flat triangles accurate.
func discriminant(a, b, c float64) float64 {
	d := (a + b + c) * (-a + b + c) * (a - b + c) * (a + b - c)
	return math.Max(d, 0)
}

// fits reports whether q matches every known distance from target to a placed point.
func (s snapshot) fits(q r2.Vec, target int, m *distance.Matrix, eps float64) bool {
	for _, k := range s.placed {
		if !m.Known(target, k) {
			continue
		}
		if math.Abs(r2.Norm(r2.Sub(q, s.pts[k]))-m.At(target, k)) >= eps {
			return false
		}
	}
	return true
}

// placeFirst tries anchor pairs of the placed points in ascending order and
// returns the first determinate outcome, with the anchors that decided it.
func placeFirst(p *Placement, s snapshot, target int, m *distance.Matrix, eps float64) ([]*Placement, Outcome, int, int) {
	for x := 0; x < len(s.placed)-1; x++ {
		a := s.placed[x]
		if !m.Known(target, a) {
			continue
		}
		for y := x + 1; y < len(s.placed); y++ {
			b := s.placed[y]
			out, outcome := place(p, s, target, a, b, m, eps)
			if outcome != Indeterminate {
				return out, outcome, a, b
			}
		}
	}
	return nil, Indeterminate, -1, -1
}
