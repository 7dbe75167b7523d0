package triangulate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/wellpos/pkg/distance"
)

// Point is a planar coordinate, or an absent one when Placed is false.
type Point struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Placed bool    `json:"placed" msgpack:"placed"`
}

// Solution is a canonical placement, indexed like the distance matrix.
type Solution struct {
	Points []Point `json:"points" msgpack:"points"`
}

// Placed returns the number of placed points.
func (s Solution) Placed() int {
	n := 0
	for _, p := range s.Points {
		if p.Placed {
			n++
		}
	}
	return n
}

// Complete reports whether every point is placed.
func (s Solution) Complete() bool {
	return s.Placed() == len(s.Points)
}

// MaxResidual returns the largest deviation between a realized distance and
// the known matrix entry, over all pairs of placed points.
func (s Solution) MaxResidual(m *distance.Matrix) float64 {
	var worst float64
	for i := range s.Points {
		for j := i + 1; j < len(s.Points); j++ {
			pi, pj := s.Points[i], s.Points[j]
			if !pi.Placed || !pj.Placed || !m.Known(i, j) {
				continue
			}
			d := math.Hypot(pi.X-pj.X, pi.Y-pj.Y)
			worst = math.Max(worst, math.Abs(d-m.At(i, j)))
		}
	}
	return worst
}

// Equal reports whether s and o have the same placed pattern and every
// placed pair of points lies closer than eps.
func (s Solution) Equal(o Solution, eps float64) bool {
	if len(s.Points) != len(o.Points) {
		return false
	}
	for i, p := range s.Points {
		q := o.Points[i]
		if p.Placed != q.Placed {
			return false
		}
		if p.Placed && math.Hypot(p.X-q.X, p.Y-q.Y) >= eps {
			return false
		}
	}
	return true
}

// Finalize moves every result into the canonical frame and drops
// near-duplicates, keeping the first representative in input order.
//
// The canonical frame puts point 0 at the origin and point 1 on the
// non-negative x-axis. Results that leave point 0 or point 1 unplaced have
// no such frame and are dropped. When the two coincide the result is only
// translated.
func Finalize(results []*Placement, eps float64) []Solution {
	out := make([]Solution, 0, len(results))
	for _, r := range results {
		if !framed(r) {
			continue
		}
		s := canonicalize(r)
		dup := false
		for _, kept := range out {
			if s.Equal(kept, eps) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

// framed reports whether p places both points that define the canonical
// frame.
func framed(p *Placement) bool {
	return p.Len() >= 2 && p.Placed(0) && p.Placed(1)
}

// keepFramed filters results in place, keeping those accepted by framed.
func keepFramed(results []*Placement) []*Placement {
	kept := results[:0]
	for _, r := range results {
		if framed(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

func canonicalize(p *Placement) Solution {
	s := p.snapshot()
	sol := Solution{Points: make([]Point, p.Len())}

	a, b := s.pts[0], s.pts[1]
	f, ok := frameFrom(a, b)
	if !ok {
		f = translation(a)
	}

	for _, i := range s.placed {
		q := f.toLocal(s.pts[i])
		switch i {
		case 0:
			q = r2.Vec{}
		case 1:
			q = r2.Vec{X: r2.Norm(r2.Sub(b, a))}
		}
		sol.Points[i] = Point{X: noNegZero(q.X), Y: noNegZero(q.Y), Placed: true}
	}
	return sol
}

func noNegZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
