package triangulate

import "gonum.org/v1/gonum/spatial/r2"

// frame is a rigid coordinate system: an origin and an orthonormal,
// right-handed basis. It maps between local coordinates, where the anchor
// edge lies on the positive x-axis, and the coordinates of a placement.
type frame struct {
	origin r2.Vec
	ux, uy r2.Vec
}

// frameFrom returns the frame in which a is the origin and b lies on the
// positive x-axis. It fails when a and b coincide.
func frameFrom(a, b r2.Vec) (frame, bool) {
	d := r2.Sub(b, a)
	c := r2.Norm(d)
	if c == 0 {
		return frame{}, false
	}
	ux := r2.Scale(1/c, d)
	return frame{origin: a, ux: ux, uy: r2.Vec{X: -ux.Y, Y: ux.X}}, true
}

// translation returns the frame that only moves origin to zero.
func translation(origin r2.Vec) frame {
	return frame{origin: origin, ux: r2.Vec{X: 1}, uy: r2.Vec{Y: 1}}
}

// toWorld maps local coordinates into the placement's coordinates.
func (f frame) toWorld(p r2.Vec) r2.Vec {
	return r2.Add(f.origin, r2.Add(r2.Scale(p.X, f.ux), r2.Scale(p.Y, f.uy)))
}

// toLocal maps placement coordinates into the frame.
func (f frame) toLocal(q r2.Vec) r2.Vec {
	d := r2.Sub(q, f.origin)
	return r2.Vec{X: r2.Dot(d, f.ux), Y: r2.Dot(d, f.uy)}
}
