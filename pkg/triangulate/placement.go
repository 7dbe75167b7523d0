package triangulate

import (
	"math/bits"

	"gonum.org/v1/gonum/spatial/r2"
)

// bitset is a fixed-size set of point indices.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) has(i int) bool {
	return b[i/64]&(1<<(uint(i)%64)) != 0
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) clone() bitset {
	c := make(bitset, len(b))
	copy(c, b)
	return c
}

// indices returns the members in ascending order.
func (b bitset) indices() []int {
	var out []int
	for w, word := range b {
		for word != 0 {
			t := bits.TrailingZeros64(word)
			out = append(out, w*64+t)
			word &= word - 1
		}
	}
	return out
}

// Placement is a partial assignment of planar coordinates to the points of a
// distance matrix.
//
// Placements are persistent: extending one returns a new Placement that owns
// exactly one new coordinate and shares every earlier coordinate with its
// parent. Nothing reachable from a Placement is ever mutated, so branches of
// the search can be expanded concurrently without copying or locking.
type Placement struct {
	n      int
	parent *Placement
	idx    int // slot owned by this node, -1 for the root
	pt     r2.Vec
	mask   bitset
	count  int
}

// NewPlacement returns an empty placement for n points.
func NewPlacement(n int) *Placement {
	return &Placement{n: n, idx: -1, mask: newBitset(n)}
}

// With returns a copy of p with point i fixed at v. It panics if i is
// already placed.
func (p *Placement) With(i int, v r2.Vec) *Placement {
	if p.mask.has(i) {
		panic("triangulate: point already placed")
	}
	mask := p.mask.clone()
	mask.set(i)
	return &Placement{n: p.n, parent: p, idx: i, pt: v, mask: mask, count: p.count + 1}
}

// Len returns the number of point slots.
func (p *Placement) Len() int { return p.n }

// Count returns the number of placed points.
func (p *Placement) Count() int { return p.count }

// Placed reports whether point i has coordinates.
func (p *Placement) Placed(i int) bool { return p.mask.has(i) }

// Point returns the coordinates of point i, if placed.
func (p *Placement) Point(i int) (r2.Vec, bool) {
	if !p.mask.has(i) {
		return r2.Vec{}, false
	}
	for q := p; q != nil; q = q.parent {
		if q.idx == i {
			return q.pt, true
		}
	}
	return r2.Vec{}, false
}

// PlacedIndices returns the placed point indices in ascending order.
func (p *Placement) PlacedIndices() []int {
	return p.mask.indices()
}

// snapshot is a flat, read-only view of a placement used by the hot loops.
type snapshot struct {
	pts    []r2.Vec
	placed []int
}

func (p *Placement) snapshot() snapshot {
	pts := make([]r2.Vec, p.n)
	for q := p; q != nil && q.idx >= 0; q = q.parent {
		pts[q.idx] = q.pt
	}
	return snapshot{pts: pts, placed: p.mask.indices()}
}

// unplaced returns the indices without coordinates in ascending order.
func (p *Placement) unplaced() []int {
	out := make([]int, 0, p.n-p.count)
	for i := 0; i < p.n; i++ {
		if !p.mask.has(i) {
			out = append(out, i)
		}
	}
	return out
}
