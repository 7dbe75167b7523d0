package distance

import "math"

// Violations checks the triangle inequality for every fully known triple.
//
// For each i<j<k with all three distances known, each side must be at most the
// sum of the other two plus |eps|. One Violation is returned per failed
// inequality, ordered by triple and then by side (i-k, i-j, j-k). The matrix
// is not modified.
func (m *Matrix) Violations(eps float64) []Violation {
	eps = math.Abs(eps)
	n := m.N()

	var out []Violation
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			if !m.Known(i, j) {
				continue
			}
			for k := j + 1; k < n; k++ {
				if !m.Known(i, k) || !m.Known(j, k) {
					continue
				}
				ij, ik, jk := m.At(i, j), m.At(i, k), m.At(j, k)
				if x := ik - (ij + jk); x > eps {
					out = append(out, Violation{I: i, J: j, K: k, Side: [2]int{i, k}, Excess: x})
				}
				if x := ij - (ik + jk); x > eps {
					out = append(out, Violation{I: i, J: j, K: k, Side: [2]int{i, j}, Excess: x})
				}
				if x := jk - (ij + ik); x > eps {
					out = append(out, Violation{I: i, J: j, K: k, Side: [2]int{j, k}, Excess: x})
				}
			}
		}
	}
	return out
}

// Validate treats any triangle violation as fatal and returns an
// *InvalidMatrixError listing them all. It returns nil for consistent matrices.
func Validate(m *Matrix, eps float64) error {
	if vs := m.Violations(eps); len(vs) > 0 {
		return &InvalidMatrixError{Violations: vs}
	}
	return nil
}
