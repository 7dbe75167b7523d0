package distance

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unknown marks a distance that was not measured.
const Unknown = -1.0

// unknownBelow is the threshold under which a value is read as unknown.
const unknownBelow = -0.5

// symTol is the absolute tolerance for the symmetry check.
const symTol = 1e-9

// IsKnown reports whether d is a measured distance rather than the unknown marker.
func IsKnown(d float64) bool {
	return d > unknownBelow
}

// Matrix is an immutable, structurally valid N×N distance matrix.
// The zero value is not usable; construct with [New] or [FromUpper].
type Matrix struct {
	d *mat.SymDense
}

// Pair is an unordered index pair with I < J.
type Pair struct {
	I, J int
}

// New validates rows and returns the matrix they describe.
// Every structural issue found is reported in a single *InvalidMatrixError.
func New(rows [][]float64) (*Matrix, error) {
	if issues := checkStructure(rows); len(issues) > 0 {
		return nil, &InvalidMatrixError{Issues: issues}
	}

	n := len(rows)
	data := make([]float64, n*n)
	for i, row := range rows {
		for j, v := range row {
			if !IsKnown(v) {
				v = Unknown
			}
			data[i*n+j] = v
		}
	}
	return &Matrix{d: mat.NewSymDense(n, data)}, nil
}

// FromUpper builds a matrix from the strict upper triangle of rows.
// Entries on and below the diagonal are ignored, so half-filled survey tables
// can be passed as they are.
func FromUpper(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	full := make([][]float64, n)
	for i := range full {
		full[i] = make([]float64, n)
	}
	for i, row := range rows {
		if len(row) != n {
			// Let New report the shape problem.
			return New(rows)
		}
		for j := i + 1; j < n; j++ {
			full[i][j] = row[j]
			full[j][i] = row[j]
		}
	}
	return New(full)
}

// Square builds an n×n matrix with every off-diagonal entry unknown.
// It is a convenience for tests and programmatic construction with [Matrix.With].
func Square(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = Unknown
			}
		}
	}
	return rows
}

// N returns the number of points.
func (m *Matrix) N() int {
	return m.d.SymmetricDim()
}

// At returns the raw entry at (i, j); unknown entries are returned as [Unknown].
func (m *Matrix) At(i, j int) float64 {
	return m.d.At(i, j)
}

// Known reports whether the distance between i and j was measured.
func (m *Matrix) Known(i, j int) bool {
	return IsKnown(m.d.At(i, j))
}

// Rows returns a copy of the matrix as nested slices.
func (m *Matrix) Rows() [][]float64 {
	n := m.N()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = m.d.At(i, j)
		}
	}
	return rows
}

// With returns a copy of m with the symmetric entry (i, j) set to d.
// The result is structurally re-validated.
func (m *Matrix) With(i, j int, d float64) (*Matrix, error) {
	rows := m.Rows()
	rows[i][j] = d
	rows[j][i] = d
	return New(rows)
}

// KnownPairs returns every pair i<j with a known distance, in ascending order.
func (m *Matrix) KnownPairs() []Pair {
	n := m.N()
	var pairs []Pair
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if m.Known(i, j) {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}

// checkStructure collects all structural issues in rows.
func checkStructure(rows [][]float64) []Issue {
	n := len(rows)
	if n < 2 {
		return []Issue{{Kind: IssueTooSmall, I: n, J: n}}
	}

	var issues []Issue
	for i, row := range rows {
		if len(row) != n {
			issues = append(issues, Issue{Kind: IssueNotSquare, I: i, J: len(row)})
		}
	}
	if len(issues) > 0 {
		return issues
	}

	for i := 0; i < n; i++ {
		if rows[i][i] != 0 {
			issues = append(issues, Issue{Kind: IssueDiagonal, I: i, J: i})
		}
		for j := 0; j < n; j++ {
			v := rows[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				issues = append(issues, Issue{Kind: IssueNotFinite, I: i, J: j})
				continue
			}
			if IsKnown(v) && v < 0 {
				issues = append(issues, Issue{Kind: IssueNegative, I: i, J: j})
			}
			if j > i && !symmetric(v, rows[j][i]) {
				issues = append(issues, Issue{Kind: IssueAsymmetric, I: i, J: j})
			}
		}
	}
	return issues
}

// symmetric compares two mirrored entries; two unknown markers always match.
func symmetric(a, b float64) bool {
	if !IsKnown(a) || !IsKnown(b) {
		return !IsKnown(a) && !IsKnown(b)
	}
	return math.Abs(a-b) <= symTol
}
