package distance

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/matzehuels/wellpos/pkg/errors"
)

func TestIsKnown(t *testing.T) {
	tests := []struct {
		d    float64
		want bool
	}{
		{0, true},
		{3.5, true},
		{-0.4, true}, // known, rejected later as negative
		{-0.5, false},
		{Unknown, false},
		{-99, false},
	}
	for _, tt := range tests {
		if got := IsKnown(tt.d); got != tt.want {
			t.Errorf("IsKnown(%g) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	m, err := New([][]float64{
		{0, 3, 5},
		{3, 0, -2},
		{5, -2, 0},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.N() != 3 {
		t.Errorf("N() = %d, want 3", m.N())
	}
	if !m.Known(0, 2) || m.At(2, 0) != 5 {
		t.Errorf("entry (2,0) = %g, want 5", m.At(2, 0))
	}
	if m.Known(1, 2) {
		t.Error("entry (1,2) should be unknown")
	}
	if m.At(1, 2) != Unknown {
		t.Errorf("unknown markers should be normalized, got %g", m.At(1, 2))
	}
}

func TestNewStructuralIssues(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		kind IssueKind
	}{
		{"empty", nil, IssueTooSmall},
		{"single", [][]float64{{0}}, IssueTooSmall},
		{"ragged", [][]float64{{0, 1}, {1}}, IssueNotSquare},
		{"diagonal", [][]float64{{0, 1}, {1, 0.5}}, IssueDiagonal},
		{"nan", [][]float64{{0, math.NaN()}, {math.NaN(), 0}}, IssueNotFinite},
		{"negative", [][]float64{{0, -0.2}, {-0.2, 0}}, IssueNegative},
		{"asymmetric", [][]float64{{0, 1}, {2, 0}}, IssueAsymmetric},
		{"half unknown", [][]float64{{0, 1}, {Unknown, 0}}, IssueAsymmetric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows)
			if err == nil {
				t.Fatal("New should fail")
			}
			var ime *InvalidMatrixError
			if !errors.As(err, &ime) {
				t.Fatalf("error should be *InvalidMatrixError, got %T", err)
			}
			if !apperrors.Is(err, apperrors.ErrCodeInvalidMatrix) {
				t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeInvalidMatrix)
			}
			found := false
			for _, is := range ime.Issues {
				if is.Kind == tt.kind {
					found = true
				}
			}
			if !found {
				t.Errorf("issues %v should contain %s", ime.Issues, tt.kind)
			}
		})
	}
}

func TestNewSymmetryTolerance(t *testing.T) {
	if _, err := New([][]float64{{0, 1}, {1 + 1e-12, 0}}); err != nil {
		t.Errorf("tiny asymmetry should be accepted: %v", err)
	}
}

func TestFromUpper(t *testing.T) {
	m, err := FromUpper([][]float64{
		{0, 3, 5},
		{0, 0, 4},
		{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("FromUpper: %v", err)
	}
	if m.At(1, 0) != 3 || m.At(2, 1) != 4 || m.At(2, 0) != 5 {
		t.Errorf("lower triangle not mirrored: %v", m.Rows())
	}
}

func TestRowsIsACopy(t *testing.T) {
	m, _ := New([][]float64{{0, 1}, {1, 0}})
	rows := m.Rows()
	rows[0][1] = 42
	if m.At(0, 1) != 1 {
		t.Error("mutating Rows() must not change the matrix")
	}
}

func TestWith(t *testing.T) {
	m, _ := New(Square(3))
	m2, err := m.With(0, 2, 7)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if m.Known(0, 2) {
		t.Error("With must not modify the receiver")
	}
	if m2.At(2, 0) != 7 {
		t.Errorf("With should set both halves, got %g", m2.At(2, 0))
	}
}

func TestKnownPairs(t *testing.T) {
	rows := Square(4)
	rows[0][1], rows[1][0] = 1, 1
	rows[2][3], rows[3][2] = 2, 2
	rows[0][3], rows[3][0] = 3, 3
	m, err := New(rows)
	if err != nil {
		t.Fatal(err)
	}

	got := m.KnownPairs()
	want := []Pair{{0, 1}, {0, 3}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("KnownPairs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("KnownPairs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
