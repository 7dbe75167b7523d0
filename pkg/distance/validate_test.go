package distance

import (
	"errors"
	"strings"
	"testing"
)

func mustNew(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m, err := New(rows)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestViolations(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		eps  float64
		want []Violation
	}{
		{
			name: "right triangle",
			rows: [][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}},
			eps:  1e-6,
		},
		{
			name: "flat triangle",
			rows: [][]float64{{0, 1, 2}, {1, 0, 1}, {2, 1, 0}},
			eps:  0,
		},
		{
			name: "inconsistent",
			rows: [][]float64{{0, 1, 1}, {1, 0, 5}, {1, 5, 0}},
			eps:  1e-6,
			want: []Violation{{I: 0, J: 1, K: 2, Side: [2]int{1, 2}, Excess: 3}},
		},
		{
			name: "within tolerance",
			rows: [][]float64{{0, 1, 2.05}, {1, 0, 1}, {2.05, 1, 0}},
			eps:  0.1,
		},
		{
			name: "negative tolerance uses absolute value",
			rows: [][]float64{{0, 1, 2.05}, {1, 0, 1}, {2.05, 1, 0}},
			eps:  -0.1,
		},
		{
			name: "unknown entry skips triple",
			rows: [][]float64{{0, 1, 1}, {1, 0, Unknown}, {1, Unknown, 0}},
			eps:  1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustNew(t, tt.rows).Violations(tt.eps)
			if len(got) != len(tt.want) {
				t.Fatalf("Violations() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Violations()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestViolationsMultipleTriples(t *testing.T) {
	rows := [][]float64{
		{0, 1, 1, 9},
		{1, 0, 1, 1},
		{1, 1, 0, 1},
		{9, 1, 1, 0},
	}
	got := mustNew(t, rows).Violations(1e-6)
	// (0,1,3) and (0,2,3) both have side 0-3 too long.
	if len(got) != 2 {
		t.Fatalf("Violations() = %v, want 2 entries", got)
	}
	for _, v := range got {
		if v.Side != [2]int{0, 3} {
			t.Errorf("violation %v should blame side 0-3", v)
		}
	}
}

func TestValidate(t *testing.T) {
	ok := mustNew(t, [][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}})
	if err := Validate(ok, 1e-6); err != nil {
		t.Errorf("Validate(3-4-5) = %v, want nil", err)
	}

	bad := mustNew(t, [][]float64{{0, 1, 1}, {1, 0, 5}, {1, 5, 0}})
	err := Validate(bad, 1e-6)
	var ime *InvalidMatrixError
	if !errors.As(err, &ime) {
		t.Fatalf("Validate should return *InvalidMatrixError, got %v", err)
	}
	if len(ime.Violations) != 1 {
		t.Errorf("violations = %v, want 1", ime.Violations)
	}
	if !strings.Contains(err.Error(), "side 1-2") {
		t.Errorf("error should name the offending side: %q", err.Error())
	}
}
