package distance

import (
	"fmt"
	"strings"

	apperrors "github.com/matzehuels/wellpos/pkg/errors"
)

// IssueKind classifies a structural problem.
type IssueKind string

const (
	IssueTooSmall   IssueKind = "too_small"  // fewer than two points
	IssueNotSquare  IssueKind = "not_square" // row I has J entries
	IssueDiagonal   IssueKind = "diagonal"   // non-zero diagonal entry
	IssueNotFinite  IssueKind = "not_finite" // NaN or ±Inf
	IssueNegative   IssueKind = "negative"   // known entry below zero
	IssueAsymmetric IssueKind = "asymmetric" // (I,J) differs from (J,I)
)

// Issue is a structural problem at the given indices.
type Issue struct {
	Kind IssueKind `json:"kind" msgpack:"kind"`
	I    int       `json:"i" msgpack:"i"`
	J    int       `json:"j" msgpack:"j"`
}

func (is Issue) String() string {
	switch is.Kind {
	case IssueTooSmall:
		return fmt.Sprintf("matrix has %d points, need at least 2", is.I)
	case IssueNotSquare:
		return fmt.Sprintf("row %d has %d entries", is.I, is.J)
	default:
		return fmt.Sprintf("%s entry at (%d,%d)", is.Kind, is.I, is.J)
	}
}

// Violation is a failed triangle inequality for the triple (I, J, K).
// Side names the edge that exceeds the sum of the other two; Excess is by how much.
type Violation struct {
	I      int     `json:"i" msgpack:"i"`
	J      int     `json:"j" msgpack:"j"`
	K      int     `json:"k" msgpack:"k"`
	Side   [2]int  `json:"side" msgpack:"side"`
	Excess float64 `json:"excess" msgpack:"excess"`
}

func (v Violation) String() string {
	return fmt.Sprintf("triple (%d,%d,%d): side %d-%d too long by %g", v.I, v.J, v.K, v.Side[0], v.Side[1], v.Excess)
}

// InvalidMatrixError reports every structural issue and triangle violation
// that made a matrix unusable.
type InvalidMatrixError struct {
	Issues     []Issue
	Violations []Violation
}

// Error implements the error interface.
func (e *InvalidMatrixError) Error() string {
	var parts []string
	for _, is := range e.Issues {
		parts = append(parts, is.String())
	}
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	const maxShown = 5
	suffix := ""
	if len(parts) > maxShown {
		suffix = fmt.Sprintf(" (and %d more)", len(parts)-maxShown)
		parts = parts[:maxShown]
	}
	return "invalid distance matrix: " + strings.Join(parts, "; ") + suffix
}

// Code returns the error code for this error type.
func (e *InvalidMatrixError) Code() apperrors.Code {
	return apperrors.ErrCodeInvalidMatrix
}
