// Package distance holds the validated, immutable matrix of pairwise well
// distances that the reconstruction works from.
//
// # Unknown Entries
//
// Field surveys rarely measure every pair of wells. Missing entries are
// written as [Unknown] (-1); by convention any value below -0.5 is read as
// unknown, so inputs produced by other tools with different negative markers
// are accepted as well. Use [IsKnown] or [Matrix.Known] rather than comparing
// against the sentinel.
//
// # Validation
//
// Validation happens in two stages:
//
//  1. Structure ([New]): the matrix must be square with N ≥ 2, finite,
//     symmetric, have an exactly zero diagonal, and contain no negative known
//     entries. Structural problems are always fatal.
//
//  2. Geometry ([Matrix.Violations], [Validate]): for every triple of wells
//     whose three distances are known, each side must not exceed the sum of
//     the other two by more than the tolerance. Violations are diagnostics;
//     [Validate] turns them into an error for callers that treat them as fatal.
//
// Both stages report through [InvalidMatrixError], which carries every
// offending index or triple rather than just the first one.
//
// # Example
//
//	m, err := distance.New([][]float64{
//	    {0, 3, 5},
//	    {3, 0, 4},
//	    {5, 4, 0},
//	})
//	if err != nil {
//	    return err
//	}
//	if err := distance.Validate(m, 1e-6); err != nil {
//	    return err // triangle inequality violated
//	}
package distance
