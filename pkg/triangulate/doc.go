// Package triangulate reconstructs planar point sets from pairwise distances.
//
// Given a [distance.Matrix] in which some entries may be unknown, [Solve]
// enumerates every configuration of points in the plane that matches all
// known distances within an absolute tolerance. Results are rigid-motion
// normalized: point 0 sits at the origin and point 1 on the non-negative
// x-axis. Placements that never reach point 0 or point 1 are not results.
// Mirror images about that axis are distinct results.
//
// # Search
//
// The search starts from an anchor edge (a pair with a known distance) and
// places further points by trilateration against pairs of placed points.
// Each placement yields zero, one or two candidate positions, which are
// checked against every other placed point. Two candidates branch the search,
// none prunes the branch. See [Place] and [Enumerate].
//
// Branches share structure through the persistent [Placement] type, so the
// frontier can be expanded concurrently without copying.
//
// # Events
//
// Validation results, branches, contradictions and timings are reported to
// the hooks registered with [observability.SetSolverHooks].
//
// [distance.Matrix]: github.com/matzehuels/wellpos/pkg/distance.Matrix
// [observability.SetSolverHooks]: github.com/matzehuels/wellpos/pkg/observability.SetSolverHooks
package triangulate
