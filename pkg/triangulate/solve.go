package triangulate

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/observability"
)

// SolutionSet is the outcome of [Solve] for one matrix and tolerance.
type SolutionSet struct {
	N          int                  `json:"n" msgpack:"n"`
	Tolerance  float64              `json:"tolerance" msgpack:"tolerance"`
	Exhaustive bool                 `json:"exhaustive" msgpack:"exhaustive"`
	Solutions  []Solution           `json:"solutions" msgpack:"solutions"`
	Violations []distance.Violation `json:"violations,omitempty" msgpack:"violations,omitempty"`
	Edges      []EdgeReport         `json:"edges" msgpack:"edges"`
	Stats      Stats                `json:"stats" msgpack:"stats"`
}

// EdgeReport describes the search from one starting edge.
type EdgeReport struct {
	A       int   `json:"a" msgpack:"a"`
	B       int   `json:"b" msgpack:"b"`
	Results int   `json:"results" msgpack:"results"`
	Stats   Stats `json:"stats" msgpack:"stats"`
}

// Solve reconstructs every distinct planar configuration of m.
//
// The matrix is checked against the triangle inequality with a third of the
// tolerance first; violations abort the solve with *distance.InvalidMatrixError
// unless opts.AllowViolations is set. Starting edges are the known pairs i<j
// in ascending order. Without opts.Exhaustive the search stops at the first
// edge that yields a result.
//
// Only placements of points 0 and 1 are results: a starting edge whose
// component never reaches either contributes nothing.
//
// An empty solution set is not an error: it means no starting edge produced a
// consistent placement.
func Solve(ctx context.Context, m *distance.Matrix, opts Options) (set *SolutionSet, err error) {
	start := time.Now()
	hooks := observability.Solver()
	defer func() {
		n := 0
		if set != nil {
			n = len(set.Solutions)
		}
		hooks.OnSolveComplete(ctx, n, time.Since(start), err)
	}()

	opts = opts.withDefaults()
	if err := apperrors.ValidateTolerance(opts.Tolerance); err != nil {
		return nil, err
	}

	violations := m.Violations(ValidationTolerance(opts.Tolerance))
	hooks.OnValidate(ctx, m.N(), len(violations))
	if len(violations) > 0 && !opts.AllowViolations {
		return nil, &distance.InvalidMatrixError{Violations: violations}
	}

	edges := m.KnownPairs()
	var results [][]*Placement
	var reports []EdgeReport
	if opts.Exhaustive {
		results, reports, err = solveAll(ctx, m, edges, opts)
	} else {
		results, reports, err = solveFirst(ctx, m, edges, opts)
	}
	if err != nil {
		return nil, err
	}

	set = &SolutionSet{
		N:          m.N(),
		Tolerance:  opts.Tolerance,
		Exhaustive: opts.Exhaustive,
		Violations: violations,
		Edges:      reports,
	}
	var all []*Placement
	for i, r := range results {
		all = append(all, r...)
		set.Stats.Add(reports[i].Stats)
	}
	set.Solutions = Finalize(all, opts.Tolerance)
	return set, nil
}

// ValidationTolerance is the slack allowed in triangle inequality checks for
// a search tolerance of tol.
func ValidationTolerance(tol float64) float64 {
	return tol / 3
}

// solveFirst tries edges in order until one yields a result that places
// points 0 and 1.
func solveFirst(ctx context.Context, m *distance.Matrix, edges []distance.Pair, opts Options) ([][]*Placement, []EdgeReport, error) {
	var results [][]*Placement
	var reports []EdgeReport
	for _, e := range edges {
		res, rep, err := runEdge(ctx, m, e, opts)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
		reports = append(reports, rep)
		if len(res) > 0 {
			break
		}
	}
	return results, reports, nil
}

// solveAll runs every edge concurrently. Each edge expands its own frontier
// sequentially so the worker bound applies across edges.
func solveAll(ctx context.Context, m *distance.Matrix, edges []distance.Pair, opts Options) ([][]*Placement, []EdgeReport, error) {
	results := make([][]*Placement, len(edges))
	reports := make([]EdgeReport, len(edges))
	if len(edges) == 0 {
		return results, reports, nil
	}

	inner := opts
	inner.Workers = 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Workers, len(edges)))
	for i, e := range edges {
		g.Go(func() error {
			res, rep, err := runEdge(gctx, m, e, inner)
			if err != nil {
				return err
			}
			results[i], reports[i] = res, rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, reports, nil
}

// runEdge enumerates from e and keeps the results that can be put into the
// canonical frame.
func runEdge(ctx context.Context, m *distance.Matrix, e distance.Pair, opts Options) ([]*Placement, EdgeReport, error) {
	hooks := observability.Solver()
	start := time.Now()
	hooks.OnEdgeStart(ctx, e.I, e.J)

	res, stats, err := Enumerate(ctx, m, e.I, e.J, opts)
	if err != nil {
		return nil, EdgeReport{}, err
	}
	res = keepFramed(res)
	hooks.OnEdgeComplete(ctx, e.I, e.J, len(res), time.Since(start))
	return res, EdgeReport{A: e.I, B: e.J, Results: len(res), Stats: stats}, nil
}
