package triangulate

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/observability"
)

// DefaultTolerance is the absolute distance tolerance used when none is set.
const DefaultTolerance = 1e-3

// Options configures the search.
type Options struct {
	// Tolerance is the absolute tolerance for distance comparisons.
	// Zero selects DefaultTolerance.
	Tolerance float64 `json:"tolerance" msgpack:"tolerance"`

	// Exhaustive tries every starting edge instead of stopping at the first
	// one that yields a result.
	Exhaustive bool `json:"exhaustive" msgpack:"exhaustive"`

	// Workers bounds concurrent expansion. Zero selects GOMAXPROCS.
	Workers int `json:"workers" msgpack:"workers"`

	// MaxFrontier caps the number of in-progress placements per starting
	// edge. Zero means unlimited.
	MaxFrontier int `json:"max_frontier" msgpack:"max_frontier"`

	// AllowViolations continues the search when the matrix violates the
	// triangle inequality. Violations are reported either way.
	AllowViolations bool `json:"allow_violations" msgpack:"allow_violations"`
}

func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Stats counts search events.
type Stats struct {
	Passes         int `json:"passes" msgpack:"passes"`
	Branches       int `json:"branches" msgpack:"branches"`
	Contradictions int `json:"contradictions" msgpack:"contradictions"`
	Settled        int `json:"settled" msgpack:"settled"`
	PeakFrontier   int `json:"peak_frontier" msgpack:"peak_frontier"`
}

// Add accumulates o into s. PeakFrontier keeps the maximum.
func (s *Stats) Add(o Stats) {
	s.Passes += o.Passes
	s.Branches += o.Branches
	s.Contradictions += o.Contradictions
	s.Settled += o.Settled
	s.PeakFrontier = max(s.PeakFrontier, o.PeakFrontier)
}

// Enumerate places every reachable point starting from the edge (a, b), with
// a at the origin and b on the positive x-axis.
//
// The search runs in passes over a frontier of placements. A member whose
// pass places nothing is settled and returned; the others are replaced by
// their extensions. Members are expanded concurrently, but results are
// returned in a deterministic order.
//
// Enumerate returns nil when the distance between a and b is unknown.
func Enumerate(ctx context.Context, m *distance.Matrix, a, b int, opts Options) ([]*Placement, Stats, error) {
	var stats Stats
	if !m.Known(a, b) {
		return nil, stats, nil
	}
	opts = opts.withDefaults()

	root := NewPlacement(m.N()).
		With(a, r2.Vec{}).
		With(b, r2.Vec{X: m.At(a, b)})

	var results []*Placement
	frontier := []*Placement{root}
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Passes++
		stats.PeakFrontier = max(stats.PeakFrontier, len(frontier))

		children := make([][]*Placement, len(frontier))
		settled := make([]bool, len(frontier))
		counts := make([]Stats, len(frontier))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(opts.Workers, len(frontier)))
		for i, p := range frontier {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				children[i], settled[i], counts[i] = expand(gctx, p, m, opts.Tolerance)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, stats, err
		}

		var next []*Placement
		for i, p := range frontier {
			stats.Add(counts[i])
			if settled[i] {
				stats.Settled++
				results = append(results, p)
				continue
			}
			next = append(next, children[i]...)
		}
		if opts.MaxFrontier > 0 && len(next) > opts.MaxFrontier {
			return nil, stats, &apperrors.SearchLimitError{Limit: opts.MaxFrontier, Frontier: len(next)}
		}
		frontier = next
	}
	return results, stats, nil
}

// expand runs one pass over p. Unplaced points are attempted in ascending
// order against every working copy; the working set starts as {p}.
// It reports settled when the pass left p untouched.
func expand(ctx context.Context, p *Placement, m *distance.Matrix, eps float64) ([]*Placement, bool, Stats) {
	var stats Stats
	hooks := observability.Solver()

	work := []*Placement{p}
	for _, target := range p.unplaced() {
		next := make([]*Placement, 0, len(work))
		for _, w := range work {
			out, outcome, a, b := placeFirst(w, w.snapshot(), target, m, eps)
			switch outcome {
			case Contradiction:
				stats.Contradictions++
				hooks.OnContradiction(ctx, target, a, b)
			case Placed:
				stats.Branches += len(out)
				hooks.OnBranch(ctx, target, len(out))
				next = append(next, out...)
			default:
				next = append(next, w)
			}
		}
		work = next
		if len(work) == 0 {
			break
		}
	}

	if len(work) == 1 && work[0] == p {
		return nil, true, stats
	}
	return work, false, stats
}
