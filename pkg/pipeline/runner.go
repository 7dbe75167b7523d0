package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/wellpos/pkg/cache"
	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/observability"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// Cache key types reported to observability hooks.
const (
	keyTypeSolve    = "solve"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, m *distance.Matrix, names []string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{MatrixHash: MatrixHash(m)}

	solveStart := time.Now()
	set, solveHit, err := r.SolveWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Set = set
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	r.Logger.Info("solved constellations",
		"wells", set.N,
		"solutions", len(set.Solutions),
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, set, names, m, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"style", opts.Style,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo solves m with caching and returns cache hit info.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, m *distance.Matrix, opts Options) (*triangulate.SolutionSet, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()
	key := r.Keyer.SolveKey(MatrixHash(m), opts.SolveKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var set triangulate.SolutionSet
			if err := msgpack.Unmarshal(data, &set); err == nil {
				hooks.OnCacheHit(ctx, keyTypeSolve)
				r.Logger.Debug("solution set from cache", "key", key)
				return &set, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeSolve)
	}

	set, err := triangulate.Solve(ctx, m, opts.SolverOptions())
	if err != nil {
		return nil, false, err
	}

	if data, err := msgpack.Marshal(set); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLSolve); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeSolve, len(data))
		}
	}

	return set, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, m *distance.Matrix, opts Options) (*triangulate.SolutionSet, error) {
	set, _, err := r.SolveWithCacheInfo(ctx, m, opts)
	return set, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, set *triangulate.SolutionSet, names []string, m *distance.Matrix, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	hash, err := SolutionHash(set, m)
	if err != nil {
		return nil, false, fmt.Errorf("hash solutions for cache key: %w", err)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format, names))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		hooks.OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil
	}
	hooks.OnCacheMiss(ctx, keyTypeArtifact)

	rendered, err := Render(ctx, set, names, m, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format, names))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, set *triangulate.SolutionSet, names []string, m *distance.Matrix, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, set, names, m, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// MatrixHash returns the content hash of m.
func MatrixHash(m *distance.Matrix) string {
	data, _ := msgpack.Marshal(m.Rows())
	return cache.Hash(data)
}

// SolutionHash returns the content hash of the solutions of set and, when
// given, the distances they are drawn with.
func SolutionHash(set *triangulate.SolutionSet, m *distance.Matrix) (string, error) {
	content := struct {
		N         int                    `msgpack:"n"`
		Solutions []triangulate.Solution `msgpack:"solutions"`
		Distances [][]float64            `msgpack:"distances,omitempty"`
	}{}
	if set != nil {
		content.N = set.N
		content.Solutions = set.Solutions
	}
	if m != nil {
		content.Distances = m.Rows()
	}
	data, err := msgpack.Marshal(content)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
