// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about the solver, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are purely diagnostic. The solver produces identical results whether
// or not anything is registered.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(&mySolverHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnEdgeStart(ctx, a, b)
//	// ... enumerate placements ...
//	observability.Solver().OnEdgeComplete(ctx, a, b, results, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the point-set reconstruction.
type SolverHooks interface {
	// OnValidate reports the triangle-inequality check of an n×n matrix.
	OnValidate(ctx context.Context, n, violations int)

	// Starting edge events
	OnEdgeStart(ctx context.Context, a, b int)
	OnEdgeComplete(ctx context.Context, a, b, results int, duration time.Duration)

	// OnContradiction records a pruned branch: target could not be placed
	// against anchors a and b.
	OnContradiction(ctx context.Context, target, a, b int)

	// OnBranch records a placement of target with the given number of candidates.
	OnBranch(ctx context.Context, target, candidates int)

	// OnSolveComplete records the end of a full solve.
	OnSolveComplete(ctx context.Context, solutions int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnValidate(context.Context, int, int)                         {}
func (NoopSolverHooks) OnEdgeStart(context.Context, int, int)                        {}
func (NoopSolverHooks) OnEdgeComplete(context.Context, int, int, int, time.Duration) {}
func (NoopSolverHooks) OnContradiction(context.Context, int, int, int)               {}
func (NoopSolverHooks) OnBranch(context.Context, int, int)                           {}
func (NoopSolverHooks) OnSolveComplete(context.Context, int, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any solve.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

// =============================================================================
// Fan-out
// =============================================================================

// MultiSolverHooks forwards every event to each of its members in order.
type MultiSolverHooks []SolverHooks

func (m MultiSolverHooks) OnValidate(ctx context.Context, n, violations int) {
	for _, h := range m {
		h.OnValidate(ctx, n, violations)
	}
}

func (m MultiSolverHooks) OnEdgeStart(ctx context.Context, a, b int) {
	for _, h := range m {
		h.OnEdgeStart(ctx, a, b)
	}
}

func (m MultiSolverHooks) OnEdgeComplete(ctx context.Context, a, b, results int, d time.Duration) {
	for _, h := range m {
		h.OnEdgeComplete(ctx, a, b, results, d)
	}
}

func (m MultiSolverHooks) OnContradiction(ctx context.Context, target, a, b int) {
	for _, h := range m {
		h.OnContradiction(ctx, target, a, b)
	}
}

func (m MultiSolverHooks) OnBranch(ctx context.Context, target, candidates int) {
	for _, h := range m {
		h.OnBranch(ctx, target, candidates)
	}
}

func (m MultiSolverHooks) OnSolveComplete(ctx context.Context, solutions int, d time.Duration, err error) {
	for _, h := range m {
		h.OnSolveComplete(ctx, solutions, d, err)
	}
}
