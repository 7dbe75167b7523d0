// Package cache provides the storage behind repeated solves and renders.
//
// Solving is deterministic, so a solution set is fully determined by the
// matrix and the solver options. The pipeline hashes both into a key and
// stores the encoded result in a [Cache]:
//
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] for the API server, shared between replicas
//   - [NullCache] when caching is disabled
//
// Key construction lives in [Keyer] so that the CLI and the API agree on the
// layout, and [ScopedKeyer] can namespace keys per tenant.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes.
const (
	// TTLSolve applies to solution sets. Results never go stale; the TTL
	// only bounds disk and memory use.
	TTLSolve = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG, PNG, PDF and DOT output.
	TTLArtifact = 7 * 24 * time.Hour
)
