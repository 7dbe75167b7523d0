package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// SolveKey identifies the solution set of a matrix under the given options.
	SolveKey(matrixHash string, opts SolveKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a solution set.
	ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string
}

// SolveKeyOpts holds the solver options that change the result.
// Worker count is not part of the key; results do not depend on it.
type SolveKeyOpts struct {
	Tolerance       float64 `json:"tolerance"`
	Exhaustive      bool    `json:"exhaustive"`
	AllowViolations bool    `json:"allow_violations"`
	MaxFrontier     int     `json:"max_frontier"`
}

// ArtifactKeyOpts holds the render options that change the output.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Style     string   `json:"style"`
	PanelSize float64  `json:"panel_size"`
	ShowEdges bool     `json:"show_edges"`
	Solution  int      `json:"solution"`
	Title     string   `json:"title,omitempty"`
	Names     []string `json:"names,omitempty"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(matrixHash string, opts SolveKeyOpts) string {
	return hashKey("solve", matrixHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
