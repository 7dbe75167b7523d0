// Package pipeline provides the solve → render pipeline for wellpos.
//
// This package implements the complete pipeline that is used by the CLI and
// the HTTP API. By centralizing this logic, both entry points share defaults,
// validation and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Solve: Validate the distance matrix and enumerate well constellations
//  2. Render: Draw the solution set in one or more formats (SVG, PNG, PDF, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Tolerance: 0.01,
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, m, names, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	set, err := runner.Solve(ctx, m, opts)
//	artifacts, err := runner.Render(ctx, set, names, m, opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/wellpos/pkg/cache"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/render"
	"github.com/matzehuels/wellpos/pkg/render/panels"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTolerance is the absolute distance tolerance, in the unit of
	// the survey (typically metres).
	DefaultTolerance = triangulate.DefaultTolerance

	// DefaultPanelSize is the side of one result panel in pixels.
	DefaultPanelSize = panels.DefaultPanelSize

	// DefaultScale is the PNG scale factor.
	DefaultScale = render.DefaultScale

	// DefaultStyle is the default rendering style.
	DefaultStyle = StylePanels
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Style constants for rendering styles.
const (
	// StylePanels draws every solution side by side.
	StylePanels = "panels"
	// StyleNodelink draws a single solution as a Graphviz diagram.
	StyleNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// ValidStyles is the set of supported rendering styles.
var ValidStyles = map[string]bool{
	StylePanels:   true,
	StyleNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solve options
	Tolerance       float64 `json:"tolerance,omitempty"`
	Exhaustive      bool    `json:"exhaustive,omitempty"`
	Workers         int     `json:"workers,omitempty"`
	MaxFrontier     int     `json:"max_frontier,omitempty"`
	AllowViolations bool    `json:"allow_violations,omitempty"`
	Refresh         bool    `json:"refresh,omitempty"` // Ignore cached solution sets

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	PanelSize float64  `json:"panel_size,omitempty"`
	ShowEdges bool     `json:"show_edges,omitempty"`
	Solution  int      `json:"solution,omitempty"` // Solution drawn by the nodelink style
	Title     string   `json:"title,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Set is the solved constellation set.
	Set *triangulate.SolutionSet

	// MatrixHash is the content hash of the input matrix.
	MatrixHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the solution set came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid style: %q (must be one of: panels, nodelink)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve validates and sets defaults for solving.
func (o *Options) ValidateForSolve() error {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if err := apperrors.ValidateTolerance(o.Tolerance); err != nil {
		return err
	}
	if o.Workers < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.MaxFrontier < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_frontier must not be negative, got %d", o.MaxFrontier)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PanelSize == 0 {
		o.PanelSize = DefaultPanelSize
	}
	if o.Title == "" {
		o.Title = panels.DefaultTitle
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if f == FormatDOT && !o.IsNodelink() {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "format dot requires style nodelink")
		}
	}
	if o.Solution < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "solution index must not be negative, got %d", o.Solution)
	}
	if o.PanelSize < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "panel_size must be positive, got %g", o.PanelSize)
	}
	return nil
}

// IsNodelink returns true if this is a nodelink rendering.
func (o *Options) IsNodelink() bool {
	return o.Style == StyleNodelink
}

// SolverOptions returns the options passed to the solver.
func (o *Options) SolverOptions() triangulate.Options {
	return triangulate.Options{
		Tolerance:       o.Tolerance,
		Exhaustive:      o.Exhaustive,
		Workers:         o.Workers,
		MaxFrontier:     o.MaxFrontier,
		AllowViolations: o.AllowViolations,
	}
}

// SolveKeyOpts returns cache key options for solving.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		Tolerance:       o.Tolerance,
		Exhaustive:      o.Exhaustive,
		AllowViolations: o.AllowViolations,
		MaxFrontier:     o.MaxFrontier,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string, names []string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Style:     o.Style,
		PanelSize: o.PanelSize,
		ShowEdges: o.ShowEdges,
		Title:     o.Title,
		Names:     names,
	}
	if o.IsNodelink() {
		k.Solution = o.Solution
	}
	return k
}
