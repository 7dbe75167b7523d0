// Package pkg provides the core libraries for wellpos, which reconstructs
// planar well positions from a partially known distance matrix.
//
// # Overview
//
// A survey measures some of the distances between wells. wellpos finds every
// arrangement of the wells in the plane that reproduces those distances, up
// to rotation, translation and the choice of frame. The pkg directory is
// organized as:
//
//  1. [distance] - Distance matrix and triangle-inequality validation
//  2. [triangulate] - Placement, backtracking search and canonical frames
//  3. [io] - Survey files and solution files
//  4. [render] - Panel grids and node-link diagrams
//  5. [pipeline] - Orchestration (solve → render) with caching
//  6. [cache], [metrics], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Survey (TOML/YAML/JSON)
//	         ↓
//	    [io] package (wells, measurements → matrix)
//	         ↓
//	    [distance] package (validate)
//	         ↓
//	    [triangulate] package (enumerate constellations)
//	         ↓
//	    [render] package (SVG/PNG/PDF/DOT)
//
// # Quick Start
//
//	s, _ := io.ReadSurveyFile("north.toml")
//	m, _ := s.Matrix()
//	set, _ := triangulate.Solve(ctx, m, triangulate.Options{Tolerance: 0.01})
//	svg := panels.RenderSVG(set, s.Names())
//
// [distance]: github.com/matzehuels/wellpos/pkg/distance
// [triangulate]: github.com/matzehuels/wellpos/pkg/triangulate
// [io]: github.com/matzehuels/wellpos/pkg/io
// [render]: github.com/matzehuels/wellpos/pkg/render
// [pipeline]: github.com/matzehuels/wellpos/pkg/pipeline
// [cache]: github.com/matzehuels/wellpos/pkg/cache
// [metrics]: github.com/matzehuels/wellpos/pkg/metrics
// [observability]: github.com/matzehuels/wellpos/pkg/observability
// [errors]: github.com/matzehuels/wellpos/pkg/errors
// [buildinfo]: github.com/matzehuels/wellpos/pkg/buildinfo
package pkg
