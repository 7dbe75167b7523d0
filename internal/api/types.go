package api

import (
	"encoding/json"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// SolveOptions are the solver settings shared by all requests.
type SolveOptions struct {
	Tolerance       float64 `json:"tolerance,omitempty"`
	Exhaustive      bool    `json:"exhaustive,omitempty"`
	Workers         int     `json:"workers,omitempty"`
	MaxFrontier     int     `json:"max_frontier,omitempty"`
	AllowViolations bool    `json:"allow_violations,omitempty"`
	Refresh         bool    `json:"refresh,omitempty"`
}

// SolveRequest is the body of POST /v1/solve. Survey holds either a survey
// object or a bare N×N matrix with null for unknown entries.
type SolveRequest struct {
	Survey json.RawMessage `json:"survey"`
	SolveOptions
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Survey    json.RawMessage `json:"survey"`
	Tolerance float64         `json:"tolerance,omitempty"`
}

// RenderRequest is the body of POST /v1/render. The survey is solved (or
// read from the cache) and drawn in a single format.
type RenderRequest struct {
	Survey json.RawMessage `json:"survey"`
	SolveOptions

	Format    string  `json:"format,omitempty"`
	Style     string  `json:"style,omitempty"`
	PanelSize float64 `json:"panel_size,omitempty"`
	ShowEdges bool    `json:"show_edges,omitempty"`
	Solution  int     `json:"solution,omitempty"`
	Title     string  `json:"title,omitempty"`
	Filename  string  `json:"filename,omitempty"`
}

// SolveResponse lists the constellations of a survey.
type SolveResponse struct {
	Wells      []string                 `json:"wells"`
	MatrixHash string                   `json:"matrix_hash"`
	Tolerance  float64                  `json:"tolerance"`
	Exhaustive bool                     `json:"exhaustive"`
	Cached     bool                     `json:"cached"`
	Solutions  [][]*[2]float64          `json:"solutions"`
	Violations []distance.Violation     `json:"violations,omitempty"`
	Edges      []triangulate.EdgeReport `json:"edges"`
	Stats      triangulate.Stats        `json:"stats"`
}

// ValidateResponse reports triangle inequality violations.
type ValidateResponse struct {
	Valid      bool                 `json:"valid"`
	Wells      []string             `json:"wells"`
	Known      int                  `json:"known"`
	Tolerance  float64              `json:"tolerance"`
	Violations []distance.Violation `json:"violations,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody carries the machine-readable code of a failure.
type ErrorBody struct {
	Code       string               `json:"code"`
	Message    string               `json:"message"`
	Violations []distance.Violation `json:"violations,omitempty"`
}

// points converts solutions to coordinate pairs with null for absent points.
func points(sols []triangulate.Solution) [][]*[2]float64 {
	out := make([][]*[2]float64, len(sols))
	for i, sol := range sols {
		pts := make([]*[2]float64, len(sol.Points))
		for j, p := range sol.Points {
			if p.Placed {
				pts[j] = &[2]float64{p.X, p.Y}
			}
		}
		out[i] = pts
	}
	return out
}
