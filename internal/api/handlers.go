package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/wellpos/pkg/buildinfo"
	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/io"
	"github.com/matzehuels/wellpos/pkg/pipeline"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

var (
	errNotFound         = apperrors.New(apperrors.ErrCodeFileNotFound, "no such route")
	errMethodNotAllowed = apperrors.New(apperrors.ErrCodeInvalidInput, "method not allowed")
)

// contentTypes maps render formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: info.Version, Commit: info.Commit})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := parseSurvey(req.Survey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.SolveOptions.pipelineOptions(in.tolerance)
	if err := opts.ValidateForSolve(); err != nil {
		s.writeError(w, r, err)
		return
	}

	set, hit, err := s.Runner.SolveWithCacheInfo(r.Context(), in.matrix, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SolveResponse{
		Wells:      in.names,
		MatrixHash: pipeline.MatrixHash(in.matrix),
		Tolerance:  set.Tolerance,
		Exhaustive: set.Exhaustive,
		Cached:     hit,
		Solutions:  points(set.Solutions),
		Violations: set.Violations,
		Edges:      set.Edges,
		Stats:      set.Stats,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := parseSurvey(req.Survey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := SolveOptions{Tolerance: req.Tolerance}.pipelineOptions(in.tolerance)
	if err := opts.ValidateForSolve(); err != nil {
		s.writeError(w, r, err)
		return
	}

	vs := in.matrix.Violations(triangulate.ValidationTolerance(opts.Tolerance))
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:      len(vs) == 0,
		Wells:      in.names,
		Known:      len(in.matrix.KnownPairs()),
		Tolerance:  opts.Tolerance,
		Violations: vs,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Filename != "" {
		if err := apperrors.ValidatePath(req.Filename); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	in, err := parseSurvey(req.Survey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := req.SolveOptions.pipelineOptions(in.tolerance)
	opts.Formats = []string{format}
	opts.Style = req.Style
	opts.PanelSize = req.PanelSize
	opts.ShowEdges = req.ShowEdges
	opts.Solution = req.Solution
	opts.Title = req.Title

	res, err := s.Runner.Execute(r.Context(), in.matrix, in.names, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := res.Artifacts[format]
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("X-Solutions", strconv.Itoa(len(res.Set.Solutions)))
	h.Set("X-Cache", cacheStatus(res.CacheInfo.SolveHit && res.CacheInfo.RenderHit))
	if req.Filename != "" {
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Filename))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// Request Helpers
// =============================================================================

// survey is a parsed request survey.
type survey struct {
	matrix    *distance.Matrix
	names     []string
	tolerance float64
}

func parseSurvey(raw json.RawMessage) (survey, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return survey{}, apperrors.New(apperrors.ErrCodeInvalidInput, "survey is required")
	}
	s, err := io.ReadSurvey(bytes.NewReader(raw), io.FormatJSON)
	if err != nil {
		return survey{}, err
	}
	m, err := s.Matrix()
	if err != nil {
		return survey{}, err
	}
	return survey{matrix: m, names: s.Names(), tolerance: s.Tolerance}, nil
}

// pipelineOptions converts o; a zero tolerance falls back to the survey's.
func (o SolveOptions) pipelineOptions(surveyTolerance float64) pipeline.Options {
	tol := o.Tolerance
	if tol == 0 {
		tol = surveyTolerance
	}
	return pipeline.Options{
		Tolerance:       tol,
		Exhaustive:      o.Exhaustive,
		Workers:         o.Workers,
		MaxFrontier:     o.MaxFrontier,
		AllowViolations: o.AllowViolations,
		Refresh:         o.Refresh,
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if s.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}

	body := ErrorBody{Code: string(code), Message: errorMessage(err)}
	var invalid *distance.InvalidMatrixError
	if errors.As(err, &invalid) {
		body.Violations = invalid.Violations
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{Error: body, RequestID: RequestID(r.Context())})
}

// errorMessage is the user message of err followed by the cause of the
// outermost coded error, if any.
func errorMessage(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return apperrors.UserMessage(err)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case err == errNotFound:
		return http.StatusNotFound
	case err == errMethodNotAllowed:
		return http.StatusMethodNotAllowed
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidMatrix,
		apperrors.ErrCodeInvalidTolerance,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeInvalidWellName,
		apperrors.ErrCodeFileNotFound:
		return http.StatusBadRequest
	case apperrors.ErrCodeSearchLimit:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case apperrors.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
