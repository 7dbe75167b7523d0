package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// Solutions bundles a solution set with the context needed to present it.
type Solutions struct {
	Names  []string
	Matrix *distance.Matrix
	Set    *triangulate.SolutionSet
}

type solutionsFile struct {
	Wells      []string             `json:"wells"`
	Tolerance  float64              `json:"tolerance"`
	Exhaustive bool                 `json:"exhaustive,omitempty"`
	Distances  [][]*float64         `json:"distances,omitempty"`
	Violations []distance.Violation `json:"violations,omitempty"`
	Solutions  [][]*[2]float64      `json:"solutions"`
}

// WriteSolutions encodes s as indented JSON.
func WriteSolutions(w io.Writer, s Solutions) error {
	if s.Set == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "no solution set")
	}
	if len(s.Names) != s.Set.N {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "%d names for %d points", len(s.Names), s.Set.N)
	}

	out := solutionsFile{
		Wells:      s.Names,
		Tolerance:  s.Set.Tolerance,
		Exhaustive: s.Set.Exhaustive,
		Violations: s.Set.Violations,
		Solutions:  make([][]*[2]float64, len(s.Set.Solutions)),
	}
	if s.Matrix != nil {
		out.Distances = nullable(s.Matrix)
	}
	for i, sol := range s.Set.Solutions {
		pts := make([]*[2]float64, len(sol.Points))
		for j, p := range sol.Points {
			if p.Placed {
				pts[j] = &[2]float64{p.X, p.Y}
			}
		}
		out.Solutions[i] = pts
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSolutions decodes a file written by [WriteSolutions]. Matrix is nil
// when the file carries no distances. Search statistics are not stored and
// come back empty.
func ReadSolutions(r io.Reader) (Solutions, error) {
	var in solutionsFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Solutions{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode solutions")
	}

	n := len(in.Wells)
	set := &triangulate.SolutionSet{
		N:          n,
		Tolerance:  in.Tolerance,
		Exhaustive: in.Exhaustive,
		Violations: in.Violations,
		Solutions:  make([]triangulate.Solution, len(in.Solutions)),
	}
	for i, pts := range in.Solutions {
		if len(pts) != n {
			return Solutions{}, apperrors.New(apperrors.ErrCodeInvalidFormat,
				"solution %d has %d points, want %d", i, len(pts), n)
		}
		sol := triangulate.Solution{Points: make([]triangulate.Point, n)}
		for j, p := range pts {
			if p != nil {
				sol.Points[j] = triangulate.Point{X: p[0], Y: p[1], Placed: true}
			}
		}
		set.Solutions[i] = sol
	}

	out := Solutions{Names: in.Wells, Set: set}
	if in.Distances != nil {
		rows := make([][]float64, len(in.Distances))
		for i, row := range in.Distances {
			rows[i] = make([]float64, len(row))
			for j, v := range row {
				rows[i][j] = distance.Unknown
				if v != nil {
					rows[i][j] = *v
				}
			}
		}
		m, err := distance.New(rows)
		if err != nil {
			return Solutions{}, fmt.Errorf("distances: %w", err)
		}
		if m.N() != n {
			return Solutions{}, apperrors.New(apperrors.ErrCodeInvalidFormat, "%d×%d distances for %d wells", m.N(), m.N(), n)
		}
		out.Matrix = m
	}
	return out, nil
}

// ExportSolutions writes s to path.
func ExportSolutions(path string, s Solutions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSolutions(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportSolutions reads the solutions file at path.
func ImportSolutions(path string) (Solutions, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Solutions{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "solutions %s not found", path)
	}
	if err != nil {
		return Solutions{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSolutions(f)
}
