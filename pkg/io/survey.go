package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
)

// DefaultConflictTolerance is used to compare repeated measurements when the
// survey does not set a tolerance.
const DefaultConflictTolerance = 1e-3

// Format identifies a survey encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
		"unsupported survey extension %q (use .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// Survey describes the wells of one campaign.
type Survey struct {
	Name      string        `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Tolerance float64       `json:"tolerance,omitempty" toml:"tolerance" yaml:"tolerance,omitempty"`
	Wells     []Well        `json:"wells" toml:"wells" yaml:"wells"`
	Distances []Measurement `json:"distances,omitempty" toml:"distances" yaml:"distances,omitempty"`

	// rows is set when the survey was read from a bare matrix.
	rows [][]float64
}

// Well is a named well, optionally with known coordinates.
type Well struct {
	Name string   `json:"name" toml:"name" yaml:"name"`
	X    *float64 `json:"x,omitempty" toml:"x" yaml:"x,omitempty"`
	Y    *float64 `json:"y,omitempty" toml:"y" yaml:"y,omitempty"`
}

// Positioned reports whether both coordinates are set.
func (w Well) Positioned() bool {
	return w.X != nil && w.Y != nil
}

// Measurement is a measured distance between two wells.
type Measurement struct {
	From  string  `json:"from" toml:"from" yaml:"from"`
	To    string  `json:"to" toml:"to" yaml:"to"`
	Value float64 `json:"value" toml:"value" yaml:"value"`
}

// Names returns the well names in matrix order.
func (s *Survey) Names() []string {
	names := make([]string, len(s.Wells))
	for i, w := range s.Wells {
		names[i] = w.Name
	}
	return names
}

func (s *Survey) conflictTolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultConflictTolerance
}

// Matrix builds the distance matrix of the survey.
//
// Well names must be valid and unique. Coordinates must be given as a pair.
// Every measurement must reference known wells, be finite and non-negative,
// and agree with any value already known for the pair.
func (s *Survey) Matrix() (*distance.Matrix, error) {
	if s.rows != nil {
		return distance.New(s.rows)
	}

	n := len(s.Wells)
	if n < 2 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "survey needs at least 2 wells, got %d", n)
	}

	index := make(map[string]int, n)
	for i, w := range s.Wells {
		if err := apperrors.ValidateWellName(w.Name); err != nil {
			return nil, err
		}
		if _, dup := index[w.Name]; dup {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate well %q", w.Name)
		}
		if (w.X == nil) != (w.Y == nil) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "well %q: x and y must be given together", w.Name)
		}
		index[w.Name] = i
	}

	rows := distance.Square(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := s.Wells[i], s.Wells[j]
			if a.Positioned() && b.Positioned() {
				d := math.Hypot(*a.X-*b.X, *a.Y-*b.Y)
				rows[i][j], rows[j][i] = d, d
			}
		}
	}

	tol := s.conflictTolerance()
	for _, m := range s.Distances {
		i, ok := index[m.From]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "distance %s-%s: unknown well %q", m.From, m.To, m.From)
		}
		j, ok := index[m.To]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "distance %s-%s: unknown well %q", m.From, m.To, m.To)
		}
		if i == j {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "distance %s-%s: a well has no distance to itself", m.From, m.To)
		}
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value < 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "distance %s-%s: invalid value %g", m.From, m.To, m.Value)
		}
		if prev := rows[i][j]; distance.IsKnown(prev) && math.Abs(prev-m.Value) > tol {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"distance %s-%s: measured %g conflicts with %g", m.From, m.To, m.Value, prev)
		}
		rows[i][j], rows[j][i] = m.Value, m.Value
	}

	return distance.New(rows)
}

// ReadSurvey decodes a survey in the given format. JSON input may also be a
// bare matrix.
func ReadSurvey(r io.Reader, format Format) (*Survey, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read survey: %w", err)
	}

	var s Survey
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			return readBareMatrix(trimmed)
		}
		err = json.Unmarshal(data, &s)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported survey format %q", format)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s survey", format)
	}
	return &s, nil
}

// ReadSurveyFile reads the survey at path, choosing the decoder by extension.
func ReadSurveyFile(path string) (*Survey, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "survey %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadSurvey(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ReadMatrix decodes a bare JSON matrix.
func ReadMatrix(r io.Reader) (*distance.Matrix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	s, err := readBareMatrix(data)
	if err != nil {
		return nil, err
	}
	return s.Matrix()
}

func readBareMatrix(data []byte) (*Survey, error) {
	var raw [][]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode matrix")
	}
	rows := make([][]float64, len(raw))
	wells := make([]Well, len(raw))
	for i, row := range raw {
		rows[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				rows[i][j] = distance.Unknown
			} else {
				rows[i][j] = *v
			}
		}
		wells[i] = Well{Name: fmt.Sprintf("p%d", i)}
	}
	return &Survey{Wells: wells, rows: rows}, nil
}

// MatrixJSON encodes m as a bare JSON matrix with null for unknown entries.
func MatrixJSON(m *distance.Matrix) ([]byte, error) {
	return json.Marshal(nullable(m))
}

func nullable(m *distance.Matrix) [][]*float64 {
	rows := m.Rows()
	out := make([][]*float64, len(rows))
	for i, row := range rows {
		out[i] = make([]*float64, len(row))
		for j, v := range row {
			if distance.IsKnown(v) {
				out[i][j] = &v
			}
		}
	}
	return out
}
