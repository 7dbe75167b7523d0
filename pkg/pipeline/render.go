package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/render"
	"github.com/matzehuels/wellpos/pkg/render/nodelink"
	"github.com/matzehuels/wellpos/pkg/render/panels"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// Render generates output artifacts in the requested formats.
// m is only needed when edges are shown or the style is nodelink; it may be nil.
func Render(ctx context.Context, set *triangulate.SolutionSet, names []string, m *distance.Matrix, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsNodelink() {
		return renderNodelink(ctx, set, names, m, opts)
	}
	return renderPanels(set, names, m, opts)
}

func renderPanels(set *triangulate.SolutionSet, names []string, m *distance.Matrix, opts Options) (map[string][]byte, error) {
	svgOpts := []panels.Option{panels.WithPanelSize(opts.PanelSize), panels.WithTitle(opts.Title)}
	if opts.ShowEdges && m != nil {
		svgOpts = append(svgOpts, panels.WithEdges(m))
	}
	svg := panels.RenderSVG(set, names, svgOpts...)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := convertSVG(svg, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, set *triangulate.SolutionSet, names []string, m *distance.Matrix, opts Options) (map[string][]byte, error) {
	if set == nil || opts.Solution >= len(set.Solutions) {
		n := 0
		if set != nil {
			n = len(set.Solutions)
		}
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"solution %d out of range (%d solutions)", opts.Solution, n)
	}

	var edges *distance.Matrix
	if opts.ShowEdges {
		edges = m
	}
	dot := nodelink.ToDOT(set.Solutions[opts.Solution], names, edges, nodelink.Options{Distances: opts.ShowEdges})

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	for _, format := range opts.Formats {
		if format == FormatDOT {
			artifacts[format] = []byte(dot)
			continue
		}
		if svg == nil {
			var err error
			if svg, err = nodelink.RenderSVG(ctx, dot); err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
		}
		data, err := convertSVG(svg, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func convertSVG(svg []byte, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return render.ToPNG(svg, DefaultScale)
	case FormatPDF:
		return render.ToPDF(svg)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format for svg conversion: %s", format)
}
