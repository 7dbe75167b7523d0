package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/io"
	"github.com/matzehuels/wellpos/pkg/pipeline"
)

// renderParams holds the render flags that are not pipeline options.
type renderParams struct {
	output     string
	noCache    bool
	formatsStr string
	solution   int
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var p renderParams
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [solutions]",
		Short: "Draw a solutions file as SVG, PNG, PDF or DOT",
		Long: `Draw a solutions file written by solve.

The panels style (default) draws every solution side by side in a grid.
The nodelink style draws a single solution (--solution, 1-based) through
Graphviz and also supports the dot format.

PNG and PDF output require rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts, p)
		},
	}

	cmd.Flags().StringVarP(&p.output, "output", "o", "", "output file, or base name for several formats")
	cmd.Flags().BoolVar(&p.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&p.formatsStr, "format", "f", "", "output formats: svg, png, pdf, dot (comma-separated, default: svg)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "drawing style: panels, nodelink")
	cmd.Flags().IntVar(&p.solution, "solution", 1, "solution drawn by the nodelink style")
	cmd.Flags().BoolVar(&opts.ShowEdges, "edges", false, "draw measured distances")
	cmd.Flags().Float64Var(&opts.PanelSize, "panel-size", pipeline.DefaultPanelSize, "panel width and height in pixels")
	cmd.Flags().StringVar(&opts.Title, "title", "", "figure title")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, p renderParams) error {
	if p.solution < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "--solution starts at 1, got %d", p.solution)
	}
	opts.Solution = p.solution - 1
	opts.Formats = parseFormats(p.formatsStr)
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	s, err := io.ImportSolutions(input)
	if err != nil {
		return err
	}
	if opts.ShowEdges && s.Matrix == nil {
		printWarning("%s carries no distances; edges are not drawn", input)
	}

	runner, err := c.newRunner(ctx, p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d solutions...", len(s.Set.Solutions)))
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, s.Set, s.Names, s.Matrix, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifacts, opts.Formats, input, p.output, cacheHit)
}
