package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/io"
	"github.com/matzehuels/wellpos/pkg/pipeline"
)

// solveParams holds the solve flags that are not pipeline options.
type solveParams struct {
	output     string
	noCache    bool
	formatsStr string
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var p solveParams
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve [survey]",
		Short: "Reconstruct well positions from a survey",
		Long: `Reconstruct well positions from a survey.

The survey (.toml, .yaml, .yml or .json) lists wells, optional coordinates
and measured distances. Every planar constellation that reproduces the known
distances within the tolerance is written to <survey>.solutions.json.

Solutions are in a canonical frame: the first well is at the origin and the
second lies on the positive x-axis. Mirror images are reported separately.

By default the search stops at the first starting edge that yields a result;
use --exhaustive to try every edge. Results are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], opts, cmd.Flags().Changed, p)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&p.output, "output", "o", "", "solutions file (default: <survey>.solutions.json)")
	cmd.Flags().BoolVar(&p.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	// Solve flags
	cmd.Flags().Float64VarP(&opts.Tolerance, "tolerance", "t", 0, "absolute distance tolerance (default: survey, config, then 0.001)")
	cmd.Flags().BoolVarP(&opts.Exhaustive, "exhaustive", "e", false, "try every starting edge")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().IntVar(&opts.MaxFrontier, "max-frontier", 0, "abort when more partial placements are open (0: unlimited)")
	cmd.Flags().BoolVar(&opts.AllowViolations, "allow-violations", false, "search even when the triangle inequality fails")

	// Render flags
	cmd.Flags().StringVarP(&p.formatsStr, "format", "f", "", "also render: svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.ShowEdges, "edges", false, "draw measured distances when rendering")

	return cmd
}

// runSolve reads the survey, solves it and writes the solutions file.
func (c *CLI) runSolve(ctx context.Context, input string, opts pipeline.Options, changed func(string) bool, p solveParams) error {
	s, err := io.ReadSurveyFile(input)
	if err != nil {
		return err
	}
	m, err := s.Matrix()
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	names := s.Names()

	c.Config.applySolve(changed, &opts, s.Tolerance)
	if err := opts.ValidateForSolve(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	defer traceSolver(c.Logger)()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d wells...", m.N()))
	spinner.Start()

	set, cacheHit, err := runner.SolveWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		var invalid *distance.InvalidMatrixError
		if errors.As(err, &invalid) && len(invalid.Violations) > 0 {
			printViolations(names, m, invalid.Violations)
			printDetail("Use --allow-violations to search anyway")
		}
		return fmt.Errorf("solve %s: %w", input, err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Solved %d wells", m.N()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := p.output
	if outputPath == "" {
		outputPath = solutionsPath(input)
	}
	if err := io.ExportSolutions(outputPath, io.Solutions{Names: names, Matrix: m, Set: set}); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Solve complete")
	printFile(outputPath)
	printSolveStats(m.N(), len(set.Solutions), len(set.Edges), cacheHit)
	if len(set.Violations) > 0 {
		printWarning("Searched despite %d triangle inequality violation(s)", len(set.Violations))
	}
	if len(set.Solutions) == 0 {
		printWarning("No constellation satisfies all distances; check the measurements or raise --tolerance")
	}

	if p.formatsStr != "" {
		opts.Formats = parseFormats(p.formatsStr)
		artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, set, names, m, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		printNewline()
		if err := writeArtifacts(artifacts, opts.Formats, outputPath, "", renderHit); err != nil {
			return err
		}
	}

	printNewline()
	printNextStep("Browse", appName+" browse "+outputPath)
	return nil
}
