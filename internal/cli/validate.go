package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/io"
	"github.com/matzehuels/wellpos/pkg/pipeline"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "validate [survey]",
		Short: "Check a survey against the triangle inequality",
		Long: `Check a survey against the triangle inequality.

Every triple of wells with all three distances known is checked with a third
of the tolerance. Violations are listed and the command exits non-zero, so
surveys can be checked before a long solve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Tolerance: tolerance}
			return c.runValidate(args[0], opts, cmd.Flags().Changed)
		},
	}

	cmd.Flags().Float64VarP(&tolerance, "tolerance", "t", 0, "absolute distance tolerance (default: survey, config, then 0.001)")

	return cmd
}

func (c *CLI) runValidate(input string, opts pipeline.Options, changed func(string) bool) error {
	s, err := io.ReadSurveyFile(input)
	if err != nil {
		return err
	}
	m, err := s.Matrix()
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	c.Config.applySolve(changed, &opts, s.Tolerance)
	if err := opts.ValidateForSolve(); err != nil {
		return err
	}

	n := m.N()
	printKeyValue("Survey", s.Name)
	printKeyValue("Wells", strconv.Itoa(n))
	printKeyValue("Known", fmt.Sprintf("%d of %d distances", len(m.KnownPairs()), n*(n-1)/2))
	printKeyValue("Tolerance", strconv.FormatFloat(opts.Tolerance, 'g', -1, 64))
	printNewline()

	vs := m.Violations(triangulate.ValidationTolerance(opts.Tolerance))
	if len(vs) == 0 {
		printSuccess("Triangle inequality holds")
		return nil
	}
	printViolations(s.Names(), m, vs)
	return &distance.InvalidMatrixError{Violations: vs}
}
