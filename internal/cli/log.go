package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wellpos/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Solved 12 wells (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// solverLog writes solver events to a logger at debug level.
type solverLog struct {
	logger *log.Logger
}

// traceSolver registers solver logging when the logger is at debug level.
// The returned function restores the previous hooks.
func traceSolver(l *log.Logger) func() {
	if l.GetLevel() > log.DebugLevel {
		return func() {}
	}
	prev := observability.Solver()
	observability.SetSolverHooks(observability.MultiSolverHooks{prev, solverLog{l}})
	return func() { observability.SetSolverHooks(prev) }
}

func (s solverLog) OnValidate(_ context.Context, n, violations int) {
	s.logger.Debug("validated matrix", "wells", n, "violations", violations)
}

func (s solverLog) OnEdgeStart(_ context.Context, a, b int) {
	s.logger.Debug("starting edge", "a", a, "b", b)
}

func (s solverLog) OnEdgeComplete(_ context.Context, a, b, results int, d time.Duration) {
	s.logger.Debug("edge complete", "a", a, "b", b, "results", results, "duration", d.Round(time.Microsecond))
}

func (s solverLog) OnContradiction(_ context.Context, target, a, b int) {
	s.logger.Debug("contradiction", "target", target, "a", a, "b", b)
}

func (s solverLog) OnBranch(_ context.Context, target, candidates int) {
	s.logger.Debug("branch", "target", target, "candidates", candidates)
}

func (s solverLog) OnSolveComplete(_ context.Context, solutions int, d time.Duration, err error) {
	if err != nil {
		s.logger.Debug("solve failed", "err", err, "duration", d.Round(time.Microsecond))
		return
	}
	s.logger.Debug("solve complete", "solutions", solutions, "duration", d.Round(time.Microsecond))
}

var _ observability.SolverHooks = solverLog{}
