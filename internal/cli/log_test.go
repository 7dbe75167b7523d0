package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/observability"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("solved") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("edge") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("edge") }, true},
		{"warn at error level", log.ErrorLevel, func(l *log.Logger) { l.Warn("violations") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Solved 3 wells")

	out := buf.String()
	if !strings.Contains(out, "Solved 3 wells (") || !strings.Contains(out, "s)") {
		t.Errorf("output %q should carry the message and elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected the default logger without one in the context")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("expected the attached logger")
	}
}

func rightTriangle(t *testing.T) *distance.Matrix {
	t.Helper()
	m, err := distance.New([][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestTraceSolverAboveDebug(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	before := observability.Solver()
	restore := traceSolver(newLogger(&buf, log.InfoLevel))

	if _, ok := observability.Solver().(observability.MultiSolverHooks); ok {
		t.Fatal("solver hooks should not change above debug level")
	}
	if _, err := triangulate.Solve(context.Background(), rightTriangle(t), triangulate.Options{}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	restore()

	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
	if observability.Solver() != before {
		t.Error("hooks should be unchanged")
	}
}

func TestTraceSolverAtDebug(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	before := observability.Solver()
	restore := traceSolver(newLogger(&buf, log.DebugLevel))

	if _, ok := observability.Solver().(observability.MultiSolverHooks); !ok {
		t.Fatalf("expected solver logging to be registered, got %T", observability.Solver())
	}
	if _, err := triangulate.Solve(context.Background(), rightTriangle(t), triangulate.Options{}); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"validated matrix", "starting edge", "edge complete", "branch", "solve complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("log should contain %q, got:\n%s", want, out)
		}
	}

	restore()
	if observability.Solver() != before {
		t.Error("restore should reinstate the previous hooks")
	}

	buf.Reset()
	if _, err := triangulate.Solve(context.Background(), rightTriangle(t), triangulate.Options{}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("no solver output expected after restore, got %q", buf.String())
	}
}

func TestSolverLogFailure(t *testing.T) {
	var buf bytes.Buffer
	s := solverLog{newLogger(&buf, log.DebugLevel)}

	s.OnContradiction(context.Background(), 3, 0, 1)
	s.OnSolveComplete(context.Background(), 0, time.Millisecond, errors.New("search limit"))

	out := buf.String()
	if !strings.Contains(out, "contradiction") || !strings.Contains(out, "target=3") {
		t.Errorf("missing contradiction event in %q", out)
	}
	if !strings.Contains(out, "solve failed") || !strings.Contains(out, "search limit") {
		t.Errorf("missing failure event in %q", out)
	}
	if strings.Contains(out, "solve complete") {
		t.Errorf("failure should not be logged as completion: %q", out)
	}
}
