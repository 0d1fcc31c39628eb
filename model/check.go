package model

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kolkov/spincell/internal/race/detector"
	"github.com/kolkov/spincell/loom"
)

// Report summarizes an exploration.
type Report struct {
	// ID identifies the exploration in output.
	ID uuid.UUID

	// Executions is the number of executions run, including a failing one.
	Executions int

	// Duration is the wall time of the exploration.
	Duration time.Duration

	// MaxBranchDepth is the largest number of recorded scheduling decisions
	// in one execution.
	MaxBranchDepth int

	// Stats accumulates cell accesses and synchronization over all executions.
	Stats detector.Stats

	// Failure is the first failing execution's error, nil when every explored
	// schedule passed. Check returns the same error.
	Failure error
}

// Check runs fn under every schedule allowed by the configuration and
// returns the first failure.
//
// fn runs as thread 0 and receives the runtime to build primitives from.
// It is called once per execution and must create its primitives afresh each
// time. Without a Config, DefaultConfig is used; only the first Config is
// read.
//
// The returned error is an *ExecutionError wrapping a *RaceError,
// *PanicError or one of the sentinel errors; test it with errors.Is and
// errors.As.
func Check(fn func(rt loom.Runtime), cfg ...Config) (*Report, error) {
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	report := &Report{ID: uuid.New()}
	start := time.Now()
	p := newPath(c)

	for {
		e := newExecution(c, p)
		err := e.run(func(*thread) { fn(&modelRuntime{e: e}) })

		report.Executions++
		report.Stats.Add(e.det.Stats())
		report.MaxBranchDepth = max(report.MaxBranchDepth, p.depth())

		if err != nil {
			report.Failure = &ExecutionError{
				Execution: report.Executions,
				Schedule:  e.trace,
				Err:       err,
			}
			break
		}

		if c.random() {
			if report.Executions >= c.Iterations {
				break
			}
		}
		if c.MaxExecutions > 0 && report.Executions >= c.MaxExecutions {
			break
		}
		if !p.next() {
			break
		}
	}

	report.Duration = time.Since(start)
	if c.Output != nil {
		report.Write(c.Output)
	}
	return report, report.Failure
}

// Write prints the report: the race block when the failure is a race, then
// a summary.
//
//nolint:errcheck // Report output is best-effort.
func (r *Report) Write(w io.Writer) {
	var race *RaceError
	if errors.As(r.Failure, &race) {
		fmt.Fprint(w, race.Report)
	}

	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "spincell model check %s\n", r.ID)
	fmt.Fprintf(w, "  executions:  %d\n", r.Executions)
	fmt.Fprintf(w, "  max depth:   %d\n", r.MaxBranchDepth)
	fmt.Fprintf(w, "  accesses:    %d reads, %d writes\n", r.Stats.TotalReads, r.Stats.TotalWrites)
	fmt.Fprintf(w, "  sync:        %d acquires, %d releases\n", r.Stats.Acquires, r.Stats.Releases)
	fmt.Fprintf(w, "  read clocks: %d promotions, %d demotions\n", r.Stats.Promotions, r.Stats.Demotions)
	fmt.Fprintf(w, "  duration:    %s\n", r.Duration.Round(time.Microsecond))
	if r.Failure != nil {
		fmt.Fprintf(w, "  FAILED: %v\n", r.Failure)
	} else {
		fmt.Fprintf(w, "  ok\n")
	}
	fmt.Fprintf(w, "==================\n")
}
