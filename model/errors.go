package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolkov/spincell/internal/race/detector"
)

var (
	// ErrDeadlock is returned when live threads remain but none can run.
	ErrDeadlock = errors.New("deadlock: every remaining thread is blocked")

	// ErrMaxBranches is returned when an execution exceeds Config.MaxBranches.
	ErrMaxBranches = errors.New("execution exceeded the scheduling decision limit")

	// ErrTooManyThreads is returned when an execution spawns more than
	// MaxThreads threads.
	ErrTooManyThreads = errors.New("too many threads")

	// ErrNondeterministic is returned when replaying a schedule prefix
	// offers different choices than the first time.
	ErrNondeterministic = errors.New("execution is not deterministic under replay")

	// ErrInvalidConfig is wrapped by Config.Validate errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RaceError describes a data race on a cell.
type RaceError struct {
	// Kind is "write-write", "read-write" or "write-read" (previous-current).
	Kind string
	// Overlap is true when the previous access was still in progress.
	Overlap bool
	// Cell identifies the cell within its execution.
	Cell uintptr
	// Threads holds the previous and current thread IDs.
	Threads [2]uint8
	// Summary is a one-line description.
	Summary string
	// Report is the full report including stacks.
	Report string
}

// Error implements the error interface.
func (e *RaceError) Error() string {
	return "data race: " + e.Summary
}

// PanicError is returned when a thread panicked.
type PanicError struct {
	Thread uint8
	Value  any
	Stack  []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("thread %d panicked: %v", e.Thread, e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// ExecutionError wraps the failure of one execution with the schedule that
// produced it.
type ExecutionError struct {
	// Execution is the 1-based index of the failing execution.
	Execution int
	// Schedule lists the thread that ran after each context switch.
	Schedule []uint8
	Err      error
}

// Error implements the error interface.
//
// Format: execution N (schedule 0 1 0): cause
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution %d (schedule %s): %v", e.Execution, formatSchedule(e.Schedule), e.Err)
}

// Unwrap returns the underlying failure.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func formatSchedule(s []uint8) string {
	parts := make([]string, len(s))
	for i, tid := range s {
		parts[i] = fmt.Sprint(tid)
	}
	return strings.Join(parts, " ")
}

func newRaceError(r *detector.RaceReport) *RaceError {
	return &RaceError{
		Kind:    r.RaceType,
		Overlap: r.Overlap,
		Cell:    r.Current.Addr,
		Threads: [2]uint8{r.Previous.ThreadID, r.Current.ThreadID},
		Summary: r.Summary(),
		Report:  r.String(),
	}
}
