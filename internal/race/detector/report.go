package detector

import (
	"fmt"
	"io"
	"strings"

	"github.com/kolkov/spincell/internal/race/epoch"
	"github.com/kolkov/spincell/internal/race/stackdepot"
)

// AccessType represents the type of cell access (Read or Write).
type AccessType int

const (
	// AccessRead indicates a read-only access (cell.With).
	AccessRead AccessType = iota
	// AccessWrite indicates a mutable access (cell.WithMut).
	AccessWrite
)

// String returns the string representation of an AccessType.
func (a AccessType) String() string {
	switch a {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// Race type constants: "{previous}-{current}".
const (
	// RaceTypeWriteWrite indicates a write-write data race.
	RaceTypeWriteWrite = "write-write"
	// RaceTypeReadWrite indicates a read followed by a conflicting write.
	RaceTypeReadWrite = "read-write"
	// RaceTypeWriteRead indicates a write followed by a conflicting read.
	RaceTypeWriteRead = "write-read"
)

// AccessInfo describes one side of a race.
type AccessInfo struct {
	Type     AccessType
	Addr     uintptr
	ThreadID uint8
	Epoch    epoch.Epoch
	// Stack is a stackdepot hash, 0 when unavailable.
	Stack uint64
}

// RaceReport represents a detected data race between two accesses.
type RaceReport struct {
	// RaceType is one of the RaceType constants.
	RaceType string

	// Current is the access that triggered detection.
	Current AccessInfo

	// Previous is the earlier conflicting access.
	Previous AccessInfo

	// Overlap is true when Previous was still in progress: two raw views of
	// the cell were live at once.
	Overlap bool
}

// NewRaceReport creates a RaceReport and captures the current stack.
func NewRaceReport(raceType string, addr uintptr, prev epoch.Epoch, prevStack uint64, curr epoch.Epoch, overlap bool) *RaceReport {
	report := &RaceReport{
		RaceType: raceType,
		Current: AccessInfo{
			Addr:     addr,
			ThreadID: curr.TID(),
			Epoch:    curr,
			Stack:    stackdepot.CaptureStack(0),
		},
		Previous: AccessInfo{
			Addr:     addr,
			ThreadID: prev.TID(),
			Epoch:    prev,
			Stack:    prevStack,
		},
		Overlap: overlap,
	}

	switch raceType {
	case RaceTypeReadWrite:
		report.Current.Type = AccessWrite
		report.Previous.Type = AccessRead
	case RaceTypeWriteRead:
		report.Current.Type = AccessRead
		report.Previous.Type = AccessWrite
	default:
		report.Current.Type = AccessWrite
		report.Previous.Type = AccessWrite
	}

	return report
}

// Format writes the report in the race detector's block format:
//
//	==================
//	WARNING: DATA RACE
//	Write at cell 0x2 by thread 1:
//	  main.worker()
//	      /path/to/file.go:10
//	  [epoch: 3@1]
//
//	Previous write at cell 0x2 by thread 2:
//	  ...
//	  [epoch: 2@2]
//	==================
//
//nolint:errcheck // Report output is best-effort.
func (r *RaceReport) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "WARNING: DATA RACE\n")

	fmt.Fprintf(w, "%s at cell 0x%x by thread %d:\n",
		r.Current.Type, r.Current.Addr, r.Current.ThreadID)
	fmt.Fprint(w, stackdepot.GetStack(r.Current.Stack).FormatStack())
	fmt.Fprintf(w, "  [epoch: %s]\n", r.Current.Epoch)
	fmt.Fprintf(w, "\n")

	prev := "Previous"
	if r.Overlap {
		prev = "Concurrent live"
	}
	fmt.Fprintf(w, "%s %s at cell 0x%x by thread %d:\n",
		prev, strings.ToLower(r.Previous.Type.String()), r.Previous.Addr, r.Previous.ThreadID)
	fmt.Fprint(w, stackdepot.GetStack(r.Previous.Stack).FormatStack())
	fmt.Fprintf(w, "  [epoch: %s]\n", r.Previous.Epoch)

	fmt.Fprintf(w, "==================\n")
}

// String returns the formatted report.
func (r *RaceReport) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}

// Summary returns a one-line description of the race.
func (r *RaceReport) Summary() string {
	kind := "unsynchronized"
	if r.Overlap {
		kind = "overlapping"
	}
	return fmt.Sprintf("%s %s on cell 0x%x: thread %d %s (%s) vs thread %d %s (%s)",
		kind, r.RaceType, r.Current.Addr,
		r.Previous.ThreadID, strings.ToLower(r.Previous.Type.String()), r.Previous.Epoch,
		r.Current.ThreadID, strings.ToLower(r.Current.Type.String()), r.Current.Epoch)
}
