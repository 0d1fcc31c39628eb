package loom

import "strconv"

// Ordering is the memory ordering requested for an atomic operation.
type Ordering int

const (
	// Relaxed guarantees atomicity only. It creates no happens-before edge.
	Relaxed Ordering = iota
	// Release publishes the writer's prior writes to acquirers of the value.
	Release
	// Acquire makes writes published by the matching release visible.
	Acquire
	// AcqRel is Acquire for the read half and Release for the write half of
	// a read-modify-write.
	AcqRel
	// SeqCst is AcqRel plus a single total order over all SeqCst operations.
	SeqCst
)

// Acquires reports whether o has acquire semantics on reads.
func (o Ordering) Acquires() bool {
	return o == Acquire || o == AcqRel || o == SeqCst
}

// Releases reports whether o has release semantics on writes.
func (o Ordering) Releases() bool {
	return o == Release || o == AcqRel || o == SeqCst
}

// String returns the ordering name.
func (o Ordering) String() string {
	switch o {
	case Relaxed:
		return "Relaxed"
	case Release:
		return "Release"
	case Acquire:
		return "Acquire"
	case AcqRel:
		return "AcqRel"
	case SeqCst:
		return "SeqCst"
	default:
		return "Ordering(" + strconv.Itoa(int(o)) + ")"
	}
}
