// Package vectorclock implements vector clocks for tracking happens-before relations
// between the virtual threads of a model execution.
//
// Key operations:
//   - Join: Synchronization (point-wise maximum) - used on acquire and join
//   - LessOrEqual: Happens-before check (partial order) - used for race detection
//
// The model checker never runs more than MaxThreads threads, so a clock is a
// small fixed-size array that can be copied by value.
package vectorclock

import (
	"strconv"
	"strings"
)

// MaxThreads is the maximum number of virtual threads in one execution.
//
// Interleaving exploration is exponential in the number of threads, so real
// models stay well below this limit. Keeping it small keeps clocks at 64 bytes.
const MaxThreads = 8

// VectorClock represents logical time across the threads of one execution.
//
// Each element vc[tid] stores the clock value for thread tid.
//
// Example: {0: 5, 1: 3} means Thread0@5, Thread1@3.
type VectorClock [MaxThreads]uint64

// New creates a zero-initialized vector clock.
func New() *VectorClock {
	return &VectorClock{}
}

// Clone creates a deep copy of the vector clock.
//
// Used when a snapshot of logical time must outlive further increments,
// for example the release clock stored on an atomic.
func (vc *VectorClock) Clone() *VectorClock {
	clone := *vc
	return &clone
}

// Join performs point-wise maximum: vc = vc ⊔ other.
//
// Used when a thread acquires: Ct := Ct ⊔ Lm.
func (vc *VectorClock) Join(other *VectorClock) {
	for i := range vc {
		if other[i] > vc[i] {
			vc[i] = other[i]
		}
	}
}

// LessOrEqual checks partial order: vc ⊑ other.
//
// Returns true if vc[i] <= other[i] for all threads i.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for i := range vc {
		if vc[i] > other[i] {
			return false
		}
	}
	return true
}

// Increment advances the clock for thread tid.
func (vc *VectorClock) Increment(tid uint8) {
	vc[tid]++
}

// Get returns the clock value for thread tid.
func (vc *VectorClock) Get(tid uint8) uint64 {
	return vc[tid]
}

// Set sets the clock value for thread tid.
func (vc *VectorClock) Set(tid uint8, clock uint64) {
	vc[tid] = clock
}

// String returns a debug representation showing only non-zero clocks.
//
// Example: "{0:5, 1:3}".
func (vc *VectorClock) String() string {
	var parts []string
	for i := range vc {
		if vc[i] != 0 {
			parts = append(parts, strconv.Itoa(i)+":"+strconv.FormatUint(vc[i], 10))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
