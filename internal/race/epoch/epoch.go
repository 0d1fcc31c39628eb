// Package epoch implements 64-bit logical timestamps for the model's race detector.
//
// Epoch represents a single thread's logical time as a compact 64-bit value:
// - Top 8 bits: Thread ID
// - Bottom 56 bits: Clock value
//
// This encoding gives O(1) happens-before checks against a vector clock.
// Every cell access advances its thread's clock, so the clock field must not
// wrap within one execution: 56 bits cannot be exhausted in practice.
package epoch

import (
	"strconv"

	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// Epoch is a 64-bit logical timestamp encoding both thread ID and clock value.
// Layout: [TID:8][Clock:56]
//
// Example: 0x0500000000001234 represents TID=5, Clock=0x1234 (4660 decimal).
//
// The zero Epoch (TID=0, Clock=0) doubles as "no access recorded": thread
// contexts start at clock 1, so no real access carries it.
type Epoch uint64

const (
	// TIDBits is the number of bits allocated for thread ID.
	TIDBits = 8

	// ClockBits is the number of bits allocated for clock value.
	ClockBits = 56

	// ClockMask is the bitmask for extracting clock value.
	ClockMask = (1 << ClockBits) - 1
)

// NewEpoch creates an epoch from thread ID and clock value.
//
// Clock values beyond 56 bits are truncated.
func NewEpoch(tid uint8, clock uint64) Epoch {
	return Epoch(uint64(tid)<<ClockBits | (clock & ClockMask))
}

// Decode extracts the thread ID and clock value from an epoch.
func (e Epoch) Decode() (tid uint8, clock uint64) {
	//nolint:gosec // G115: Intentional truncation to extract top 8 bits as TID.
	tid = uint8(e >> ClockBits)
	clock = uint64(e) & ClockMask
	return
}

// TID returns the thread ID part of the epoch.
func (e Epoch) TID() uint8 {
	tid, _ := e.Decode()
	return tid
}

// HappensBefore checks if this epoch happened before a vector clock.
//
// Returns true if epoch's clock <= vc[epoch's TID].
func (e Epoch) HappensBefore(vc *vectorclock.VectorClock) bool {
	tid, clock := e.Decode()
	return clock <= vc.Get(tid)
}

// Same checks if two epochs are identical (same TID and clock).
func (e Epoch) Same(other Epoch) bool {
	return e == other
}

// String returns a human-readable representation of the epoch.
//
// Format: "clock@tid" (e.g., "42@5" means clock=42, tid=5).
func (e Epoch) String() string {
	tid, clock := e.Decode()
	return strconv.FormatUint(clock, 10) + "@" + strconv.Itoa(int(tid))
}
