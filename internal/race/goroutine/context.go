package goroutine

import (
	"github.com/kolkov/spincell/internal/race/epoch"
	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// RaceContext represents the race detection state for a single virtual thread.
//
// Invariant: Epoch must ALWAYS equal epoch.NewEpoch(TID, C[TID]).
// This invariant is maintained by IncrementClock.
type RaceContext struct {
	// TID is the thread identifier within one execution.
	TID uint8

	// C is the full vector clock tracking logical time for all threads.
	C *vectorclock.VectorClock

	// Epoch is the cached epoch for this thread: Epoch == C[TID].
	Epoch epoch.Epoch
}

// Alloc creates and initializes a new RaceContext for the given thread ID.
//
// The thread's own clock starts at 1 so that its first access never encodes
// to the zero epoch, which shadow memory uses as "no access yet".
//
// Example:
//
//	ctx := Alloc(5)
//	// ctx.C = {5:1}
//	// ctx.Epoch = 1@5
func Alloc(tid uint8) *RaceContext {
	ctx := &RaceContext{
		TID: tid,
		C:   vectorclock.New(),
	}
	ctx.C.Set(tid, 1)
	ctx.Epoch = epoch.NewEpoch(tid, 1)
	return ctx
}

// IncrementClock advances the logical clock for this thread.
//
// Updates C[TID] and then the cached epoch so that the invariant holds.
func (rc *RaceContext) IncrementClock() {
	rc.C.Increment(rc.TID)
	rc.Epoch = epoch.NewEpoch(rc.TID, rc.C.Get(rc.TID))
}

// GetEpoch returns the cached epoch for this thread.
func (rc *RaceContext) GetEpoch() epoch.Epoch {
	return rc.Epoch
}

// Fork creates the context of a thread spawned by rc.
//
// Everything the parent did before the spawn happens-before everything the
// child does: the child starts from a copy of the parent's clock. The
// parent's clock is then advanced so that its later accesses are concurrent
// with the child.
func (rc *RaceContext) Fork(childTID uint8) *RaceContext {
	child := &RaceContext{
		TID: childTID,
		C:   rc.C.Clone(),
	}
	child.C.Set(childTID, child.C.Get(childTID)+1)
	child.Epoch = epoch.NewEpoch(childTID, child.C.Get(childTID))

	rc.IncrementClock()
	return child
}

// JoinThread records that rc observed the completion of other.
//
// Everything other did happens-before rc's next operation.
func (rc *RaceContext) JoinThread(other *RaceContext) {
	rc.C.Join(other.C)
	rc.IncrementClock()
}
