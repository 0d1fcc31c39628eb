package syncshadow

import (
	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// SyncVar tracks happens-before relationships for one atomic.
//
// releaseClock is nil until the first release-ordered write, and again after
// a relaxed store overwrote the value: a reader acquiring that value
// synchronizes with nobody.
type SyncVar struct {
	releaseClock *vectorclock.VectorClock
}

// GetReleaseClock returns the release clock, or nil if none is published.
func (sv *SyncVar) GetReleaseClock() *vectorclock.VectorClock {
	return sv.releaseClock
}

// SetReleaseClock replaces the release clock with a copy of clock.
//
// The copy is required: the thread keeps advancing its own clock after the
// release, and those later events must not become visible to acquirers.
func (sv *SyncVar) SetReleaseClock(clock *vectorclock.VectorClock) {
	if sv.releaseClock == nil {
		sv.releaseClock = clock.Clone()
		return
	}
	*sv.releaseClock = *clock
}

// MergeReleaseClock joins clock into the release clock.
//
// Used by release-ordered read-modify-write operations, which extend the
// release sequence headed by an earlier release store.
func (sv *SyncVar) MergeReleaseClock(clock *vectorclock.VectorClock) {
	if sv.releaseClock == nil {
		sv.releaseClock = clock.Clone()
		return
	}
	sv.releaseClock.Join(clock)
}

// ClearReleaseClock drops the release clock.
func (sv *SyncVar) ClearReleaseClock() {
	sv.releaseClock = nil
}
