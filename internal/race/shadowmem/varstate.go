package shadowmem

import (
	"github.com/kolkov/spincell/internal/race/epoch"
	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// VarState stores the access state for a single cell using adaptive representation.
//
// ADAPTIVE REPRESENTATION:
//   - Common case: one reader at a time, tracked as a single Epoch.
//   - Concurrent readers: promoted to a VectorClock (readClock != nil).
//   - A write demotes back to the epoch form (write dominates all reads).
//
// Live accesses are tracked separately from history: a With/WithMut callback
// that has begun but not yet returned counts as live.
type VarState struct {
	W      epoch.Epoch // Last write epoch (zero when never written).
	WStack uint64      // stackdepot hash of the last write.

	readEpoch epoch.Epoch              // Single reader (fast path).
	readClock *vectorclock.VectorClock // Multiple readers (promoted).
	RStack    uint64                   // stackdepot hash of the last read.

	liveReaders []epoch.Epoch // Reads in progress.
	liveWriter  epoch.Epoch   // Write in progress (zero when none).
	writing     bool
}

// NewVarState creates a new zero-initialized variable state.
func NewVarState() *VarState {
	return &VarState{}
}

// IsPromoted returns true if VarState uses a VectorClock for reads.
func (vs *VarState) IsPromoted() bool {
	return vs.readClock != nil
}

// PromoteToReadClock upgrades from single-reader Epoch to multi-reader VectorClock.
//
// The existing reader is copied into the clock, then the new reader's clock
// is merged in.
func (vs *VarState) PromoteToReadClock(newReadVC *vectorclock.VectorClock) {
	vs.readClock = vectorclock.New()

	if vs.readEpoch != 0 {
		tid, clock := vs.readEpoch.Decode()
		vs.readClock.Set(tid, clock)
	}

	vs.readClock.Join(newReadVC)
	vs.readEpoch = 0
}

// GetReadEpoch returns the read epoch (fast path only).
//
// Returns 0 if promoted.
func (vs *VarState) GetReadEpoch() epoch.Epoch {
	return vs.readEpoch
}

// SetReadEpoch sets the read epoch. No-op when promoted.
func (vs *VarState) SetReadEpoch(e epoch.Epoch) {
	if vs.readClock == nil {
		vs.readEpoch = e
	}
}

// GetReadClock returns the read VectorClock, nil unless promoted.
func (vs *VarState) GetReadClock() *vectorclock.VectorClock {
	return vs.readClock
}

// Demote clears read tracking and returns to the epoch form.
func (vs *VarState) Demote() {
	vs.readEpoch = 0
	vs.readClock = nil
}

// BeginRead marks a read by e as live.
func (vs *VarState) BeginRead(e epoch.Epoch) {
	vs.liveReaders = append(vs.liveReaders, e)
}

// EndRead removes one live read by thread tid.
func (vs *VarState) EndRead(tid uint8) {
	for i := len(vs.liveReaders) - 1; i >= 0; i-- {
		if vs.liveReaders[i].TID() == tid {
			vs.liveReaders = append(vs.liveReaders[:i], vs.liveReaders[i+1:]...)
			return
		}
	}
}

// BeginWrite marks a write by e as live.
func (vs *VarState) BeginWrite(e epoch.Epoch) {
	vs.liveWriter = e
	vs.writing = true
}

// EndWrite clears the live write.
func (vs *VarState) EndWrite() {
	vs.liveWriter = 0
	vs.writing = false
}

// LiveWriter returns the epoch of the write in progress, if any.
func (vs *VarState) LiveWriter() (epoch.Epoch, bool) {
	return vs.liveWriter, vs.writing
}

// LiveReader returns the epoch of some read in progress, if any.
func (vs *VarState) LiveReader() (epoch.Epoch, bool) {
	if len(vs.liveReaders) == 0 {
		return 0, false
	}
	return vs.liveReaders[len(vs.liveReaders)-1], true
}

// String returns a debug representation of the variable state.
//
// Format:
//   - Unpromoted: "W:<epoch> R:<epoch>"
//   - Promoted: "W:<epoch> R:<vectorclock> [PROMOTED]"
func (vs *VarState) String() string {
	wStr := "W:" + vs.W.String()

	if vs.readClock != nil {
		return wStr + " R:" + vs.readClock.String() + " [PROMOTED]"
	}

	return wStr + " R:" + vs.readEpoch.String()
}
