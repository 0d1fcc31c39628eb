package detector

import (
	"github.com/kolkov/spincell/internal/race/epoch"
	"github.com/kolkov/spincell/internal/race/goroutine"
	"github.com/kolkov/spincell/internal/race/shadowmem"
	"github.com/kolkov/spincell/internal/race/stackdepot"
	"github.com/kolkov/spincell/internal/race/syncshadow"
	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// Stats tracks access and synchronization counts for one execution.
type Stats struct {
	TotalReads  uint64 // Cell reads.
	TotalWrites uint64 // Cell writes.
	Promotions  uint64 // Epoch → VectorClock read promotions.
	Demotions   uint64 // VectorClock → Epoch demotions (on write).
	Acquires    uint64 // Acquire-ordered atomic reads.
	Releases    uint64 // Release-ordered atomic writes (store or RMW).
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.TotalReads += other.TotalReads
	s.TotalWrites += other.TotalWrites
	s.Promotions += other.Promotions
	s.Demotions += other.Demotions
	s.Acquires += other.Acquires
	s.Releases += other.Releases
}

// Detector implements the FastTrack race detection algorithm over the cells
// and atomics of a single model execution.
type Detector struct {
	// shadowMemory stores VarState cells for all instrumented cells.
	shadowMemory *shadowmem.ShadowMemory

	// syncShadow stores SyncVar cells for all model atomics.
	syncShadow *syncshadow.SyncShadow

	stats Stats
}

// NewDetector creates and initializes a new race detector instance.
func NewDetector() *Detector {
	return &Detector{
		shadowMemory: shadowmem.NewShadowMemory(),
		syncShadow:   syncshadow.NewSyncShadow(),
	}
}

// OnRead handles the start of a read access to cell addr.
//
// Algorithm:
//
//  1. Overlap: a live write to the cell is a race.
//  2. [FT READ] The last write must happen-before this read.
//  3. Update read history (ADAPTIVE):
//     - same epoch: nothing to do
//     - same thread or ordered after the last reader: replace epoch
//     - concurrent with the last reader: promote to VectorClock
//     - already promoted: join the thread's clock
//  4. Mark the read live and advance the thread's clock.
//
// Returns nil when the access is race-free. On a race, shadow state is left
// untouched: the execution is about to be aborted.
func (d *Detector) OnRead(addr uintptr, ctx *goroutine.RaceContext) *RaceReport {
	vs := d.shadowMemory.GetOrCreate(addr)
	currentEpoch := ctx.GetEpoch()

	if live, ok := vs.LiveWriter(); ok {
		return NewRaceReport(RaceTypeWriteRead, addr, live, vs.WStack, currentEpoch, true)
	}

	if vs.W != 0 && !vs.W.HappensBefore(ctx.C) {
		return NewRaceReport(RaceTypeWriteRead, addr, vs.W, vs.WStack, currentEpoch, false)
	}

	d.stats.TotalReads++
	d.updateReadState(vs, ctx, currentEpoch)

	vs.RStack = stackdepot.CaptureStack(0)
	vs.BeginRead(currentEpoch)
	ctx.IncrementClock()
	return nil
}

//nolint:nestif // FastTrack adaptive algorithm requires nested conditions
func (d *Detector) updateReadState(vs *shadowmem.VarState, ctx *goroutine.RaceContext, currentEpoch epoch.Epoch) {
	if vs.IsPromoted() {
		vs.GetReadClock().Set(ctx.TID, ctx.C.Get(ctx.TID))
		return
	}

	existing := vs.GetReadEpoch()
	if existing == 0 || existing.Same(currentEpoch) {
		vs.SetReadEpoch(currentEpoch)
		return
	}

	if existing.TID() == ctx.TID || existing.HappensBefore(ctx.C) {
		vs.SetReadEpoch(currentEpoch)
		return
	}

	// Concurrent readers: keep both in a vector clock. Only the reader's own
	// slot is recorded, other slots would claim reads that never happened.
	reader := vectorclock.New()
	reader.Set(ctx.TID, ctx.C.Get(ctx.TID))
	vs.PromoteToReadClock(reader)
	d.stats.Promotions++
}

// EndRead handles the end of a read access started with OnRead.
func (d *Detector) EndRead(addr uintptr, ctx *goroutine.RaceContext) {
	d.shadowMemory.GetOrCreate(addr).EndRead(ctx.TID)
}

// OnWrite handles the start of a write access to cell addr.
//
// Algorithm:
//
//  1. Overlap: any live access to the cell is a race.
//  2. [FT WRITE] The last write must happen-before this write.
//  3. The read history (epoch or vector clock) must happen-before this write.
//  4. Record the write epoch, demote read history, mark the write live and
//     advance the thread's clock.
func (d *Detector) OnWrite(addr uintptr, ctx *goroutine.RaceContext) *RaceReport {
	vs := d.shadowMemory.GetOrCreate(addr)
	currentEpoch := ctx.GetEpoch()

	if live, ok := vs.LiveWriter(); ok {
		return NewRaceReport(RaceTypeWriteWrite, addr, live, vs.WStack, currentEpoch, true)
	}
	if live, ok := vs.LiveReader(); ok {
		return NewRaceReport(RaceTypeReadWrite, addr, live, vs.RStack, currentEpoch, true)
	}

	if vs.W != 0 && !vs.W.HappensBefore(ctx.C) {
		return NewRaceReport(RaceTypeWriteWrite, addr, vs.W, vs.WStack, currentEpoch, false)
	}

	if !vs.IsPromoted() {
		readEpoch := vs.GetReadEpoch()
		if readEpoch != 0 && !readEpoch.HappensBefore(ctx.C) {
			return NewRaceReport(RaceTypeReadWrite, addr, readEpoch, vs.RStack, currentEpoch, false)
		}
	} else if readClock := vs.GetReadClock(); !readClock.LessOrEqual(ctx.C) {
		return NewRaceReport(RaceTypeReadWrite, addr, concurrentReader(readClock, ctx.C), vs.RStack, currentEpoch, false)
	}

	if vs.IsPromoted() {
		d.stats.Demotions++
	}
	vs.Demote()

	d.stats.TotalWrites++
	vs.W = currentEpoch
	vs.WStack = stackdepot.CaptureStack(0)
	vs.BeginWrite(currentEpoch)
	ctx.IncrementClock()
	return nil
}

// EndWrite handles the end of a write access started with OnWrite.
func (d *Detector) EndWrite(addr uintptr, _ *goroutine.RaceContext) {
	d.shadowMemory.GetOrCreate(addr).EndWrite()
}

// concurrentReader returns the epoch of a read in readClock that does not
// happen-before current.
func concurrentReader(readClock, current *vectorclock.VectorClock) epoch.Epoch {
	for i := range readClock {
		if readClock[i] > current[i] {
			//nolint:gosec // G115: i < MaxThreads.
			return epoch.NewEpoch(uint8(i), readClock[i])
		}
	}
	return 0
}

// OnAcquire handles an acquire-ordered read of atomic addr.
//
// Algorithm: [FT ACQUIRE]  Ct := Ct ⊔ Lm, Ct[t]++.
// Without a published release clock there is nothing to synchronize with.
func (d *Detector) OnAcquire(addr uintptr, ctx *goroutine.RaceContext) {
	syncVar := d.syncShadow.GetOrCreate(addr)

	if releaseClock := syncVar.GetReleaseClock(); releaseClock != nil {
		ctx.C.Join(releaseClock)
	}

	d.stats.Acquires++
	ctx.IncrementClock()
}

// OnRelease handles a release-ordered store to atomic addr.
//
// Algorithm: [FT RELEASE]  Lm := Ct, Ct[t]++.
func (d *Detector) OnRelease(addr uintptr, ctx *goroutine.RaceContext) {
	d.syncShadow.GetOrCreate(addr).SetReleaseClock(ctx.C)
	d.stats.Releases++
	ctx.IncrementClock()
}

// OnReleaseMerge handles a release-ordered read-modify-write of atomic addr.
//
// Algorithm: Lm := Lm ⊔ Ct, Ct[t]++.
func (d *Detector) OnReleaseMerge(addr uintptr, ctx *goroutine.RaceContext) {
	d.syncShadow.GetOrCreate(addr).MergeReleaseClock(ctx.C)
	d.stats.Releases++
	ctx.IncrementClock()
}

// OnRelaxedStore handles a store without release ordering.
//
// The stored value heads no release sequence, so a later acquirer reading
// it synchronizes with nobody.
func (d *Detector) OnRelaxedStore(addr uintptr) {
	d.syncShadow.GetOrCreate(addr).ClearReleaseClock()
}

// Stats returns access and synchronization counts.
func (d *Detector) Stats() Stats {
	return d.stats
}
