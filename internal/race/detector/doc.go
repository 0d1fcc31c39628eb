// Package detector implements FastTrack race detection for model executions.
//
// The model checker calls OnRead/OnWrite when a cell access begins and
// EndRead/EndWrite when it ends, and OnAcquire/OnRelease/OnReleaseMerge/
// OnRelaxedStore for every ordered atomic operation. Two independent checks
// run on each access:
//
//  1. Overlap: a write may not begin while any other access to the same cell
//     is live, and a read may not begin while a write is live. This catches
//     aliasing violations even on a single thread.
//  2. Happens-before: the previous write (and, for a write, the previous
//     reads) must happen-before the current access under the vector clocks
//     derived from spawn, join and acquire/release edges.
//
// # FastTrack Algorithm Overview
//
//   - Epoch: Compact (TID, Clock) pair for the last write and a single reader
//   - VectorClock: Full read history once concurrent readers appear
//   - Writes demote read history back to the epoch form
//
// # Thread Safety
//
// A Detector belongs to one model execution, which runs one thread at a time.
// It performs no locking.
//
// # Example Usage
//
//	d := detector.NewDetector()
//	ctx := goroutine.Alloc(0)
//	if r := d.OnWrite(cellID, ctx); r != nil {
//	    r.Format(os.Stderr)
//	}
//	d.EndWrite(cellID, ctx)
package detector
