// Package shadowmem implements shadow memory for instrumented cells.
//
// Each cell observed by the model checker has one VarState recording the last
// write epoch, the read history (a single epoch, promoted to a vector clock
// when concurrent readers appear) and the accesses that are currently live.
//
// Shadow memory belongs to a single model execution. The scheduler runs one
// virtual thread at a time, so nothing here is guarded by locks.
package shadowmem
