// Package model explores the thread interleavings of a concurrent test and
// checks every cell access for data races.
//
// Check runs a function under a loom.Runtime whose threads, atomics and cell
// trackers are controlled by a scheduler. Only one virtual thread runs at a
// time; at every scheduling point (atomic operation, Spawn, Join, Yield,
// thread exit) the scheduler decides which thread continues. Check repeats
// the function until every sequence of decisions has been tried (depth-first,
// optionally preemption-bounded) or, in random mode, for a fixed number of
// randomly scheduled executions.
//
// # Race Detection
//
// Each cell access is checked with the FastTrack algorithm: the previous
// write (and, for a write, the previous reads) must happen-before the
// current access. Happens-before edges come from:
//
//   - Spawn: everything before Spawn happens-before the child
//   - Join: everything in the child happens-before Join returns
//   - Atomics: an Acquire read of a value written by a Release write
//
// A raw view that is still live when a conflicting access begins is also a
// race, even on one thread. The first race aborts the execution and Check
// returns a *RaceError describing both accesses.
//
// # Example
//
//	report, err := model.Check(func(rt loom.Runtime) {
//	    m := spin.New(rt, 0)
//	    h := rt.Spawn(func() {
//	        m.TryWith(func(v *int) { *v++ })
//	    })
//	    m.TryWith(func(v *int) { *v++ })
//	    h.Join()
//	})
//
// # Limitations
//
// Executions must be deterministic given the scheduling decisions: no real
// goroutines, timers or randomness inside the checked function. Atomics are
// executed in a sequentially consistent interleaving; weaker orderings show
// up only through the happens-before edges they fail to create. SeqCst is
// treated as AcqRel.
//
// A failed execution unwinds every thread by panicking with a private value.
// A deferred recover in the checked function must re-panic it (see IsAbort);
// a thread that swallows it keeps running outside the scheduler's control.
package model
