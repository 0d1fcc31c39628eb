// Package goroutine implements per-thread race detection state for the model.
//
// RaceContext maintains the logical clock and cached epoch for each virtual
// thread of a model execution, enabling efficient happens-before tracking.
// Each thread gets its own RaceContext which stores:
//   - TID: Thread ID, unique within one execution
//   - C: Full vector clock tracking all threads
//   - Epoch: Cached C[TID] for O(1) fast-path access
//
// Spawn and join edges are expressed with Fork and JoinThread; acquire and
// release edges are handled by the detector through syncshadow.
package goroutine
