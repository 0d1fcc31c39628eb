// Package loom defines the thread and atomic capability that spincell's
// primitives are written against.
//
// The cell and spin packages never start goroutines or touch sync/atomic
// directly. They receive a Runtime and use it to create their atomic flag and
// their access tracker. Two runtimes exist:
//
//   - Std runs on real goroutines and sync/atomic. Its tracker is a no-op, so
//     the cell costs one interface call per access.
//   - The model package's runtime replaces threads, atomics and the tracker
//     with instrumented versions driven by an interleaving explorer.
//
// Swapping runtimes never requires changing the primitives' code.
package loom
