// Package syncshadow implements shadow state for model atomics.
//
// Every atomic created inside a model execution has a SyncVar holding the
// release clock: the vector clock published by the last release-ordered write.
// Acquire-ordered reads join that clock into the reading thread, which is how
// the model derives the release/acquire synchronizes-with edge.
//
// Algorithm:
//
//	Acquire(m):  Ct := Ct ⊔ Lm  (thread clock joins release clock)
//	             Ct[t]++
//
//	Release(m):  Lm := Ct        (store: release clock = thread clock)
//	             Ct[t]++
//
//	ReleaseMerge(m): Lm := Lm ⊔ Ct  (read-modify-write continues the
//	                                 release sequence of earlier stores)
//
//	Relaxed store: Lm := ⊥       (breaks the release sequence)
//
// Example:
//
//	// Thread 1
//	flag.Swap(true, Acquire)   // Acquire: C1 ⊔= L_flag
//	x = 42                     // Write at C1
//	flag.Store(false, Release) // Release: L_flag = C1
//
//	// Thread 2
//	flag.Swap(true, Acquire)   // C2 ⊔= L_flag (gets Thread 1's clock)
//	y = x                      // NO RACE
package syncshadow
