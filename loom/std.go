package loom

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Std is the Runtime backed by goroutines and sync/atomic.
//
// Go's atomics are sequentially consistent, which satisfies every Ordering.
// Orderings are accepted and ignored.
var Std Runtime = stdRuntime{}

type stdRuntime struct{}

func (stdRuntime) Spawn(fn func()) JoinHandle {
	h := &stdHandle{}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		fn()
	}()
	return h
}

func (stdRuntime) Yield() {
	runtime.Gosched()
}

func (stdRuntime) NewBool(v bool) AtomicBool {
	b := &stdBool{}
	b.v.Store(v)
	return b
}

func (stdRuntime) NewTracker() Tracker {
	return noopTracker{}
}

type stdHandle struct {
	wg sync.WaitGroup
}

func (h *stdHandle) Join() {
	h.wg.Wait()
}

type stdBool struct {
	v atomic.Bool
}

func (b *stdBool) Load(Ordering) bool {
	return b.v.Load()
}

func (b *stdBool) Store(v bool, _ Ordering) {
	b.v.Store(v)
}

func (b *stdBool) Swap(v bool, _ Ordering) bool {
	return b.v.Swap(v)
}

func (b *stdBool) CompareAndSwap(old, new bool, _, _ Ordering) bool {
	return b.v.CompareAndSwap(old, new)
}

type noopTracker struct{}

func noop() {}

func (noopTracker) Read() func()  { return noop }
func (noopTracker) Write() func() { return noop }

// OrStd returns rt, or Std when rt is nil.
func OrStd(rt Runtime) Runtime {
	if rt == nil {
		return Std
	}
	return rt
}
