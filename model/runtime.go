package model

import (
	"fmt"

	"github.com/kolkov/spincell/loom"
)

// modelRuntime is the loom.Runtime handed to the checked function.
type modelRuntime struct {
	e *execution
}

var _ loom.Runtime = (*modelRuntime)(nil)

// self returns the calling thread. Primitives created by one thread are
// used by others, so atomics and trackers look the caller up through the
// execution rather than the runtime they were created from.
func (e *execution) self() *thread {
	return e.current
}

func (r *modelRuntime) Spawn(fn func()) loom.JoinHandle {
	e := r.e
	e.checkAbort()
	cur := e.self()

	if len(e.threads) >= MaxThreads {
		e.failAndUnwind(fmt.Errorf("%w: more than %d", ErrTooManyThreads, MaxThreads))
	}

	//nolint:gosec // G115: len(e.threads) < MaxThreads.
	child := e.newThread(cur.ctx.Fork(uint8(len(e.threads))))
	e.start(child, func(*thread) { fn() })

	e.schedule(cur, false)
	return &joinHandle{e: e, t: child}
}

func (r *modelRuntime) Yield() {
	r.e.schedule(r.e.self(), true)
}

func (r *modelRuntime) NewBool(v bool) loom.AtomicBool {
	r.e.checkAbort()
	return &atomicBool{e: r.e, addr: r.e.newObject(), v: v}
}

func (r *modelRuntime) NewTracker() loom.Tracker {
	r.e.checkAbort()
	return &tracker{e: r.e, addr: r.e.newObject()}
}

type joinHandle struct {
	e *execution
	t *thread
}

func (h *joinHandle) Join() {
	e := h.e
	cur := e.self()
	e.schedule(cur, false)

	for h.t.state != finished {
		cur.state = blocked
		h.t.joiners = append(h.t.joiners, cur)
		e.schedule(cur, false)
	}
	cur.ctx.JoinThread(h.t.ctx)
}

// atomicBool is a model atomic. Every operation is a scheduling point; the
// operation itself then runs without interruption.
type atomicBool struct {
	e    *execution
	addr uintptr
	v    bool
}

func (b *atomicBool) Load(order loom.Ordering) bool {
	t := b.begin()
	if order.Acquires() {
		b.e.det.OnAcquire(b.addr, t.ctx)
	}
	return b.v
}

func (b *atomicBool) Store(v bool, order loom.Ordering) {
	t := b.begin()
	if order.Releases() {
		b.e.det.OnRelease(b.addr, t.ctx)
	} else {
		b.e.det.OnRelaxedStore(b.addr)
	}
	b.v = v
}

func (b *atomicBool) Swap(v bool, order loom.Ordering) bool {
	t := b.begin()
	old := b.v
	b.rmw(t, order)
	b.v = v
	return old
}

func (b *atomicBool) CompareAndSwap(old, new bool, success, failure loom.Ordering) bool {
	t := b.begin()
	if b.v != old {
		if failure.Acquires() {
			b.e.det.OnAcquire(b.addr, t.ctx)
		}
		return false
	}
	b.rmw(t, success)
	b.v = new
	return true
}

func (b *atomicBool) begin() *thread {
	t := b.e.self()
	b.e.schedule(t, false)
	return t
}

// rmw applies the synchronization of a read-modify-write. A relaxed RMW
// continues the release sequence it reads from, so the release clock is
// left as is.
func (b *atomicBool) rmw(t *thread, order loom.Ordering) {
	if order.Acquires() {
		b.e.det.OnAcquire(b.addr, t.ctx)
	}
	if order.Releases() {
		b.e.det.OnReleaseMerge(b.addr, t.ctx)
	}
}

// tracker reports a cell's raw accesses to the execution's detector.
type tracker struct {
	e    *execution
	addr uintptr
}

func (c *tracker) Read() func() {
	e := c.e
	e.checkAbort()
	t := e.self()
	if report := e.det.OnRead(c.addr, t.ctx); report != nil {
		e.failAndUnwind(newRaceError(report))
	}
	return func() {
		if !e.aborted.Load() {
			e.det.EndRead(c.addr, t.ctx)
		}
	}
}

func (c *tracker) Write() func() {
	e := c.e
	e.checkAbort()
	t := e.self()
	if report := e.det.OnWrite(c.addr, t.ctx); report != nil {
		e.failAndUnwind(newRaceError(report))
	}
	return func() {
		if !e.aborted.Load() {
			e.det.EndWrite(c.addr, t.ctx)
		}
	}
}
