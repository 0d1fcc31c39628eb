// Package spin provides Mutex, a mutual-exclusion lock built on one atomic
// flag, guarding a value stored in a cell.Cell.
//
// TryLock makes exactly one attempt: it swaps the flag to true with Acquire
// ordering and succeeds if the flag was false. The returned Guard is the only
// way to reach the value; Guard.Unlock stores false with Release ordering.
// Every write made while holding the guard is therefore visible to the next
// goroutine whose TryLock succeeds.
//
// TryLock never waits. Callers that want to wait use Acquire with a
// WaitStrategy, or their own loop.
//
//	if g, ok := m.TryLock(); ok {
//		defer g.Unlock()
//		*g.DerefMut() += 1
//	}
package spin

import (
	"errors"

	"github.com/kolkov/spincell/cell"
	"github.com/kolkov/spincell/loom"
)

// ErrGuardReleased is the panic value raised when a guard is used after Unlock.
var ErrGuardReleased = errors.New("spin: guard used after unlock")

// Mutex guards a value of type T.
//
// A *Mutex may be shared freely between goroutines. The zero value is not
// usable; create mutexes with New.
type Mutex[T any] struct {
	flag loom.AtomicBool
	cell *cell.Cell[T]
}

// Guard grants exclusive access to a Mutex's value until Unlock.
//
// A Guard belongs to the goroutine that acquired it and must not be shared.
type Guard[T any] struct {
	m        *Mutex[T]
	released bool
}

// New creates an unlocked mutex holding value. A nil rt means loom.Std.
func New[T any](rt loom.Runtime, value T) *Mutex[T] {
	rt = loom.OrStd(rt)
	return &Mutex[T]{
		flag: rt.NewBool(false),
		cell: cell.New(rt, value),
	}
}

// TryLock attempts to acquire the mutex once, without waiting.
//
// On success it returns a guard and true. If another guard is live it
// returns nil and false and leaves the mutex untouched.
func (m *Mutex[T]) TryLock() (*Guard[T], bool) {
	if m.flag.Swap(true, loom.Acquire) {
		return nil, false
	}
	return &Guard[T]{m: m}, true
}

// TryWith runs fn with exclusive access to the value if the mutex can be
// acquired right now, and reports whether fn ran. The mutex is released when
// fn returns or panics.
func (m *Mutex[T]) TryWith(fn func(v *T)) bool {
	g, ok := m.TryLock()
	if !ok {
		return false
	}
	defer g.Unlock()
	fn(g.DerefMut())
	return true
}

// Locked reports whether a guard is live. The answer may be stale by the
// time it is returned; use it for diagnostics only.
func (m *Mutex[T]) Locked() bool {
	return m.flag.Load(loom.Relaxed)
}

// Deref returns a read-only pointer to the guarded value.
//
// The pointer is valid until Unlock and must not be written through.
func (g *Guard[T]) Deref() *T {
	g.check()
	return cell.With(g.m.cell, func(p *T) *T { return p })
}

// DerefMut returns a mutable pointer to the guarded value, valid until Unlock.
func (g *Guard[T]) DerefMut() *T {
	g.check()
	return cell.WithMut(g.m.cell, func(p *T) *T { return p })
}

// Unlock releases the mutex. Only the first call has an effect, so
// `defer g.Unlock()` stays safe after an explicit early Unlock.
func (g *Guard[T]) Unlock() {
	if g.released {
		return
	}
	g.released = true
	g.m.flag.Store(false, loom.Release)
}

func (g *Guard[T]) check() {
	if g.released {
		panic(ErrGuardReleased)
	}
}
