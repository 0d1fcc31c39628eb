// Package cell provides Cell, a container granting raw access to a value.
//
// A Cell performs no synchronization. Every raw access goes through one of
// two functions, With and WithMut, so that the runtime's tracker sees each
// access begin and end. Under the model runtime that tracker is a race
// detector; under loom.Std it does nothing.
//
// The caller must ensure that a mutable access never overlaps any other
// access to the same cell. Pair a Cell with a lock (see package spin) when
// the value is shared.
package cell

import "github.com/kolkov/spincell/loom"

// Cell holds a value of type T accessed through With and WithMut.
type Cell[T any] struct {
	tracker loom.Tracker
	value   T
}

// New wraps value. A nil rt means loom.Std.
func New[T any](rt loom.Runtime, value T) *Cell[T] {
	return &Cell[T]{
		tracker: loom.OrStd(rt).NewTracker(),
		value:   value,
	}
}

// With calls fn with a read-only view of the value and returns its result.
//
// fn must not write through the pointer or keep it after returning.
func With[T, R any](c *Cell[T], fn func(*T) R) R {
	end := c.tracker.Read()
	defer end()
	return fn(&c.value)
}

// WithMut calls fn with a mutable view of the value and returns its result.
//
// fn must not keep the pointer after returning.
func WithMut[T, R any](c *Cell[T], fn func(*T) R) R {
	end := c.tracker.Write()
	defer end()
	return fn(&c.value)
}
