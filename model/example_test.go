package model_test

import (
	"errors"
	"fmt"

	"github.com/kolkov/spincell/cell"
	"github.com/kolkov/spincell/loom"
	"github.com/kolkov/spincell/model"
)

// Example checks a release/acquire handoff under every interleaving.
func Example() {
	_, err := model.Check(func(rt loom.Runtime) {
		ready := rt.NewBool(false)
		data := cell.New(rt, 0)

		h := rt.Spawn(func() {
			cell.WithMut(data, func(p *int) int { *p = 42; return *p })
			ready.Store(true, loom.Release)
		})

		if ready.Load(loom.Acquire) {
			if cell.With(data, func(p *int) int { return *p }) != 42 {
				panic("published value not visible")
			}
		}
		h.Join()
	})
	fmt.Println("race-free:", err == nil)

	// Output:
	// race-free: true
}

// Example_race shows the error returned when the handoff uses relaxed
// ordering.
func Example_race() {
	_, err := model.Check(func(rt loom.Runtime) {
		ready := rt.NewBool(false)
		data := cell.New(rt, 0)

		h := rt.Spawn(func() {
			cell.WithMut(data, func(p *int) int { *p = 42; return *p })
			ready.Store(true, loom.Relaxed)
		})

		if ready.Load(loom.Relaxed) {
			cell.With(data, func(p *int) int { return *p })
		}
		h.Join()
	})

	var race *model.RaceError
	fmt.Println(errors.As(err, &race), race.Kind)

	// Output:
	// true write-read
}
