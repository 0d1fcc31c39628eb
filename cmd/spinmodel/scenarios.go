package main

import (
	"context"
	"fmt"

	"github.com/kolkov/spincell/cell"
	"github.com/kolkov/spincell/loom"
	"github.com/kolkov/spincell/spin"
)

// scenario is a model test with its expected outcome.
type scenario struct {
	name     string
	about    string
	wantRace bool
	fn       func(rt loom.Runtime)
}

var scenarios = []scenario{
	{
		name:  "exclusion",
		about: "two threads increment under the mutex",
		fn:    exclusion,
	},
	{
		name:  "visibility",
		about: "a value written under the mutex is seen by the next holder",
		fn:    visibility,
	},
	{
		name:     "relaxed",
		about:    "a lock without acquire/release ordering races",
		wantRace: true,
		fn:       relaxed,
	},
}

func exclusion(rt loom.Runtime) {
	m := spin.New(rt, 0)

	inc := func() {
		g, err := spin.Acquire(context.Background(), m, spin.YieldStrategy{Runtime: rt})
		if err != nil {
			panic(err)
		}
		defer g.Unlock()
		*g.DerefMut()++
	}
	h := rt.Spawn(inc)
	inc()
	h.Join()

	g, ok := m.TryLock()
	if !ok {
		panic("mutex held after every thread returned")
	}
	defer g.Unlock()
	if v := *g.Deref(); v != 2 {
		panic(fmt.Sprintf("counter = %d, want 2", v))
	}
}

func visibility(rt loom.Runtime) {
	m := spin.New(rt, 0)

	h := rt.Spawn(func() {
		m.TryWith(func(v *int) { *v = 1 })
	})

	// Either this thread wins first and sees 0, or it sees the write.
	for {
		var seen int
		if m.TryWith(func(v *int) { seen = *v }) {
			if seen != 0 && seen != 1 {
				panic(fmt.Sprintf("observed %d", seen))
			}
			break
		}
		rt.Yield()
	}
	h.Join()
}

func relaxed(rt loom.Runtime) {
	flag := rt.NewBool(false)
	c := cell.New(rt, 0)

	inc := func() {
		for flag.Swap(true, loom.Relaxed) {
			rt.Yield()
		}
		cell.WithMut(c, func(v *int) int { *v++; return *v })
		flag.Store(false, loom.Relaxed)
	}
	h := rt.Spawn(inc)
	inc()
	h.Join()
}
