package model_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/spincell/cell"
	"github.com/kolkov/spincell/loom"
	"github.com/kolkov/spincell/model"
)

func write(c *cell.Cell[int], v int) {
	cell.WithMut(c, func(p *int) struct{} { *p = v; return struct{}{} })
}

func read(c *cell.Cell[int]) int {
	return cell.With(c, func(p *int) int { return *p })
}

func TestCheck_SingleThread(t *testing.T) {
	report, err := model.Check(func(rt loom.Runtime) {
		c := cell.New(rt, 0)
		write(c, 1)
		if read(c) != 1 {
			panic("lost write")
		}
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Executions)
	assert.Equal(t, uint64(1), report.Stats.TotalWrites)
	assert.Equal(t, uint64(1), report.Stats.TotalReads)
	assert.NotEqual(t, [16]byte{}, [16]byte(report.ID))
}

func TestCheck_SpawnJoinOrdersAccesses(t *testing.T) {
	report, err := model.Check(func(rt loom.Runtime) {
		c := cell.New(rt, 0)
		write(c, 1)

		h := rt.Spawn(func() {
			if read(c) != 1 {
				panic("child missed parent's write")
			}
			write(c, 2)
		})
		h.Join()

		if read(c) != 2 {
			panic("parent missed child's write")
		}
	})

	require.NoError(t, err)
	assert.Greater(t, report.Executions, 1)
}

func TestCheck_UnsynchronizedWrites(t *testing.T) {
	var out bytes.Buffer
	cfg := model.DefaultConfig()
	cfg.Output = &out

	report, err := model.Check(func(rt loom.Runtime) {
		c := cell.New(rt, 0)
		h := rt.Spawn(func() { write(c, 1) })
		write(c, 2)
		h.Join()
	}, cfg)

	var race *model.RaceError
	require.ErrorAs(t, err, &race)
	assert.Equal(t, "write-write", race.Kind)
	assert.False(t, race.Overlap)
	assert.ElementsMatch(t, []uint8{0, 1}, race.Threads[:])

	var exec *model.ExecutionError
	require.ErrorAs(t, err, &exec)
	assert.Equal(t, report.Executions, exec.Execution)
	assert.NotEmpty(t, exec.Schedule)
	assert.Same(t, err, report.Failure)

	assert.Contains(t, out.String(), "WARNING: DATA RACE")
	assert.Contains(t, out.String(), "FAILED")
}

func TestCheck_OverlappingViews(t *testing.T) {
	_, err := model.Check(func(rt loom.Runtime) {
		c := cell.New(rt, 0)
		cell.WithMut(c, func(p *int) int {
			return read(c)
		})
	})

	var race *model.RaceError
	require.ErrorAs(t, err, &race)
	assert.True(t, race.Overlap)
	assert.Equal(t, "write-read", race.Kind)
	assert.Equal(t, [2]uint8{0, 0}, race.Threads)
}

// relaxedLock is a lock whose flag operations carry no ordering. It excludes
// but does not publish.
type relaxedLock struct {
	flag loom.AtomicBool
}

func (l *relaxedLock) lock(rt loom.Runtime) {
	for l.flag.Swap(true, loom.Relaxed) {
		rt.Yield()
	}
}

func (l *relaxedLock) unlock() {
	l.flag.Store(false, loom.Relaxed)
}

func TestCheck_RelaxedLockRaces(t *testing.T) {
	_, err := model.Check(func(rt loom.Runtime) {
		l := &relaxedLock{flag: rt.NewBool(false)}
		c := cell.New(rt, 0)

		inc := func() {
			l.lock(rt)
			write(c, read(c)+1)
			l.unlock()
		}
		h := rt.Spawn(inc)
		inc()
		h.Join()
	})

	var race *model.RaceError
	require.ErrorAs(t, err, &race)
	assert.False(t, race.Overlap)
}

// orderedLock is relaxedLock with acquire/release ordering.
type orderedLock struct {
	flag loom.AtomicBool
}

func (l *orderedLock) lock(rt loom.Runtime) {
	for !l.flag.CompareAndSwap(false, true, loom.Acquire, loom.Relaxed) {
		rt.Yield()
	}
}

func (l *orderedLock) unlock() {
	l.flag.Store(false, loom.Release)
}

func TestCheck_OrderedLockIsRaceFree(t *testing.T) {
	report, err := model.Check(func(rt loom.Runtime) {
		l := &orderedLock{flag: rt.NewBool(false)}
		c := cell.New(rt, 0)

		inc := func() {
			l.lock(rt)
			write(c, read(c)+1)
			l.unlock()
		}
		h1 := rt.Spawn(inc)
		h2 := rt.Spawn(inc)
		h1.Join()
		h2.Join()

		if got := read(c); got != 2 {
			panic(errors.New("lost increment"))
		}
	})

	require.NoError(t, err)
	assert.Greater(t, report.Executions, 1)
	assert.Positive(t, report.Stats.Acquires)
	assert.Positive(t, report.Stats.Releases)
}

func TestCheck_PreemptionBoundPrunes(t *testing.T) {
	scenario := func(rt loom.Runtime) {
		a, b := rt.NewBool(false), rt.NewBool(false)
		h := rt.Spawn(func() {
			a.Store(true, loom.Release)
			b.Store(true, loom.Release)
		})
		a.Store(false, loom.Release)
		b.Store(false, loom.Release)
		h.Join()
	}

	unbounded, err := model.Check(scenario)
	require.NoError(t, err)

	cfg := model.DefaultConfig()
	cfg.PreemptionBound = 0
	bounded, err := model.Check(scenario, cfg)
	require.NoError(t, err)

	assert.Greater(t, unbounded.Executions, bounded.Executions)
	assert.GreaterOrEqual(t, bounded.Executions, 1)
}

func TestCheck_Deadlock(t *testing.T) {
	_, err := model.Check(func(rt loom.Runtime) {
		var self loom.JoinHandle
		self = rt.Spawn(func() {
			for self == nil {
				rt.Yield()
			}
			self.Join()
		})
		self.Join()
	})

	require.ErrorIs(t, err, model.ErrDeadlock)
}

func TestCheck_Panic(t *testing.T) {
	_, err := model.Check(func(rt loom.Runtime) {
		rt.Spawn(func() { panic("boom") }).Join()
	})

	var p *model.PanicError
	require.ErrorAs(t, err, &p)
	assert.Equal(t, "boom", p.Value)
	assert.Equal(t, uint8(1), p.Thread)
	assert.NotEmpty(t, p.Stack)
}

func TestCheck_PanicUnwrapsError(t *testing.T) {
	sentinel := errors.New("sentinel")
	_, err := model.Check(func(rt loom.Runtime) {
		panic(sentinel)
	})

	require.ErrorIs(t, err, sentinel)
}

func TestCheck_MaxBranches(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.MaxBranches = 50

	_, err := model.Check(func(rt loom.Runtime) {
		never := rt.NewBool(false)
		for !never.Load(loom.Acquire) {
			rt.Yield()
		}
	}, cfg)

	require.ErrorIs(t, err, model.ErrMaxBranches)
}

func TestCheck_TooManyThreads(t *testing.T) {
	_, err := model.Check(func(rt loom.Runtime) {
		for range model.MaxThreads {
			rt.Spawn(func() {})
		}
	})

	require.ErrorIs(t, err, model.ErrTooManyThreads)
}

func TestCheck_RandomMode(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Iterations = 20
	cfg.Seed = 7

	report, err := model.Check(func(rt loom.Runtime) {
		b := rt.NewBool(false)
		h := rt.Spawn(func() { b.Store(true, loom.Release) })
		b.Load(loom.Acquire)
		h.Join()
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, 20, report.Executions)
}

func TestCheck_MaxExecutions(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.MaxExecutions = 2

	report, err := model.Check(func(rt loom.Runtime) {
		b := rt.NewBool(false)
		h := rt.Spawn(func() {
			b.Store(true, loom.Release)
			b.Store(false, loom.Release)
		})
		b.Load(loom.Acquire)
		b.Load(loom.Acquire)
		h.Join()
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Executions)
}

func TestCheck_InvalidConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.MaxBranches = 0

	report, err := model.Check(func(loom.Runtime) {}, cfg)
	require.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Nil(t, report)
}

func TestReport_WriteOK(t *testing.T) {
	var out bytes.Buffer
	cfg := model.DefaultConfig()
	cfg.Output = &out

	report, err := model.Check(func(loom.Runtime) {}, cfg)
	require.NoError(t, err)

	assert.Contains(t, out.String(), report.ID.String())
	assert.Contains(t, out.String(), "executions:  1")
	assert.Contains(t, out.String(), "0 promotions, 0 demotions")
	assert.Contains(t, out.String(), "ok")
	assert.NotContains(t, out.String(), "DATA RACE")
}

func TestCheck_RecoverRepanicsAbort(t *testing.T) {
	var sawAbort bool

	_, err := model.Check(func(rt loom.Runtime) {
		c := cell.New(rt, 0)
		h := rt.Spawn(func() {
			defer func() {
				r := recover()
				if model.IsAbort(r) {
					sawAbort = true
					panic(r)
				}
			}()
			write(c, 1)
		})
		write(c, 2)
		h.Join()
	})

	var race *model.RaceError
	require.ErrorAs(t, err, &race)
	assert.True(t, sawAbort)
	assert.False(t, model.IsAbort(nil))
	assert.False(t, model.IsAbort("boom"))
}

// A thread's clock must keep its order after more than 2^24 cell accesses:
// the late write below follows an acquire that observed an early clock.
func TestCheck_RaceAfterLongPrivateHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("performs 2^24 cell accesses")
	}

	cfg := model.DefaultConfig()
	cfg.PreemptionBound = 0

	_, err := model.Check(func(rt loom.Runtime) {
		published := rt.NewBool(false)
		done := rt.NewBool(false)
		private := cell.New(rt, 0)
		shared := cell.New(rt, 0)

		h := rt.Spawn(func() {
			for range 100 {
				read(private)
			}
			published.Store(true, loom.Release)
			for range 1<<24 - 60 {
				read(private)
			}
			write(shared, 1)
			done.Store(true, loom.Relaxed)
		})

		for !published.Load(loom.Acquire) {
			rt.Yield()
		}
		for !done.Load(loom.Relaxed) {
			rt.Yield()
		}
		write(shared, 2)
		h.Join()
	}, cfg)

	var race *model.RaceError
	require.ErrorAs(t, err, &race)
	assert.Equal(t, "write-write", race.Kind)
	assert.Equal(t, [2]uint8{1, 0}, race.Threads)
}
