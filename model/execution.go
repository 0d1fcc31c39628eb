package model

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/kolkov/spincell/internal/race/detector"
	"github.com/kolkov/spincell/internal/race/goroutine"
	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// MaxThreads is the number of threads one execution may have, including the
// thread running the checked function.
const MaxThreads = vectorclock.MaxThreads

type threadState int

const (
	runnable threadState = iota
	blocked
	finished
)

// thread is a virtual thread. It runs on its own goroutine but only while it
// holds the baton: the scheduler wakes exactly one thread at a time.
type thread struct {
	id      uint8
	ctx     *goroutine.RaceContext
	wake    chan struct{}
	state   threadState
	yielded bool
	joiners []*thread
}

// abortSignal unwinds a thread's goroutine after the execution failed.
type abortSignal struct{}

// IsAbort reports whether r, a value returned by recover, is the signal that
// unwinds the threads of a failed execution. Code run under Check that
// recovers panics must re-panic it:
//
//	defer func() {
//	    if r := recover(); model.IsAbort(r) {
//	        panic(r)
//	    }
//	}()
func IsAbort(r any) bool {
	_, ok := r.(abortSignal)
	return ok
}

// execution is one run of the checked function under one schedule.
//
// Fields other than aborted, abort and done are only touched by the thread
// holding the baton.
type execution struct {
	cfg  Config
	path *path
	det  *detector.Detector

	threads     []*thread
	current     *thread
	preemptions int
	steps       int
	trace       []uint8
	nextObj     uintptr

	mu      sync.Mutex
	failure error
	aborted atomic.Bool
	abort   chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

func newExecution(cfg Config, p *path) *execution {
	return &execution{
		cfg:   cfg,
		path:  p,
		det:   detector.NewDetector(),
		abort: make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// run executes fn as thread 0 and waits for every thread to exit.
// It returns the execution's failure, if any.
func (e *execution) run(fn func(*thread)) error {
	root := e.newThread(goroutine.Alloc(0))
	e.current = root
	e.trace = append(e.trace, root.id)
	e.start(root, fn)
	root.wake <- struct{}{}

	select {
	case <-e.done:
	case <-e.abort:
	}
	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failure
}

func (e *execution) newThread(ctx *goroutine.RaceContext) *thread {
	t := &thread{
		id:   ctx.TID,
		ctx:  ctx,
		wake: make(chan struct{}, 1),
	}
	e.threads = append(e.threads, t)
	return t
}

// start launches t's goroutine. It stays parked until t is scheduled.
func (e *execution) start(t *thread, fn func(*thread)) {
	e.wg.Add(1)
	go e.threadMain(t, fn)
}

func (e *execution) threadMain(t *thread, fn func(*thread)) {
	defer e.wg.Done()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if IsAbort(r) || e.aborted.Load() {
			return
		}
		e.fail(&PanicError{Thread: t.id, Value: r, Stack: debug.Stack()})
	}()

	e.park(t)
	fn(t)
	e.finish(t)
}

// park blocks t until it is handed the baton. If the execution is aborted
// instead, park unwinds t's goroutine.
func (e *execution) park(t *thread) {
	select {
	case <-t.wake:
	case <-e.abort:
		panic(abortSignal{})
	}
}

func (e *execution) checkAbort() {
	if e.aborted.Load() {
		panic(abortSignal{})
	}
}

// fail records err as the execution's failure and wakes every parked thread
// so it can unwind. Only the first failure is kept.
func (e *execution) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failure != nil {
		return
	}
	e.failure = err
	e.aborted.Store(true)
	close(e.abort)
}

// failAndUnwind fails the execution and unwinds the calling thread.
func (e *execution) failAndUnwind(err error) {
	e.fail(err)
	panic(abortSignal{})
}

// finish marks t finished, wakes its joiners and passes the baton on.
func (e *execution) finish(t *thread) {
	if e.aborted.Load() {
		return
	}
	t.state = finished
	e.clearYields()
	for _, j := range t.joiners {
		j.state = runnable
	}
	t.joiners = nil

	candidates := e.candidates(t)
	if len(candidates) == 0 {
		if e.allFinished() {
			close(e.done)
			return
		}
		e.fail(ErrDeadlock)
		return
	}

	idx, err := e.choose(len(candidates))
	if err != nil {
		e.fail(err)
		return
	}
	next := candidates[idx]
	e.current = next
	e.trace = append(e.trace, next.id)
	next.wake <- struct{}{}
}

// schedule is a scheduling point for cur, the thread holding the baton. It
// may hand the baton to another thread and return once cur is scheduled
// again.
func (e *execution) schedule(cur *thread, yielding bool) {
	e.checkAbort()

	if yielding {
		cur.yielded = true
	} else {
		// cur made progress: threads waiting on it may be worth running.
		e.clearYields()
	}

	candidates := e.candidates(cur)
	if len(candidates) == 0 {
		e.failAndUnwind(ErrDeadlock)
	}

	// Switching away from a thread that could continue is a preemption.
	canContinue := candidates[0] == cur && !yielding
	if canContinue && e.cfg.PreemptionBound != Unbounded && e.preemptions >= e.cfg.PreemptionBound {
		candidates = candidates[:1]
	}

	idx, err := e.choose(len(candidates))
	if err != nil {
		e.failAndUnwind(err)
	}
	next := candidates[idx]
	if next == cur {
		return
	}
	if canContinue {
		e.preemptions++
	}

	e.current = next
	e.trace = append(e.trace, next.id)
	next.wake <- struct{}{}
	e.park(cur)
	e.checkAbort()
}

// choose counts a scheduling decision against MaxBranches and consults the
// path for which of n options to take.
func (e *execution) choose(n int) (int, error) {
	e.steps++
	if e.steps > e.cfg.MaxBranches {
		return 0, ErrMaxBranches
	}
	return e.path.choose(n)
}

// candidates returns the threads that may run next, cur first when it is
// one of them. Yielded threads are left out unless nothing else can run.
func (e *execution) candidates(cur *thread) []*thread {
	var eager, all []*thread
	add := func(t *thread) {
		if t.state != runnable {
			return
		}
		all = append(all, t)
		if !t.yielded {
			eager = append(eager, t)
		}
	}

	add(cur)
	for _, t := range e.threads {
		if t != cur {
			add(t)
		}
	}

	if len(eager) > 0 {
		return eager
	}
	return all
}

func (e *execution) clearYields() {
	for _, t := range e.threads {
		t.yielded = false
	}
}

func (e *execution) allFinished() bool {
	for _, t := range e.threads {
		if t.state != finished {
			return false
		}
	}
	return true
}

func (e *execution) newObject() uintptr {
	e.nextObj++
	return e.nextObj
}
