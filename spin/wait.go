package spin

import (
	"context"
	"time"

	"github.com/kolkov/spincell/loom"
)

// WaitStrategy decides what a waiting caller does between failed attempts.
type WaitStrategy interface {
	Wait()
}

// YieldStrategy yields the processor through the runtime between attempts.
type YieldStrategy struct {
	Runtime loom.Runtime
}

// Wait yields once. A nil Runtime means loom.Std.
func (w YieldStrategy) Wait() {
	loom.OrStd(w.Runtime).Yield()
}

// SleepStrategy sleeps for a fixed duration between attempts.
type SleepStrategy struct {
	D time.Duration
}

// Wait sleeps for D.
func (w SleepStrategy) Wait() {
	time.Sleep(w.D)
}

// Acquire calls TryLock until it succeeds or ctx is done, running
// strategy.Wait between attempts. A nil strategy yields via loom.Std.
//
// The retry loop lives here, outside Mutex: TryLock itself is a single
// attempt.
func Acquire[T any](ctx context.Context, m *Mutex[T], strategy WaitStrategy) (*Guard[T], error) {
	if strategy == nil {
		strategy = YieldStrategy{}
	}
	for {
		if g, ok := m.TryLock(); ok {
			return g, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strategy.Wait()
	}
}
