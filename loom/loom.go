package loom

// Runtime is the capability the primitives are built on: spawning threads,
// yielding, creating atomics and creating access trackers.
//
// A Runtime value is shared by every goroutine that uses primitives created
// from it. Implementations must be safe for concurrent use.
type Runtime interface {
	// Spawn starts fn on a new thread.
	Spawn(fn func()) JoinHandle

	// Yield gives other threads a chance to run. Spin loops call it between
	// failed attempts.
	Yield()

	// NewBool creates an atomic boolean holding v.
	NewBool(v bool) AtomicBool

	// NewTracker creates the access tracker of a new cell.
	NewTracker() Tracker
}

// JoinHandle waits for a spawned thread.
type JoinHandle interface {
	// Join blocks until the thread has returned. Everything the thread did
	// happens-before Join returns.
	Join()
}

// AtomicBool is an atomic boolean with explicit memory ordering.
type AtomicBool interface {
	Load(order Ordering) bool
	Store(v bool, order Ordering)
	// Swap stores v and returns the previous value.
	Swap(v bool, order Ordering) bool
	// CompareAndSwap stores new if the current value is old. success orders
	// the read-modify-write, failure orders the read when the compare fails.
	CompareAndSwap(old, new bool, success, failure Ordering) bool
}

// Tracker observes raw accesses to one cell.
//
// Read and Write are called when a raw view is handed out; the returned
// function is called when the view goes out of scope. Implementations must
// not synchronize: the tracker observes, it never orders.
type Tracker interface {
	Read() (end func())
	Write() (end func())
}
