// Package stackdepot implements stack trace storage and deduplication for race reports.
//
// Stack Depot stores each unique stack only once, referenced by a 64-bit hash.
// The model checker revisits the same code paths in every execution, so the
// depot stays small even after thousands of schedules.
//
// Usage:
//
//	// Capture current stack and get hash
//	hash := stackdepot.CaptureStack(0)
//
//	// Later, retrieve stack by hash
//	if stack := stackdepot.GetStack(hash); stack != nil {
//	    fmt.Print(stack.FormatStack())
//	}
package stackdepot

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"unsafe"
)

// MaxFrames is the maximum number of stack frames to capture.
//
// Larger than ThreadSanitizer's 8: the model scheduler and the cell accessors
// sit between user code and the capture point, and are filtered on output.
const MaxFrames = 16

// StackTrace represents a captured stack trace with fixed size.
type StackTrace struct {
	PC [MaxFrames]uintptr
}

// stackDepot is shared by all executions: hash → *StackTrace.
var stackDepot sync.Map

// internalPrefixes lists frames hidden from formatted stacks.
var internalPrefixes = []string{
	"runtime.",
	"github.com/kolkov/spincell/internal/",
	"github.com/kolkov/spincell/model.",
	"github.com/kolkov/spincell/cell.",
}

// CaptureStack captures the caller's stack and returns its hash.
//
// skip counts additional frames to drop above CaptureStack's caller.
// Returns 0 if no stack is available.
//
// Thread Safety: Safe for concurrent calls.
func CaptureStack(skip int) uint64 {
	var pcs [MaxFrames]uintptr
	n := runtime.Callers(2+skip, pcs[:])
	if n == 0 {
		return 0
	}

	hash := hashStack(pcs[:n])
	if _, exists := stackDepot.Load(hash); exists {
		return hash
	}

	stackDepot.Store(hash, &StackTrace{PC: pcs})
	return hash
}

// GetStack retrieves a stack trace by hash, or nil if unknown.
func GetStack(hash uint64) *StackTrace {
	if hash == 0 {
		return nil
	}

	val, ok := stackDepot.Load(hash)
	if !ok {
		return nil
	}

	return val.(*StackTrace)
}

// hashStack computes FNV-1a hash of program counters.
func hashStack(pcs []uintptr) uint64 {
	h := fnv.New64a()

	for _, pc := range pcs {
		//nolint:gosec // G103: Safe use of unsafe to convert uintptr to bytes for hashing
		pcBytes := (*[8]byte)(unsafe.Pointer(&pc))[:]
		_, _ = h.Write(pcBytes) // Write never returns error for hash.Hash.
	}

	return h.Sum64()
}

// FormatStack formats a stack trace for race reports:
//
//	spin.(*Guard[...]).DerefMut()
//	    /path/to/spin/mutex.go:45
//	main.worker()
//	    /path/to/main.go:30
//
// Runtime frames and the model's own machinery are filtered out.
func (st *StackTrace) FormatStack() string {
	if st == nil {
		return "  <unknown>\n"
	}

	frames := runtime.CallersFrames(st.PC[:])

	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}

		if !isInternal(frame.Function) {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d\n", frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	result := buf.String()
	if result == "" {
		return "  <runtime internal>\n"
	}

	return result
}

func isInternal(function string) bool {
	for _, prefix := range internalPrefixes {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}
