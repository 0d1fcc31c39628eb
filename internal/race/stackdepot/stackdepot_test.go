package stackdepot

import (
	"strings"
	"testing"
)

//go:noinline
func captureHere() uint64 {
	return CaptureStack(0)
}

// TestCaptureStack_Dedup verifies identical stacks share one entry.
func TestCaptureStack_Dedup(t *testing.T) {
	var hashes [2]uint64
	for i := range hashes {
		hashes[i] = captureHere()
	}

	if hashes[0] == 0 {
		t.Fatal("CaptureStack returned 0")
	}
	if hashes[0] != hashes[1] {
		t.Errorf("same call site produced different hashes: %x vs %x", hashes[0], hashes[1])
	}
	if GetStack(hashes[0]) != GetStack(hashes[1]) {
		t.Error("same call site stored twice")
	}
}

// TestGetStack verifies lookup and formatting.
func TestGetStack(t *testing.T) {
	st := GetStack(captureHere())
	if st == nil {
		t.Fatal("GetStack returned nil for captured hash")
	}

	formatted := st.FormatStack()
	if !strings.Contains(formatted, "testing.tRunner") {
		t.Errorf("formatted stack misses test runner frame:\n%s", formatted)
	}
	if strings.Contains(formatted, "captureHere") {
		t.Errorf("formatted stack contains internal frames:\n%s", formatted)
	}
	if strings.Contains(formatted, "runtime.") {
		t.Errorf("formatted stack contains runtime frames:\n%s", formatted)
	}
}

func TestGetStack_Unknown(t *testing.T) {
	if GetStack(0) != nil {
		t.Error("GetStack(0) != nil")
	}
	if GetStack(0xdeadbeef) != nil {
		t.Error("GetStack(unknown) != nil")
	}

	var st *StackTrace
	if got := st.FormatStack(); got != "  <unknown>\n" {
		t.Errorf("nil FormatStack() = %q", got)
	}
}
