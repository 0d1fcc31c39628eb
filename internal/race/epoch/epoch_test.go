package epoch

import (
	"testing"

	"github.com/kolkov/spincell/internal/race/vectorclock"
)

// TestNewEpoch tests epoch creation and encoding.
func TestNewEpoch(t *testing.T) {
	tests := []struct {
		name      string
		tid       uint8
		clock     uint64
		wantEpoch uint64
	}{
		{
			name:      "zero epoch",
			tid:       0,
			clock:     0,
			wantEpoch: 0x0000000000000000,
		},
		{
			name:      "tid only",
			tid:       5,
			clock:     0,
			wantEpoch: 0x0500000000000000,
		},
		{
			name:      "clock only",
			tid:       0,
			clock:     0x1234,
			wantEpoch: 0x0000000000001234,
		},
		{
			name:      "tid and clock",
			tid:       42,
			clock:     0x123456,
			wantEpoch: 0x2A00000000123456,
		},
		{
			name:      "clock beyond 24 bits",
			tid:       1,
			clock:     0x01000001,
			wantEpoch: 0x0100000001000001,
		},
		{
			name:      "max tid and max clock",
			tid:       255,
			clock:     ClockMask,
			wantEpoch: 0xFFFFFFFFFFFFFFFF,
		},
		{
			name:      "clock overflow (truncation)",
			tid:       1,
			clock:     1<<ClockBits | 7,
			wantEpoch: 0x0100000000000007,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEpoch(tt.tid, tt.clock)
			if uint64(e) != tt.wantEpoch {
				t.Errorf("NewEpoch(%d, 0x%x) = 0x%016x, want 0x%016x", tt.tid, tt.clock, uint64(e), tt.wantEpoch)
			}
		})
	}
}

// TestDecodeRoundTrip tests that Decode inverts NewEpoch within range.
func TestDecodeRoundTrip(t *testing.T) {
	for _, tid := range []uint8{0, 1, 7, 255} {
		for _, clock := range []uint64{0, 1, 1000, 1 << 24, 1<<32 + 5, ClockMask} {
			gotTID, gotClock := NewEpoch(tid, clock).Decode()
			if gotTID != tid || gotClock != clock {
				t.Errorf("Decode(NewEpoch(%d, %d)) = (%d, %d)", tid, clock, gotTID, gotClock)
			}
		}
	}
}

// TestHappensBefore tests epoch ⊑ vector clock.
func TestHappensBefore(t *testing.T) {
	vc := vectorclock.New()
	vc.Set(2, 10)

	tests := []struct {
		name string
		e    Epoch
		want bool
	}{
		{"earlier clock same tid", NewEpoch(2, 9), true},
		{"equal clock", NewEpoch(2, 10), true},
		{"later clock", NewEpoch(2, 11), false},
		{"unseen thread", NewEpoch(3, 1), false},
		{"zero epoch", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.HappensBefore(vc); got != tt.want {
				t.Errorf("%s.HappensBefore(%s) = %v, want %v", tt.e, vc, got, tt.want)
			}
		})
	}
}

func TestSameAndString(t *testing.T) {
	a := NewEpoch(5, 42)
	b := NewEpoch(5, 42)
	c := NewEpoch(4, 42)

	if !a.Same(b) {
		t.Error("identical epochs reported different")
	}
	if a.Same(c) {
		t.Error("epochs with different TID reported same")
	}
	if got := a.String(); got != "42@5" {
		t.Errorf("String() = %q, want 42@5", got)
	}
	if a.TID() != 5 {
		t.Errorf("TID() = %d, want 5", a.TID())
	}
}

// TestHappensBefore_LargeClocks verifies that clocks past 2^24 keep their
// order: a write made after many private accesses must not look older than
// a clock acquired earlier.
func TestHappensBefore_LargeClocks(t *testing.T) {
	acquired := vectorclock.New()
	acquired.Set(1, 102)

	late := NewEpoch(1, 1<<24+42)
	if late.HappensBefore(acquired) {
		t.Errorf("%s.HappensBefore(%s) = true, want false", late, acquired)
	}

	acquired.Set(1, 1<<24+42)
	if !late.HappensBefore(acquired) {
		t.Errorf("%s.HappensBefore(%s) = false, want true", late, acquired)
	}
}
