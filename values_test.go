package rbxbin

import (
	"math"
	"testing"
)

func TestZigzag32RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 2, -2, math.MaxInt32, math.MinInt32, 1619, -1619}
	for _, n := range cases {
		got := decodeZigzag32(encodeZigzag32(n))
		if got != n {
			t.Errorf("zigzag32(%d) round-trip got %d", n, got)
		}
	}
}

func TestZigzag64RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, math.MaxInt64, math.MinInt64}
	for _, n := range cases {
		got := decodeZigzag64(encodeZigzag64(n))
		if got != n {
			t.Errorf("zigzag64(%d) round-trip got %d", n, got)
		}
	}
}

func TestRobloxFloatRoundTrip(t *testing.T) {
	cases := []float32{0, 1, -1, 3.14159, -3.14159, math.MaxFloat32}
	for _, f := range cases {
		got := decodeRobloxFloat(encodeRobloxFloat(f))
		if got != f {
			t.Errorf("robloxFloat(%v) round-trip got %v", f, got)
		}
	}
}

// TestReferentAccumulationWorkedExample checks the worked example from the
// referent accumulation rule: 1619,1,4,2,3,5 -> accumulated
// 1619,1620,1624,1626,1629,1634.
func TestReferentAccumulationWorkedExample(t *testing.T) {
	deltas := []int32{1619, 1, 4, 2, 3, 5}
	want := []int32{1619, 1620, 1624, 1626, 1629, 1634}
	got := accumulateReferents(deltas)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
	if back := referentDeltas(got); !equalInt32(back, deltas) {
		t.Errorf("referentDeltas did not invert accumulateReferents: got %v, want %v", back, deltas)
	}
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEncodeDecodeReferentArrayRoundTrip(t *testing.T) {
	abs := []int32{1619, 1620, 1624, 1626, 1629, 1634}
	encoded := encodeReferentArray(abs)
	got, err := decodeReferentArray(encoded, len(abs))
	if err != nil {
		t.Fatalf("decodeReferentArray: %v", err)
	}
	if !equalInt32(got, abs) {
		t.Errorf("got %v, want %v", got, abs)
	}
}
