package rbxbin

import (
	"bytes"
	"testing"
)

func TestInterleaveRoundTrip(t *testing.T) {
	flat := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C,
	}
	interleaved := interleave(flat, 4)
	back := deinterleave(interleaved, 4)
	if !bytes.Equal(back, flat) {
		t.Errorf("round trip mismatch: got %x, want %x", back, flat)
	}

	// Byte 0 of every value should come first in the interleaved form.
	want := []byte{0x01, 0x05, 0x09}
	if !bytes.Equal(interleaved[:3], want) {
		t.Errorf("interleave column 0 = %x, want %x", interleaved[:3], want)
	}
}

func TestInterleaveFieldsRoundTrip(t *testing.T) {
	n := 3
	scale := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	offset := []byte{10, 0, 0, 0, 20, 0, 0, 0, 30, 0, 0, 0}
	combined := interleaveFields([][]byte{scale, offset}, []int{4, 4})
	fields := deinterleaveFields(combined, []int{4, 4}, n)
	if !bytes.Equal(fields[0], scale) {
		t.Errorf("field 0 = %x, want %x", fields[0], scale)
	}
	if !bytes.Equal(fields[1], offset) {
		t.Errorf("field 1 = %x, want %x", fields[1], offset)
	}
}
