package rbxbin

import (
	"encoding/binary"
	"fmt"
)

// interleave byte-transposes a flat run of N values, each width bytes wide,
// into the on-wire column layout: byte 0 of every value, then byte 1 of
// every value, and so on. The teacher's arrays.go performs this in place
// with a cycle-following permutation; this module trades that for a plain
// copy into a second buffer, which is easier to read and just as correct
// since chunk payloads are already fully buffered in memory.
func interleave(b []byte, width int) []byte {
	if width <= 0 || len(b)%width != 0 {
		panic("rbxbin: interleave: width does not divide array length")
	}
	n := len(b) / width
	out := make([]byte, len(b))
	for i := 0; i < n; i++ {
		for w := 0; w < width; w++ {
			out[w*n+i] = b[i*width+w]
		}
	}
	return out
}

// deinterleave is the inverse of interleave.
func deinterleave(b []byte, width int) []byte {
	if width <= 0 || len(b)%width != 0 {
		panic("rbxbin: deinterleave: width does not divide array length")
	}
	n := len(b) / width
	out := make([]byte, len(b))
	for i := 0; i < n; i++ {
		for w := 0; w < width; w++ {
			out[i*width+w] = b[w*n+i]
		}
	}
	return out
}

// interleaveFields interleaves each sub-field of a composite value
// independently. fields holds one flat (non-interleaved) byte run per
// sub-field, each of length n*width[i]; the result concatenates the
// interleaved form of each field in field order.
func interleaveFields(fields [][]byte, widths []int) []byte {
	var out []byte
	for i, f := range fields {
		out = append(out, interleave(f, widths[i])...)
	}
	return out
}

// deinterleaveFields splits b, the concatenation of n-value interleaved
// fields of the given widths, back into one flat byte run per field.
func deinterleaveFields(b []byte, widths []int, n int) [][]byte {
	fields := make([][]byte, len(widths))
	off := 0
	for i, w := range widths {
		size := w * n
		fields[i] = deinterleave(b[off:off+size], w)
		off += size
	}
	return fields
}

////////////////////////////////////////////////////////////////

// referentDeltas converts a sequence of absolute referents into the
// zig-zag-ready delta form written to a file: the first value verbatim, then
// successive differences.
func referentDeltas(abs []int32) []int32 {
	out := make([]int32, len(abs))
	var prev int32
	for i, v := range abs {
		if i == 0 {
			out[i] = v
		} else {
			out[i] = v - prev
		}
		prev = v
	}
	return out
}

// accumulateReferents is the inverse of referentDeltas: it reconstructs the
// absolute sequence from the deltas read off the wire.
func accumulateReferents(deltas []int32) []int32 {
	out := make([]int32, len(deltas))
	var sum int32
	for i, d := range deltas {
		sum += d
		out[i] = sum
	}
	return out
}

// encodeReferentArray and decodeReferentArray implement the referent
// zig-zag+delta+interleave transform used everywhere a bare array of
// referents appears on the wire: an INST chunk's instance ids, and a PRNT
// chunk's object and parent arrays, in addition to a PROP column of type
// Referent (see valuesToBytes/valuesFromBytes in values.go). Grounded on the
// teacher's refArrayToBytes/refArrayFromBytes, which apply the same
// transform to all three.
func encodeReferentArray(vals []int32) []byte {
	deltas := referentDeltas(vals)
	flat := make([]byte, len(deltas)*4)
	for i, d := range deltas {
		binary.BigEndian.PutUint32(flat[i*4:], encodeZigzag32(d))
	}
	return interleave(flat, 4)
}

func decodeReferentArray(b []byte, n int) ([]int32, error) {
	if len(b) != n*4 {
		return nil, fmt.Errorf("rbxbin: referent array: expected %d bytes, got %d", n*4, len(b))
	}
	flat := deinterleave(b, 4)
	deltas := make([]int32, n)
	for i := range deltas {
		deltas[i] = decodeZigzag32(binary.BigEndian.Uint32(flat[i*4:]))
	}
	return accumulateReferents(deltas), nil
}
