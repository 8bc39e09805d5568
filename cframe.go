package rbxbin

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/robloxapi/rbxbin/dom"
)

// negZero is written out explicitly in a few basic rotation matrices below,
// matching the exact float32 bit pattern the upstream producer emits.
var negZero = float32(math.Copysign(0, -1))

// basicRotations is the 24-entry table of axis-aligned rotation matrices
// addressable by a single non-zero byte. Row-major, matching the CFrame
// wire layout. Id 0x02 is the identity.
var basicRotations = map[byte][9]float32{
	0x02: {+1, +0, +0, +0, +1, +0, +0, +0, +1},
	0x03: {+1, +0, +0, +0, +0, -1, +0, +1, +0},
	0x05: {+1, +0, +0, +0, -1, +0, +0, +0, -1},
	0x06: {+1, +0, negZero, +0, +0, +1, +0, -1, +0},
	0x07: {+0, +1, +0, +1, +0, +0, +0, +0, -1},
	0x09: {+0, +0, +1, +1, +0, +0, +0, +1, +0},
	0x0A: {+0, -1, +0, +1, +0, negZero, +0, +0, +1},
	0x0C: {+0, +0, -1, +1, +0, +0, +0, -1, +0},
	0x0D: {+0, +1, +0, +0, +0, +1, +1, +0, +0},
	0x0E: {+0, +0, -1, +0, +1, +0, +1, +0, +0},
	0x10: {+0, -1, +0, +0, +0, -1, +1, +0, +0},
	0x11: {+0, +0, +1, +0, -1, +0, +1, +0, negZero},
	0x14: {-1, +0, +0, +0, +1, +0, +0, +0, -1},
	0x15: {-1, +0, +0, +0, +0, +1, +0, +1, negZero},
	0x17: {-1, +0, +0, +0, -1, +0, +0, +0, +1},
	0x18: {-1, +0, negZero, +0, +0, -1, +0, -1, negZero},
	0x19: {+0, +1, negZero, -1, +0, +0, +0, +0, +1},
	0x1B: {+0, +0, -1, -1, +0, +0, +0, +1, +0},
	0x1C: {+0, -1, negZero, -1, +0, negZero, +0, +0, -1},
	0x1E: {+0, +0, +1, -1, +0, +0, +0, -1, +0},
	0x1F: {+0, +1, +0, +0, +0, -1, -1, +0, +0},
	0x20: {+0, +0, +1, +0, +1, negZero, -1, +0, +0},
	0x22: {+0, -1, +0, +0, +0, +1, -1, +0, +0},
	0x23: {+0, +0, -1, +0, -1, negZero, -1, +0, negZero},
}

// basicRotationIDs is the reverse lookup used by the encoder to recognize an
// exact basic rotation before falling back to an explicit matrix.
var basicRotationIDs = func() map[[9]float32]byte {
	m := make(map[[9]float32]byte, len(basicRotations))
	for id, mat := range basicRotations {
		m[mat] = id
	}
	return m
}()

// basicRotationID returns the basic rotation id for mat, and true if mat
// matches one of the 24 table entries exactly.
func basicRotationID(mat [9]float32) (byte, bool) {
	id, ok := basicRotationIDs[mat]
	return id, ok
}

////////////////////////////////////////////////////////////////

// cframesToBytes encodes a column of CFrame values. Unlike the other
// composite types, a CFrame's rotation block is not columnar: each value
// contributes a one-byte rotation id (and, for id 0, an inline 9-float
// matrix) written in sequence. Only the position that follows is
// interleaved, matching the wire form in the type table.
func cframesToBytes(a []dom.Value) ([]byte, error) {
	n := len(a)
	var header []byte
	x := make([]byte, n*4)
	y := make([]byte, n*4)
	z := make([]byte, n*4)
	for i, v := range a {
		c, ok := v.(dom.ValueCFrame)
		if !ok {
			return nil, fmt.Errorf("cframe: element %d is not a CFrame", i)
		}
		if id, ok := basicRotationID(c.Rotation); ok {
			header = append(header, id)
		} else {
			header = append(header, 0)
			var m [36]byte
			for k := 0; k < 9; k++ {
				binary.LittleEndian.PutUint32(m[k*4:], math.Float32bits(c.Rotation[k]))
			}
			header = append(header, m[:]...)
		}
		binary.BigEndian.PutUint32(x[i*4:], encodeRobloxFloat(c.Position.X))
		binary.BigEndian.PutUint32(y[i*4:], encodeRobloxFloat(c.Position.Y))
		binary.BigEndian.PutUint32(z[i*4:], encodeRobloxFloat(c.Position.Z))
	}
	pos := interleaveFields([][]byte{x, y, z}, []int{4, 4, 4})
	return append(header, pos...), nil
}

// cframesFromBytes is the inverse of cframesToBytes.
func cframesFromBytes(b []byte, n int) ([]dom.Value, error) {
	rotations, positions, _, err := parseCFrameColumn(b, n)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Value, n)
	for i := 0; i < n; i++ {
		out[i] = dom.ValueCFrame{Rotation: rotations[i], Position: positions[i]}
	}
	return out, nil
}

// parseCFrameColumn reads the rotation-id/matrix header and interleaved
// position columns shared by CFrame and OptionalCFrame, returning how many
// bytes were consumed so a caller can continue reading trailing fields
// (OptionalCFrame's one presence byte per value).
func parseCFrameColumn(b []byte, n int) (rotations [][9]float32, positions []dom.ValueVector3, consumed int, err error) {
	rotations = make([][9]float32, n)
	off := 0
	for i := 0; i < n; i++ {
		if off >= len(b) {
			return nil, nil, 0, fmt.Errorf("cframe %d: truncated rotation id", i)
		}
		id := b[off]
		off++
		if id == 0 {
			if off+36 > len(b) {
				return nil, nil, 0, fmt.Errorf("cframe %d: truncated rotation matrix", i)
			}
			var m [9]float32
			for k := 0; k < 9; k++ {
				m[k] = math.Float32frombits(binary.LittleEndian.Uint32(b[off+k*4:]))
			}
			off += 36
			rotations[i] = m
		} else {
			m, ok := basicRotations[id]
			if !ok {
				return nil, nil, 0, fmt.Errorf("cframe %d: unknown basic rotation id 0x%02X", i, id)
			}
			rotations[i] = m
		}
	}
	if off+n*12 > len(b) {
		return nil, nil, 0, fmt.Errorf("cframe: truncated position columns")
	}
	fields := deinterleaveFields(b[off:off+n*12], []int{4, 4, 4}, n)
	off += n * 12
	positions = make([]dom.ValueVector3, n)
	for i := 0; i < n; i++ {
		positions[i] = dom.ValueVector3{
			X: decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
			Y: decodeRobloxFloat(binary.BigEndian.Uint32(fields[1][i*4:])),
			Z: decodeRobloxFloat(binary.BigEndian.Uint32(fields[2][i*4:])),
		}
	}
	return rotations, positions, off, nil
}

// optionalCFramesToBytes encodes a column of OptionalCFrame values: the
// CFrame encoding of whichever value is present (an identity CFrame at the
// origin where absent),
// followed by one presence byte per value.
func optionalCFramesToBytes(a []dom.Value) ([]byte, error) {
	n := len(a)
	cframes := make([]dom.Value, n)
	presence := make([]byte, n)
	for i, v := range a {
		oc, ok := v.(dom.ValueOptionalCFrame)
		if !ok {
			return nil, fmt.Errorf("optional cframe: element %d is not an OptionalCFrame", i)
		}
		if oc.CFrame != nil {
			cframes[i] = *oc.CFrame
			presence[i] = 1
		} else {
			cframes[i] = dom.ValueCFrame{Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
		}
	}
	body, err := cframesToBytes(cframes)
	if err != nil {
		return nil, err
	}
	return append(body, presence...), nil
}

// optionalCFramesFromBytes is the inverse of optionalCFramesToBytes.
func optionalCFramesFromBytes(b []byte, n int) ([]dom.Value, error) {
	rotations, positions, consumed, err := parseCFrameColumn(b, n)
	if err != nil {
		return nil, err
	}
	if consumed+n > len(b) {
		return nil, fmt.Errorf("optional cframe: truncated presence bytes")
	}
	presence := b[consumed : consumed+n]
	out := make([]dom.Value, n)
	for i := 0; i < n; i++ {
		if presence[i] == 0 {
			out[i] = dom.ValueOptionalCFrame{}
			continue
		}
		out[i] = dom.ValueOptionalCFrame{CFrame: &dom.ValueCFrame{
			Rotation: rotations[i],
			Position: positions[i],
		}}
	}
	return out, nil
}
