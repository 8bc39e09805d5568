package rbxbin

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/robloxapi/rbxbin/dom"
)

func encodeZigzag32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

func decodeZigzag32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

func encodeZigzag64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func decodeZigzag64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// encodeRobloxFloat rotates an IEEE-754 binary32's sign bit down to the LSB.
func encodeRobloxFloat(f float32) uint32 {
	n := math.Float32bits(f)
	return (n << 1) | (n >> 31)
}

func decodeRobloxFloat(n uint32) float32 {
	return math.Float32frombits((n >> 1) | (n << 31))
}

////////////////////////////////////////////////////////////////

// valuesToBytes encodes a column of N values of type t into its on-wire
// form. Every value in a is assumed already checked against t.
func valuesToBytes(t wireType, a []dom.Value) ([]byte, error) {
	n := len(a)
	switch t {
	case wireString:
		var out []byte
		for _, v := range a {
			s := string(v.(dom.ValueString))
			var lb [4]byte
			binary.LittleEndian.PutUint32(lb[:], uint32(len(s)))
			out = append(out, lb[:]...)
			out = append(out, s...)
		}
		return out, nil

	case wireBool:
		out := make([]byte, n)
		for i, v := range a {
			if bool(v.(dom.ValueBool)) {
				out[i] = 1
			}
		}
		return out, nil

	case wireInt32:
		flat := make([]byte, n*4)
		for i, v := range a {
			binary.BigEndian.PutUint32(flat[i*4:], encodeZigzag32(int32(v.(dom.ValueInt32))))
		}
		return interleave(flat, 4), nil

	case wireFloat32:
		flat := make([]byte, n*4)
		for i, v := range a {
			binary.BigEndian.PutUint32(flat[i*4:], encodeRobloxFloat(float32(v.(dom.ValueFloat32))))
		}
		return interleave(flat, 4), nil

	case wireFloat64:
		out := make([]byte, n*8)
		for i, v := range a {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(float64(v.(dom.ValueFloat64))))
		}
		return out, nil

	case wireUDim:
		scale := make([]byte, n*4)
		offset := make([]byte, n*4)
		for i, v := range a {
			u := v.(dom.ValueUDim)
			binary.BigEndian.PutUint32(scale[i*4:], encodeRobloxFloat(u.Scale))
			binary.BigEndian.PutUint32(offset[i*4:], encodeZigzag32(u.Offset))
		}
		return interleaveFields([][]byte{scale, offset}, []int{4, 4}), nil

	case wireUDim2:
		xs := make([]byte, n*4)
		ys := make([]byte, n*4)
		xo := make([]byte, n*4)
		yo := make([]byte, n*4)
		for i, v := range a {
			u := v.(dom.ValueUDim2)
			binary.BigEndian.PutUint32(xs[i*4:], encodeRobloxFloat(u.X.Scale))
			binary.BigEndian.PutUint32(ys[i*4:], encodeRobloxFloat(u.Y.Scale))
			binary.BigEndian.PutUint32(xo[i*4:], encodeZigzag32(u.X.Offset))
			binary.BigEndian.PutUint32(yo[i*4:], encodeZigzag32(u.Y.Offset))
		}
		return interleaveFields([][]byte{xs, ys, xo, yo}, []int{4, 4, 4, 4}), nil

	case wireRay:
		out := make([]byte, n*24)
		for i, v := range a {
			r := v.(dom.ValueRay)
			off := i * 24
			binary.LittleEndian.PutUint32(out[off+0:], math.Float32bits(r.Origin.X))
			binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(r.Origin.Y))
			binary.LittleEndian.PutUint32(out[off+8:], math.Float32bits(r.Origin.Z))
			binary.LittleEndian.PutUint32(out[off+12:], math.Float32bits(r.Direction.X))
			binary.LittleEndian.PutUint32(out[off+16:], math.Float32bits(r.Direction.Y))
			binary.LittleEndian.PutUint32(out[off+20:], math.Float32bits(r.Direction.Z))
		}
		return out, nil

	case wireFaces:
		out := make([]byte, n)
		for i, v := range a {
			f := v.(dom.ValueFaces)
			var b byte
			if f.Right {
				b |= 1 << 0
			}
			if f.Top {
				b |= 1 << 1
			}
			if f.Back {
				b |= 1 << 2
			}
			if f.Left {
				b |= 1 << 3
			}
			if f.Bottom {
				b |= 1 << 4
			}
			if f.Front {
				b |= 1 << 5
			}
			out[i] = b
		}
		return out, nil

	case wireAxis:
		out := make([]byte, n)
		for i, v := range a {
			ax := v.(dom.ValueAxis)
			var b byte
			if ax.X {
				b |= 1 << 0
			}
			if ax.Y {
				b |= 1 << 1
			}
			if ax.Z {
				b |= 1 << 2
			}
			out[i] = b
		}
		return out, nil

	case wireBrickColor:
		flat := make([]byte, n*4)
		for i, v := range a {
			binary.BigEndian.PutUint32(flat[i*4:], encodeZigzag32(int32(v.(dom.ValueBrickColor))))
		}
		return interleave(flat, 4), nil

	case wireColor3:
		r := make([]byte, n*4)
		g := make([]byte, n*4)
		b := make([]byte, n*4)
		for i, v := range a {
			c := v.(dom.ValueColor3)
			binary.BigEndian.PutUint32(r[i*4:], encodeRobloxFloat(c.R))
			binary.BigEndian.PutUint32(g[i*4:], encodeRobloxFloat(c.G))
			binary.BigEndian.PutUint32(b[i*4:], encodeRobloxFloat(c.B))
		}
		return interleaveFields([][]byte{r, g, b}, []int{4, 4, 4}), nil

	case wireVector2:
		x := make([]byte, n*4)
		y := make([]byte, n*4)
		for i, v := range a {
			p := v.(dom.ValueVector2)
			binary.BigEndian.PutUint32(x[i*4:], encodeRobloxFloat(p.X))
			binary.BigEndian.PutUint32(y[i*4:], encodeRobloxFloat(p.Y))
		}
		return interleaveFields([][]byte{x, y}, []int{4, 4}), nil

	case wireVector3:
		x := make([]byte, n*4)
		y := make([]byte, n*4)
		z := make([]byte, n*4)
		for i, v := range a {
			p := v.(dom.ValueVector3)
			binary.BigEndian.PutUint32(x[i*4:], encodeRobloxFloat(p.X))
			binary.BigEndian.PutUint32(y[i*4:], encodeRobloxFloat(p.Y))
			binary.BigEndian.PutUint32(z[i*4:], encodeRobloxFloat(p.Z))
		}
		return interleaveFields([][]byte{x, y, z}, []int{4, 4, 4}), nil

	case wireCFrame:
		return cframesToBytes(a)

	case wireOptionalCFrame:
		return optionalCFramesToBytes(a)

	case wireEnum:
		flat := make([]byte, n*4)
		for i, v := range a {
			binary.BigEndian.PutUint32(flat[i*4:], encodeZigzag32(int32(uint32(v.(dom.ValueEnum)))))
		}
		return interleave(flat, 4), nil

	case wireVector3int16:
		out := make([]byte, n*6)
		for i, v := range a {
			p := v.(dom.ValueVector3int16)
			binary.LittleEndian.PutUint16(out[i*6+0:], uint16(p.X))
			binary.LittleEndian.PutUint16(out[i*6+2:], uint16(p.Y))
			binary.LittleEndian.PutUint16(out[i*6+4:], uint16(p.Z))
		}
		return out, nil

	case wireNumberSequence:
		var out []byte
		for _, v := range a {
			seq := v.(dom.ValueNumberSequence)
			var cb [4]byte
			binary.LittleEndian.PutUint32(cb[:], uint32(len(seq)))
			out = append(out, cb[:]...)
			for _, kp := range seq {
				var b [12]byte
				binary.LittleEndian.PutUint32(b[0:], math.Float32bits(kp.Time))
				binary.LittleEndian.PutUint32(b[4:], math.Float32bits(kp.Value))
				binary.LittleEndian.PutUint32(b[8:], math.Float32bits(kp.Envelope))
				out = append(out, b[:]...)
			}
		}
		return out, nil

	case wireColorSequence:
		var out []byte
		for _, v := range a {
			seq := v.(dom.ValueColorSequence)
			var cb [4]byte
			binary.LittleEndian.PutUint32(cb[:], uint32(len(seq)))
			out = append(out, cb[:]...)
			for _, kp := range seq {
				var b [20]byte
				binary.LittleEndian.PutUint32(b[0:], math.Float32bits(kp.Time))
				binary.LittleEndian.PutUint32(b[4:], math.Float32bits(kp.Value.R))
				binary.LittleEndian.PutUint32(b[8:], math.Float32bits(kp.Value.G))
				binary.LittleEndian.PutUint32(b[12:], math.Float32bits(kp.Value.B))
				binary.LittleEndian.PutUint32(b[16:], math.Float32bits(kp.Envelope))
				out = append(out, b[:]...)
			}
		}
		return out, nil

	case wireNumberRange:
		out := make([]byte, n*8)
		for i, v := range a {
			r := v.(dom.ValueNumberRange)
			binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(r.Min))
			binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(r.Max))
		}
		return out, nil

	case wireRect:
		minX := make([]byte, n*4)
		minY := make([]byte, n*4)
		maxX := make([]byte, n*4)
		maxY := make([]byte, n*4)
		for i, v := range a {
			r := v.(dom.ValueRect)
			binary.BigEndian.PutUint32(minX[i*4:], encodeRobloxFloat(r.Min.X))
			binary.BigEndian.PutUint32(minY[i*4:], encodeRobloxFloat(r.Min.Y))
			binary.BigEndian.PutUint32(maxX[i*4:], encodeRobloxFloat(r.Max.X))
			binary.BigEndian.PutUint32(maxY[i*4:], encodeRobloxFloat(r.Max.Y))
		}
		return interleaveFields([][]byte{minX, minY, maxX, maxY}, []int{4, 4, 4, 4}), nil

	case wirePhysicalProperties:
		var out []byte
		for _, v := range a {
			p := v.(dom.ValuePhysicalProperties)
			if !p.Custom {
				out = append(out, 0)
				continue
			}
			b := make([]byte, 29)
			b[0] = 1
			fields := []float32{p.Density, p.Friction, p.Elasticity, p.FrictionWeight,
				p.ElasticityWeight, p.CrossFriction, p.CrossElasticity}
			for i, f := range fields {
				binary.LittleEndian.PutUint32(b[1+i*4:], math.Float32bits(f))
			}
			out = append(out, b...)
		}
		return out, nil

	case wireColor3uint8:
		r := make([]byte, n)
		g := make([]byte, n)
		b := make([]byte, n)
		for i, v := range a {
			c := v.(dom.ValueColor3uint8)
			r[i] = c.R
			g[i] = c.G
			b[i] = c.B
		}
		out := make([]byte, 0, n*3)
		out = append(out, r...)
		out = append(out, g...)
		out = append(out, b...)
		return out, nil

	case wireInt64:
		flat := make([]byte, n*8)
		for i, v := range a {
			binary.BigEndian.PutUint64(flat[i*8:], encodeZigzag64(int64(v.(dom.ValueInt64))))
		}
		return interleave(flat, 8), nil

	default:
		return nil, fmt.Errorf("cannot encode type %s", t)
	}
}

// valuesFromBytes decodes n values of type t from their on-wire form.
func valuesFromBytes(t wireType, b []byte, n int) ([]dom.Value, error) {
	out := make([]dom.Value, n)
	switch t {
	case wireString:
		off := 0
		for i := 0; i < n; i++ {
			if off+4 > len(b) {
				return nil, fmt.Errorf("string %d: truncated length", i)
			}
			l := int(binary.LittleEndian.Uint32(b[off:]))
			off += 4
			if off+l > len(b) {
				return nil, fmt.Errorf("string %d: truncated body", i)
			}
			out[i] = dom.ValueString(string(b[off : off+l]))
			off += l
		}
		return out, nil

	case wireBool:
		if len(b) != n {
			return nil, fmt.Errorf("bool: expected %d bytes, got %d", n, len(b))
		}
		for i := 0; i < n; i++ {
			out[i] = dom.ValueBool(b[i] != 0)
		}
		return out, nil

	case wireInt32:
		flat := deinterleave(b, 4)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueInt32(decodeZigzag32(binary.BigEndian.Uint32(flat[i*4:])))
		}
		return out, nil

	case wireFloat32:
		flat := deinterleave(b, 4)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueFloat32(decodeRobloxFloat(binary.BigEndian.Uint32(flat[i*4:])))
		}
		return out, nil

	case wireFloat64:
		for i := 0; i < n; i++ {
			out[i] = dom.ValueFloat64(math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:])))
		}
		return out, nil

	case wireUDim:
		fields := deinterleaveFields(b, []int{4, 4}, n)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueUDim{
				Scale:  decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
				Offset: decodeZigzag32(binary.BigEndian.Uint32(fields[1][i*4:])),
			}
		}
		return out, nil

	case wireUDim2:
		fields := deinterleaveFields(b, []int{4, 4, 4, 4}, n)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueUDim2{
				X: dom.ValueUDim{
					Scale:  decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
					Offset: decodeZigzag32(binary.BigEndian.Uint32(fields[2][i*4:])),
				},
				Y: dom.ValueUDim{
					Scale:  decodeRobloxFloat(binary.BigEndian.Uint32(fields[1][i*4:])),
					Offset: decodeZigzag32(binary.BigEndian.Uint32(fields[3][i*4:])),
				},
			}
		}
		return out, nil

	case wireRay:
		if len(b) != n*24 {
			return nil, fmt.Errorf("ray: expected %d bytes, got %d", n*24, len(b))
		}
		for i := 0; i < n; i++ {
			off := i * 24
			out[i] = dom.ValueRay{
				Origin: dom.ValueVector3{
					X: math.Float32frombits(binary.LittleEndian.Uint32(b[off+0:])),
					Y: math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:])),
					Z: math.Float32frombits(binary.LittleEndian.Uint32(b[off+8:])),
				},
				Direction: dom.ValueVector3{
					X: math.Float32frombits(binary.LittleEndian.Uint32(b[off+12:])),
					Y: math.Float32frombits(binary.LittleEndian.Uint32(b[off+16:])),
					Z: math.Float32frombits(binary.LittleEndian.Uint32(b[off+20:])),
				},
			}
		}
		return out, nil

	case wireFaces:
		if len(b) != n {
			return nil, fmt.Errorf("faces: expected %d bytes, got %d", n, len(b))
		}
		for i := 0; i < n; i++ {
			v := b[i]
			out[i] = dom.ValueFaces{
				Right:  v&(1<<0) != 0,
				Top:    v&(1<<1) != 0,
				Back:   v&(1<<2) != 0,
				Left:   v&(1<<3) != 0,
				Bottom: v&(1<<4) != 0,
				Front:  v&(1<<5) != 0,
			}
		}
		return out, nil

	case wireAxis:
		if len(b) != n {
			return nil, fmt.Errorf("axis: expected %d bytes, got %d", n, len(b))
		}
		for i := 0; i < n; i++ {
			v := b[i]
			out[i] = dom.ValueAxis{
				X: v&(1<<0) != 0,
				Y: v&(1<<1) != 0,
				Z: v&(1<<2) != 0,
			}
		}
		return out, nil

	case wireBrickColor:
		flat := deinterleave(b, 4)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueBrickColor(decodeZigzag32(binary.BigEndian.Uint32(flat[i*4:])))
		}
		return out, nil

	case wireColor3:
		fields := deinterleaveFields(b, []int{4, 4, 4}, n)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueColor3{
				R: decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
				G: decodeRobloxFloat(binary.BigEndian.Uint32(fields[1][i*4:])),
				B: decodeRobloxFloat(binary.BigEndian.Uint32(fields[2][i*4:])),
			}
		}
		return out, nil

	case wireVector2:
		fields := deinterleaveFields(b, []int{4, 4}, n)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueVector2{
				X: decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
				Y: decodeRobloxFloat(binary.BigEndian.Uint32(fields[1][i*4:])),
			}
		}
		return out, nil

	case wireVector3:
		fields := deinterleaveFields(b, []int{4, 4, 4}, n)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueVector3{
				X: decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
				Y: decodeRobloxFloat(binary.BigEndian.Uint32(fields[1][i*4:])),
				Z: decodeRobloxFloat(binary.BigEndian.Uint32(fields[2][i*4:])),
			}
		}
		return out, nil

	case wireCFrame:
		return cframesFromBytes(b, n)

	case wireOptionalCFrame:
		return optionalCFramesFromBytes(b, n)

	case wireEnum:
		flat := deinterleave(b, 4)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueEnum(uint32(decodeZigzag32(binary.BigEndian.Uint32(flat[i*4:]))))
		}
		return out, nil

	case wireVector3int16:
		if len(b) != n*6 {
			return nil, fmt.Errorf("vector3int16: expected %d bytes, got %d", n*6, len(b))
		}
		for i := 0; i < n; i++ {
			out[i] = dom.ValueVector3int16{
				X: int16(binary.LittleEndian.Uint16(b[i*6+0:])),
				Y: int16(binary.LittleEndian.Uint16(b[i*6+2:])),
				Z: int16(binary.LittleEndian.Uint16(b[i*6+4:])),
			}
		}
		return out, nil

	case wireNumberSequence:
		off := 0
		for i := 0; i < n; i++ {
			if off+4 > len(b) {
				return nil, fmt.Errorf("number sequence %d: truncated count", i)
			}
			count := int(binary.LittleEndian.Uint32(b[off:]))
			off += 4
			seq := make(dom.ValueNumberSequence, count)
			for k := 0; k < count; k++ {
				if off+12 > len(b) {
					return nil, fmt.Errorf("number sequence %d: truncated keypoint", i)
				}
				seq[k] = dom.NumberSequenceKeypoint{
					Time:     math.Float32frombits(binary.LittleEndian.Uint32(b[off:])),
					Value:    math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:])),
					Envelope: math.Float32frombits(binary.LittleEndian.Uint32(b[off+8:])),
				}
				off += 12
			}
			out[i] = seq
		}
		return out, nil

	case wireColorSequence:
		off := 0
		for i := 0; i < n; i++ {
			if off+4 > len(b) {
				return nil, fmt.Errorf("color sequence %d: truncated count", i)
			}
			count := int(binary.LittleEndian.Uint32(b[off:]))
			off += 4
			seq := make(dom.ValueColorSequence, count)
			for k := 0; k < count; k++ {
				if off+20 > len(b) {
					return nil, fmt.Errorf("color sequence %d: truncated keypoint", i)
				}
				seq[k] = dom.ColorSequenceKeypoint{
					Time: math.Float32frombits(binary.LittleEndian.Uint32(b[off:])),
					Value: dom.ValueColor3{
						R: math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:])),
						G: math.Float32frombits(binary.LittleEndian.Uint32(b[off+8:])),
						B: math.Float32frombits(binary.LittleEndian.Uint32(b[off+12:])),
					},
					Envelope: math.Float32frombits(binary.LittleEndian.Uint32(b[off+16:])),
				}
				off += 20
			}
			out[i] = seq
		}
		return out, nil

	case wireNumberRange:
		if len(b) != n*8 {
			return nil, fmt.Errorf("number range: expected %d bytes, got %d", n*8, len(b))
		}
		for i := 0; i < n; i++ {
			out[i] = dom.ValueNumberRange{
				Min: math.Float32frombits(binary.LittleEndian.Uint32(b[i*8:])),
				Max: math.Float32frombits(binary.LittleEndian.Uint32(b[i*8+4:])),
			}
		}
		return out, nil

	case wireRect:
		fields := deinterleaveFields(b, []int{4, 4, 4, 4}, n)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueRect{
				Min: dom.ValueVector2{
					X: decodeRobloxFloat(binary.BigEndian.Uint32(fields[0][i*4:])),
					Y: decodeRobloxFloat(binary.BigEndian.Uint32(fields[1][i*4:])),
				},
				Max: dom.ValueVector2{
					X: decodeRobloxFloat(binary.BigEndian.Uint32(fields[2][i*4:])),
					Y: decodeRobloxFloat(binary.BigEndian.Uint32(fields[3][i*4:])),
				},
			}
		}
		return out, nil

	case wirePhysicalProperties:
		off := 0
		for i := 0; i < n; i++ {
			if off >= len(b) {
				return nil, fmt.Errorf("physical properties %d: truncated flag", i)
			}
			custom := b[off] != 0
			off++
			if !custom {
				out[i] = dom.ValuePhysicalProperties{}
				continue
			}
			if off+28 > len(b) {
				return nil, fmt.Errorf("physical properties %d: truncated fields", i)
			}
			read := func(k int) float32 {
				return math.Float32frombits(binary.LittleEndian.Uint32(b[off+k*4:]))
			}
			out[i] = dom.ValuePhysicalProperties{
				Custom:           true,
				Density:          read(0),
				Friction:         read(1),
				Elasticity:       read(2),
				FrictionWeight:   read(3),
				ElasticityWeight: read(4),
				CrossFriction:    read(5),
				CrossElasticity:  read(6),
			}
			off += 28
		}
		return out, nil

	case wireColor3uint8:
		if len(b) != n*3 {
			return nil, fmt.Errorf("color3uint8: expected %d bytes, got %d", n*3, len(b))
		}
		for i := 0; i < n; i++ {
			out[i] = dom.ValueColor3uint8{
				R: b[i],
				G: b[n+i],
				B: b[2*n+i],
			}
		}
		return out, nil

	case wireInt64:
		flat := deinterleave(b, 8)
		for i := 0; i < n; i++ {
			out[i] = dom.ValueInt64(decodeZigzag64(binary.BigEndian.Uint64(flat[i*8:])))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("cannot decode type %s", t)
	}
}
