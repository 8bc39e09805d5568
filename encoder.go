package rbxbin

import (
	"bytes"
	"fmt"
	"io"

	"github.com/anaminus/parse"

	"github.com/robloxapi/rbxbin/dom"
	"github.com/robloxapi/rbxbin/reflection"
)

// Encoder turns a *dom.Document into a binary rbxm/rbxl stream.
type Encoder struct {
	// PreferUncompressed writes every chunk verbatim instead of attempting
	// LZ4 compression. The teacher's writer always compresses; this option
	// exists for callers who would rather trade file size for a simpler,
	// deterministic byte stream (small test fixtures, for instance).
	PreferUncompressed bool

	// Reflection, if set, is consulted for each property's canonical name and
	// type; every instance's value is widened or narrowed to that type before
	// its column is written, and a lossy narrowing is refused.
	Reflection reflection.Database
}

// propertyGroup accumulates one (class, property) column across every
// instance of a class, gathered during the encoder's first pass.
type propertyGroup struct {
	class    string
	name     string
	domType  dom.Type
	wireType wireType
	values   []dom.Value
}

// Encode writes doc to w. Every instance is assigned a file-scoped referent
// before any chunk is written, since PROP and PRNT chunks must agree with
// INST on the numbering.
func (e Encoder) Encode(doc *dom.Document, w io.Writer) error {
	all := doc.AllInstances()

	referents := make(map[*dom.Instance]int32, len(all))
	for i, inst := range all {
		referents[inst] = int32(i)
	}

	classes := make(map[string][]*dom.Instance)
	var classOrder []string
	for _, inst := range all {
		if _, ok := classes[inst.ClassName]; !ok {
			classOrder = append(classOrder, inst.ClassName)
		}
		classes[inst.ClassName] = append(classes[inst.ClassName], inst)
	}

	cat := newCatalog()
	classID := make(map[string]uint32)
	for i, name := range classOrder {
		id := uint32(i)
		isService := false
		for _, inst := range classes[name] {
			if inst.IsService {
				isService = true
				break
			}
		}
		rec, err := cat.register(id, name, isService)
		if err != nil {
			return err
		}
		for _, inst := range classes[name] {
			rec.Referents = append(rec.Referents, referents[inst])
		}
		classID[name] = id
	}

	groups, err := e.buildPropertyGroups(classOrder, classes)
	if err != nil {
		return err
	}

	fw := parse.NewBinaryWriter(w)
	if err := writeHeader(fw); err != nil {
		return err
	}

	if len(doc.Metadata) > 0 {
		if err := e.writeMeta(fw, doc.Metadata); err != nil {
			return err
		}
	}

	for _, name := range classOrder {
		if err := e.writeInst(fw, classID[name], cat, classes[name]); err != nil {
			return err
		}
	}

	for _, g := range groups {
		if err := e.writeProp(fw, classID[g.class], g, referents); err != nil {
			return err
		}
	}

	if err := e.writeParent(fw, all, referents); err != nil {
		return err
	}

	return writeChunk(fw, sigEnd, []byte(endChunkContent), false)
}

// buildPropertyGroups performs the encoder's first pass: for every class,
// collect the union of property names set on any of its instances, resolve
// each to a wire type, and fill in the reflection database's default (or the
// type's default when the database has none) for any instance missing that
// property. This must finish before any PROP chunk is
// emitted, since a PROP chunk's column must cover every instance of its
// class.
func (e Encoder) buildPropertyGroups(classOrder []string, classes map[string][]*dom.Instance) ([]*propertyGroup, error) {
	var groups []*propertyGroup
	for _, class := range classOrder {
		instances := classes[class]
		names := make(map[string]bool)
		var nameOrder []string
		for _, inst := range instances {
			inst.Properties(func(name string, _ dom.Value) {
				if !names[name] {
					names[name] = true
					nameOrder = append(nameOrder, name)
				}
			})
		}
		for _, name := range nameOrder {
			serializedName := name
			var sample dom.Value
			for _, inst := range instances {
				if v := inst.Get(name); v != nil {
					sample = v
					break
				}
			}
			if sample == nil {
				continue
			}

			// The target type this column serializes as: the reflection
			// database's canonical type when known, else whatever the first
			// contributing instance happens to hold. Every instance's value
			// is narrowed down to this one type so the column is uniform
			// even if individual instances disagree (e.g. one still carries
			// an Int32 where the class has since widened to Int64).
			targetType := sample.Type()
			var fill dom.Value
			if e.Reflection != nil {
				if desc, ok := e.Reflection.Canonical(class, name); ok {
					serializedName = desc.CanonicalName
					targetType = desc.CanonicalType
					fill = desc.Default
				}
			}

			wt := wireTypeFor(targetType)
			if wt == wireInvalid {
				return nil, InvalidValue{Context: class + "." + name, Cause: fmt.Errorf("no wire type for %s", targetType)}
			}

			values := make([]dom.Value, len(instances))
			for i, inst := range instances {
				v := inst.Get(name)
				if v == nil {
					v = fill
				}
				if v == nil {
					v = dom.Default(targetType)
				}
				narrowed, err := narrowValue(v, targetType)
				if err != nil {
					return nil, WideningRefused{Class: class, Property: name, From: v.Type().String(), To: targetType.String()}
				}
				values[i] = narrowed
			}

			groups = append(groups, &propertyGroup{
				class:    class,
				name:     serializedName,
				domType:  targetType,
				wireType: wt,
				values:   values,
			})
		}
	}
	return groups, nil
}

// wireTypeFor maps a DOM type to the wire type used to serialize it.
// OptionalCFrame shares CFrame's tag (0x10): see wireOptionalCFrame in
// format.go.
func wireTypeFor(t dom.Type) wireType {
	switch t {
	case dom.TypeString:
		return wireString
	case dom.TypeBool:
		return wireBool
	case dom.TypeInt32:
		return wireInt32
	case dom.TypeFloat32:
		return wireFloat32
	case dom.TypeFloat64:
		return wireFloat64
	case dom.TypeUDim:
		return wireUDim
	case dom.TypeUDim2:
		return wireUDim2
	case dom.TypeRay:
		return wireRay
	case dom.TypeFaces:
		return wireFaces
	case dom.TypeAxis:
		return wireAxis
	case dom.TypeBrickColor:
		return wireBrickColor
	case dom.TypeColor3:
		return wireColor3
	case dom.TypeVector2:
		return wireVector2
	case dom.TypeVector3:
		return wireVector3
	case dom.TypeCFrame:
		return wireCFrame
	case dom.TypeOptionalCFrame:
		return wireCFrame
	case dom.TypeEnum:
		return wireEnum
	case dom.TypeReferent:
		return wireReferent
	case dom.TypeVector3int16:
		return wireVector3int16
	case dom.TypeNumberSequence:
		return wireNumberSequence
	case dom.TypeColorSequence:
		return wireColorSequence
	case dom.TypeNumberRange:
		return wireNumberRange
	case dom.TypeRect:
		return wireRect
	case dom.TypePhysicalProperties:
		return wirePhysicalProperties
	case dom.TypeColor3uint8:
		return wireColor3uint8
	case dom.TypeInt64:
		return wireInt64
	default:
		return wireInvalid
	}
}

// narrowValue converts v to the representation its column's wire type
// requires. This runs in both directions relative to v's own type: narrowing
// (Int64->Int32, Float64->Float32, BrickColor<->Int32) when v is wider than
// its column, and widening (Int32->Int64, Float32->Float64) when the
// reflection database has declared a canonical type wider than what this
// instance happens to carry — the encode-side mirror of migrateValue in
// decoder.go. A narrowing that would lose information is refused rather than
// silently truncated.
func narrowValue(v dom.Value, to dom.Type) (dom.Value, error) {
	if v.Type() == to {
		return v, nil
	}
	switch to {
	case dom.TypeInt32:
		if i, ok := v.(dom.ValueInt64); ok {
			if int64(int32(i)) != int64(i) {
				return nil, errNarrow
			}
			return dom.ValueInt32(int32(i)), nil
		}
		if bc, ok := v.(dom.ValueBrickColor); ok {
			return dom.ValueInt32(int32(bc)), nil
		}
	case dom.TypeInt64:
		if i, ok := v.(dom.ValueInt32); ok {
			return dom.ValueInt64(int64(i)), nil
		}
	case dom.TypeFloat32:
		if f, ok := v.(dom.ValueFloat64); ok {
			if f32 := float32(f); float64(f32) != float64(f) && f == f {
				return nil, errNarrow
			}
			return dom.ValueFloat32(float32(f)), nil
		}
	case dom.TypeFloat64:
		if f, ok := v.(dom.ValueFloat32); ok {
			return dom.ValueFloat64(float64(f)), nil
		}
	case dom.TypeBrickColor:
		if i, ok := v.(dom.ValueInt32); ok {
			return dom.ValueBrickColor(int32(i)), nil
		}
	}
	return nil, errNarrow
}

var errNarrow = &narrowError{}

type narrowError struct{}

func (*narrowError) Error() string { return "value cannot be narrowed to its column's wire type" }

////////////////////////////////////////////////////////////////

func (e Encoder) writeMeta(fw *parse.BinaryWriter, metadata map[string]string) error {
	var buf bytes.Buffer
	bw := parse.NewBinaryWriter(&buf)
	if bw.Number(uint32(len(metadata))) {
		return bw.Err()
	}
	for k, v := range metadata {
		if err := writeString(bw, k); err != nil {
			return err
		}
		if err := writeString(bw, v); err != nil {
			return err
		}
	}
	return writeChunk(fw, sigMeta, buf.Bytes(), !e.PreferUncompressed)
}

func (e Encoder) writeInst(fw *parse.BinaryWriter, typeID uint32, cat *catalog, instances []*dom.Instance) error {
	rec, _ := cat.get(typeID)
	var buf bytes.Buffer
	bw := parse.NewBinaryWriter(&buf)
	if bw.Number(typeID) {
		return bw.Err()
	}
	if err := writeString(bw, rec.ClassName); err != nil {
		return err
	}
	var objectFormat uint8
	if rec.IsService {
		objectFormat = 1
	}
	if bw.Number(objectFormat) {
		return bw.Err()
	}
	if bw.Number(uint32(len(rec.Referents))) {
		return bw.Err()
	}
	if bw.Bytes(encodeReferentArray(rec.Referents)) {
		return bw.Err()
	}
	if rec.IsService {
		// One marker per instance, in the same order as rec.Referents, each
		// instance's own flag rather than the class-wide OR used to decide
		// whether this block is present at all.
		markers := make([]byte, len(instances))
		for i, inst := range instances {
			if inst.IsService {
				markers[i] = 1
			}
		}
		if bw.Bytes(markers) {
			return bw.Err()
		}
	}
	return writeChunk(fw, sigInst, buf.Bytes(), !e.PreferUncompressed)
}

func (e Encoder) writeProp(fw *parse.BinaryWriter, typeID uint32, g *propertyGroup, referents map[*dom.Instance]int32) error {
	var buf bytes.Buffer
	bw := parse.NewBinaryWriter(&buf)
	if bw.Number(typeID) {
		return bw.Err()
	}
	if err := writeString(bw, g.name); err != nil {
		return err
	}
	if bw.Bytes([]byte{byte(g.wireType)}) {
		return bw.Err()
	}

	var columnBytes []byte
	var err error
	switch {
	case g.wireType == wireReferent:
		refs := make([]int32, len(g.values))
		for i, v := range g.values {
			r := v.(dom.ValueReferent)
			if r.Instance == nil {
				refs[i] = -1
			} else {
				refs[i] = referents[r.Instance]
			}
		}
		columnBytes = encodeReferentArray(refs)
	case g.domType == dom.TypeOptionalCFrame:
		columnBytes, err = optionalCFramesToBytes(g.values)
	default:
		columnBytes, err = valuesToBytes(g.wireType, g.values)
	}
	if err != nil {
		return InvalidValue{Context: g.class + "." + g.name, Cause: err}
	}
	if bw.Bytes(columnBytes) {
		return bw.Err()
	}

	return writeChunk(fw, sigProp, buf.Bytes(), !e.PreferUncompressed)
}

func (e Encoder) writeParent(fw *parse.BinaryWriter, all []*dom.Instance, referents map[*dom.Instance]int32) error {
	var buf bytes.Buffer
	bw := parse.NewBinaryWriter(&buf)
	if bw.Number(uint8(0)) {
		return bw.Err()
	}
	if bw.Number(uint32(len(all))) {
		return bw.Err()
	}

	children := make([]int32, len(all))
	parents := make([]int32, len(all))
	for i, inst := range all {
		children[i] = referents[inst]
		if p := inst.Parent(); p != nil {
			parents[i] = referents[p]
		} else {
			parents[i] = -1
		}
	}
	if bw.Bytes(encodeReferentArray(children)) {
		return bw.Err()
	}
	if bw.Bytes(encodeReferentArray(parents)) {
		return bw.Err()
	}
	return writeChunk(fw, sigParent, buf.Bytes(), !e.PreferUncompressed)
}
