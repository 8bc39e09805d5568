package rbxbin

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/anaminus/parse"

	"github.com/robloxapi/rbxbin/dom"
	"github.com/robloxapi/rbxbin/reflection"
)

// Decoder turns a binary rbxm/rbxl stream into a *dom.Document. The zero
// value is ready to use: it applies no configured limits and consults no
// reflection database, so every property keeps its serialized name and wire
// type verbatim.
type Decoder struct {
	// Strict turns UnknownTypeId and UnknownDataType diagnostics into fatal
	// errors instead of being recorded and skipped.
	Strict bool

	// MaxChunkUncompressedBytes caps how large a single chunk's decompressed
	// payload may be. Zero means unbounded.
	MaxChunkUncompressedBytes uint64

	// Reflection, if set, is consulted to canonicalize a decoded property's
	// name and type. A nil Reflection passes every property through as
	// stored.
	Reflection reflection.Database
}

// Decode reads one file from r. The returned Diagnostics records every
// recoverable problem encountered (unknown type ids, unknown data types,
// truncated PROP chunks); err is non-nil only for a fatal problem that left
// the document unusable.
func (d Decoder) Decode(r io.Reader) (*dom.Document, Diagnostics, error) {
	fr := parse.NewBinaryReader(r)
	if err := readHeader(fr); err != nil {
		return nil, nil, err
	}

	doc := &dom.Document{Metadata: make(map[string]string)}
	cat := newCatalog()
	instances := make(map[int32]*dom.Instance)
	parented := make(map[int32]bool)
	var diags Diagnostics

	index := 0
	for {
		raw, err := readChunk(fr, d.MaxChunkUncompressedBytes)
		if err != nil {
			return nil, diags, ChunkError{Index: index, Sig: raw.name, Cause: err}
		}
		body := parse.NewBinaryReader(bytes.NewReader(raw.payload))

		switch raw.name {
		case sigMeta:
			if err := d.decodeMeta(body, doc); err != nil {
				return nil, diags, ChunkError{Index: index, Sig: raw.name, Cause: err}
			}

		case sigInst:
			if err := d.decodeInst(body, cat, instances); err != nil {
				return nil, diags, ChunkError{Index: index, Sig: raw.name, Cause: err}
			}

		case sigProp:
			extra, err := d.decodeProp(body, cat, instances)
			diags = append(diags, extra...)
			if err != nil {
				return nil, diags, ChunkError{Index: index, Sig: raw.name, Cause: err}
			}

		case sigParent:
			if err := d.decodeParent(body, instances, parented); err != nil {
				return nil, diags, ChunkError{Index: index, Sig: raw.name, Cause: err}
			}

		case sigEnd:
			// The body is expected to equal endChunkContent, but a mismatch
			// is not fatal: nothing downstream depends on its exact bytes.
			goto done

		default:
			// An unrecognized chunk signature is forward-compatibility
			// noise, not an error: skip it and keep reading.
		}
		index++
	}

done:
	for ref := range instances {
		if ref == -1 {
			continue
		}
		if !parented[ref] {
			return nil, diags, ReferentUnresolved{Referent: ref}
		}
	}

	for _, rec := range sortedRecords(cat) {
		for _, ref := range rec.Referents {
			inst := instances[ref]
			if inst.Parent() == nil {
				doc.Roots = append(doc.Roots, inst)
			}
		}
	}

	return doc, diags, nil
}

// sortedRecords returns the catalog's class records in type-id order, giving
// Decode a deterministic root ordering.
func sortedRecords(cat *catalog) []*classRecord {
	recs := make([]*classRecord, 0, len(cat.byID))
	for _, rec := range cat.byID {
		recs = append(recs, rec)
	}
	for i := 1; i < len(recs); i++ {
		for j := i; j > 0 && recs[j-1].TypeID > recs[j].TypeID; j-- {
			recs[j-1], recs[j] = recs[j], recs[j-1]
		}
	}
	return recs
}

func (d Decoder) decodeMeta(body *parse.BinaryReader, doc *dom.Document) error {
	var count uint32
	if body.Number(&count) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	for i := uint32(0); i < count; i++ {
		key, err := readString(body)
		if err != nil {
			return TruncatedInput{Offset: -1, Cause: err}
		}
		value, err := readString(body)
		if err != nil {
			return TruncatedInput{Offset: -1, Cause: err}
		}
		doc.Metadata[key] = value
	}
	return nil
}

func (d Decoder) decodeInst(body *parse.BinaryReader, cat *catalog, instances map[int32]*dom.Instance) error {
	var typeID uint32
	if body.Number(&typeID) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	className, err := readString(body)
	if err != nil {
		return TruncatedInput{Offset: -1, Cause: err}
	}
	var objectFormat uint8
	if body.Number(&objectFormat) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	var count uint32
	if body.Number(&count) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}

	rec, err := cat.register(typeID, className, objectFormat != 0)
	if err != nil {
		return err
	}

	refBytes := make([]byte, int(count)*4)
	if count > 0 && body.Bytes(refBytes) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	refs, err := decodeReferentArray(refBytes, int(count))
	if err != nil {
		return TruncatedInput{Offset: -1, Cause: err}
	}
	rec.Referents = refs

	var markers []byte
	if rec.IsService {
		markers = make([]byte, count)
		if count > 0 && body.Bytes(markers) {
			return TruncatedInput{Offset: -1, Cause: body.Err()}
		}
	}

	for i, ref := range refs {
		inst := dom.NewInstance(className)
		if markers != nil && markers[i] == 1 {
			inst.IsService = true
		}
		instances[ref] = inst
	}
	return nil
}

// decodeProp reads one PROP chunk, returning any recoverable diagnostics
// produced along the way. A returned error is always fatal.
func (d Decoder) decodeProp(body *parse.BinaryReader, cat *catalog, instances map[int32]*dom.Instance) (Diagnostics, error) {
	var typeID uint32
	if body.Number(&typeID) {
		return nil, TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	propName, err := readString(body)
	if err != nil {
		return nil, TruncatedInput{Offset: -1, Cause: err}
	}
	if !utf8.ValidString(propName) {
		return nil, InvalidValue{Context: "PROP chunk", Cause: fmt.Errorf("property name %q is not valid UTF-8", propName)}
	}

	rec, known := cat.get(typeID)
	className := "?"
	if known {
		className = rec.ClassName
	}

	var dt uint8
	if body.Number(&dt) {
		diag := TruncatedPropChunk{Class: className, Property: propName}
		if d.Strict {
			return nil, diag
		}
		return Diagnostics{diag}, nil
	}
	t := wireType(dt)

	if !known {
		diag := UnknownTypeId{TypeId: typeID}
		if d.Strict {
			return nil, diag
		}
		return Diagnostics{diag}, nil
	}

	desc, hasDesc := d.canonical(rec.ClassName, propName)
	canonicalType := dom.Type(0)
	if hasDesc {
		canonicalType = desc.CanonicalType
	}

	if !t.valid() {
		diag := UnknownDataType{Class: rec.ClassName, Property: propName, DataType: dt}
		if d.Strict {
			return nil, diag
		}
		return Diagnostics{diag}, nil
	}

	rest, err := body.All()
	if err != nil {
		return nil, TruncatedInput{Offset: -1, Cause: err}
	}

	n := len(rec.Referents)
	var values []dom.Value
	if t == wireCFrame && hasDesc && canonicalType == dom.TypeOptionalCFrame {
		values, err = optionalCFramesFromBytes(rest, n)
	} else if t == wireReferent {
		values, err = d.decodeReferentColumn(rest, n, instances)
	} else {
		values, err = valuesFromBytes(t, rest, n)
	}
	if err != nil {
		return nil, InvalidValue{Context: fmt.Sprintf("%s.%s", rec.ClassName, propName), Cause: err}
	}

	name := propName
	if hasDesc {
		name = desc.CanonicalName
		for i, v := range values {
			values[i] = migrateValue(v, canonicalType)
		}
	}

	for i, ref := range rec.Referents {
		instances[ref].Set(name, values[i])
	}
	return nil, nil
}

func (d Decoder) canonical(class, name string) (reflection.Descriptor, bool) {
	if d.Reflection == nil {
		return reflection.Descriptor{}, false
	}
	return d.Reflection.Canonical(class, name)
}

// decodeReferentColumn decodes a column of type Referent, resolving each
// raw referent against instances already introduced by an INST chunk. A
// referent of -1 decodes to a nil ValueReferent (the "null" reference).
func (d Decoder) decodeReferentColumn(b []byte, n int, instances map[int32]*dom.Instance) ([]dom.Value, error) {
	refs, err := decodeReferentArray(b, n)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Value, n)
	for i, ref := range refs {
		if ref == -1 {
			out[i] = dom.ValueReferent{}
			continue
		}
		inst, ok := instances[ref]
		if !ok {
			return nil, ReferentUnresolved{Referent: ref}
		}
		out[i] = dom.ValueReferent{Instance: inst}
	}
	return out, nil
}

func (d Decoder) decodeParent(body *parse.BinaryReader, instances map[int32]*dom.Instance, parented map[int32]bool) error {
	var version uint8
	if body.Number(&version) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	if version != 0 {
		return BadVersion{Context: "PRNT chunk", Got: int(version)}
	}
	var count uint32
	if body.Number(&count) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}

	childBytes := make([]byte, int(count)*4)
	if count > 0 && body.Bytes(childBytes) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	children, err := decodeReferentArray(childBytes, int(count))
	if err != nil {
		return TruncatedInput{Offset: -1, Cause: err}
	}

	parentBytes := make([]byte, int(count)*4)
	if count > 0 && body.Bytes(parentBytes) {
		return TruncatedInput{Offset: -1, Cause: body.Err()}
	}
	parents, err := decodeReferentArray(parentBytes, int(count))
	if err != nil {
		return TruncatedInput{Offset: -1, Cause: err}
	}

	for i := 0; i < int(count); i++ {
		child, ok := instances[children[i]]
		if !ok {
			return ReferentUnresolved{Referent: children[i]}
		}
		var parent *dom.Instance
		if parents[i] != -1 {
			parent, ok = instances[parents[i]]
			if !ok {
				return ReferentUnresolved{Referent: parents[i]}
			}
		}
		if !child.SetParent(parent) {
			return InvalidValue{Context: "PRNT chunk", Cause: fmt.Errorf("referent %d: cyclic parent assignment", children[i])}
		}
		parented[children[i]] = true
	}
	return nil
}

// migrateValue implements the decoder's only direction of property-type
// migration: widening a narrower wire value up to the canonical type the
// reflection database reports. Any pairing this function does not
// recognize is returned unchanged, matching the "pass through verbatim"
// rule for properties with no narrower-to-wider relationship on record.
func migrateValue(v dom.Value, to dom.Type) dom.Value {
	if v == nil || v.Type() == to {
		return v
	}
	switch to {
	case dom.TypeInt64:
		if i, ok := v.(dom.ValueInt32); ok {
			return dom.ValueInt64(int64(i))
		}
	case dom.TypeFloat64:
		if f, ok := v.(dom.ValueFloat32); ok {
			return dom.ValueFloat64(float64(f))
		}
	case dom.TypeBrickColor:
		if i, ok := v.(dom.ValueInt32); ok {
			return dom.ValueBrickColor(int32(i))
		}
	}
	return v
}
