package rbxbin

import (
	"fmt"
	"strings"
)

// MalformedHeader indicates that the file's magic, signature, or version
// field did not match what the format requires.
type MalformedHeader struct {
	Cause error
}

func (err MalformedHeader) Error() string {
	return "malformed header: " + err.Cause.Error()
}

func (err MalformedHeader) Unwrap() error { return err.Cause }

// TruncatedInput indicates a short read inside a chunk or value.
type TruncatedInput struct {
	// Offset is the byte offset at which the read failed, or -1 if unknown.
	Offset int64
	Cause  error
}

func (err TruncatedInput) Error() string {
	var s strings.Builder
	s.WriteString("truncated input")
	if err.Offset >= 0 {
		fmt.Fprintf(&s, " at %d", err.Offset)
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err TruncatedInput) Unwrap() error { return err.Cause }

// BadCompression indicates an LZ4 error, or that a chunk's decompressed
// length did not match its declared uncompressed length.
type BadCompression struct {
	Chunk string
	Cause error
}

func (err BadCompression) Error() string {
	return fmt.Sprintf("bad compression in %q chunk: %s", err.Chunk, err.Cause.Error())
}

func (err BadCompression) Unwrap() error { return err.Cause }

// BadVersion indicates a PRNT chunk version other than 0.
type BadVersion struct {
	Context string
	Got     int
}

func (err BadVersion) Error() string {
	return fmt.Sprintf("unrecognized %s version %d", err.Context, err.Got)
}

// ReferentUnresolved indicates that a PRNT chunk or a Referent column
// referenced a referent that was never introduced by an INST chunk, or that
// an instance introduced by an INST chunk was never given a parent entry by
// a PRNT chunk.
type ReferentUnresolved struct {
	Referent int32
}

func (err ReferentUnresolved) Error() string {
	return fmt.Sprintf("unresolved referent %d", err.Referent)
}

// InvalidValue indicates a value payload that fails an internal constraint,
// such as a property name that is not valid UTF-8.
type InvalidValue struct {
	Context string
	Cause   error
}

func (err InvalidValue) Error() string {
	if err.Cause == nil {
		return "invalid value: " + err.Context
	}
	return fmt.Sprintf("invalid value: %s: %s", err.Context, err.Cause.Error())
}

func (err InvalidValue) Unwrap() error { return err.Cause }

// WideningRefused indicates that a DOM value could not be represented in its
// property's canonical type without loss of information.
type WideningRefused struct {
	Class, Property string
	From, To        string
}

func (err WideningRefused) Error() string {
	return fmt.Sprintf("%s.%s: cannot widen %s to %s without loss", err.Class, err.Property, err.From, err.To)
}

// ChunkError wraps an error encountered while decoding or encoding a
// particular chunk.
type ChunkError struct {
	Index int
	Sig   string
	Cause error
}

func (err ChunkError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("%q chunk: %s", err.Sig, err.Cause.Error())
	}
	return fmt.Sprintf("#%d %q chunk: %s", err.Index, err.Sig, err.Cause.Error())
}

func (err ChunkError) Unwrap() error { return err.Cause }

////////////////////////////////////////////////////////////////

// UnknownTypeId is a recoverable diagnostic: a PROP or PRNT chunk referred to
// a type id that no INST chunk registered. The property is dropped.
type UnknownTypeId struct {
	TypeId uint32
}

func (err UnknownTypeId) Error() string {
	return fmt.Sprintf("unknown type id %d", err.TypeId)
}

// UnknownDataType is a recoverable diagnostic: a PROP chunk's data type byte
// was not recognized. The whole PROP chunk is skipped.
type UnknownDataType struct {
	Class, Property string
	DataType        byte
}

func (err UnknownDataType) Error() string {
	return fmt.Sprintf("%s.%s: unknown data type 0x%02X", err.Class, err.Property, err.DataType)
}

// TruncatedPropChunk is a recoverable diagnostic: a PROP chunk body ended
// right after the property name, before the data-type byte. The chunk is
// skipped.
type TruncatedPropChunk struct {
	Class, Property string
}

func (err TruncatedPropChunk) Error() string {
	return fmt.Sprintf("%s.%s: prop chunk truncated before data type byte", err.Class, err.Property)
}

// Diagnostics collects recoverable problems observed during a decode pass.
// It is the out-of-band channel described by the format: none of these
// prevent Decode from returning a usable Document.
type Diagnostics []error

func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return d[0].Error()
	default:
		var s strings.Builder
		s.WriteString("multiple diagnostics:")
		for _, err := range d {
			s.WriteString("\n\t")
			s.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
		}
		return s.String()
	}
}

// Append adds each non-nil err to d and returns the result.
func (d Diagnostics) Append(errs ...error) Diagnostics {
	for _, err := range errs {
		if err != nil {
			d = append(d, err)
		}
	}
	return d
}
