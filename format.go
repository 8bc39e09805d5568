package rbxbin

// fileMagic is the 8-byte magic that opens every file, followed by the
// binary signature that distinguishes this format from the legacy XML one.
const fileMagic = "<roblox!"

// fileSignature follows fileMagic and identifies the binary variant.
var fileSignature = [6]byte{0x89, 0xFF, 0x0D, 0x0A, 0x1A, 0x0A}

// formatVersion is the only version this codec understands.
const formatVersion uint16 = 0

// Chunk signatures, stored on the wire as 4 bytes, NUL-padded on the right
// when the name is shorter than 4 characters.
const (
	sigMeta   = "META"
	sigInst   = "INST"
	sigProp   = "PROP"
	sigParent = "PRNT"
	sigEnd    = "END\x00"
)

// endChunkContent is the fixed, uncompressed body of the END chunk.
const endChunkContent = "</roblox>"

////////////////////////////////////////////////////////////////

// wireType identifies a property's on-wire data type. Only values in this
// closed set are understood; anything else is UnknownDataType.
type wireType byte

const (
	wireInvalid             wireType = 0x00
	wireString              wireType = 0x01
	wireBool                wireType = 0x02
	wireInt32               wireType = 0x03
	wireFloat32             wireType = 0x04
	wireFloat64             wireType = 0x05
	wireUDim                wireType = 0x06
	wireUDim2               wireType = 0x07
	wireRay                 wireType = 0x08
	wireFaces               wireType = 0x09
	wireAxis                wireType = 0x0A
	wireBrickColor          wireType = 0x0B
	wireColor3              wireType = 0x0C
	wireVector2             wireType = 0x0D
	wireVector3             wireType = 0x0E
	wireCFrame              wireType = 0x10
	wireOptionalCFrame      wireType = 0x1D
	wireEnum                wireType = 0x12
	wireReferent            wireType = 0x13
	wireVector3int16        wireType = 0x14
	wireNumberSequence      wireType = 0x15
	wireColorSequence       wireType = 0x16
	wireNumberRange         wireType = 0x17
	wireRect                wireType = 0x18
	wirePhysicalProperties  wireType = 0x19
	wireColor3uint8         wireType = 0x1A
	wireInt64               wireType = 0x1B
)

// wireOptionalCFrame (0x1D) is this module's own choice of id for
// OptionalCFrame: spec.md describes its wire form (rotation-tag byte 0x10
// reused, then a trailing presence byte) but never assigns it a type-id byte
// of its own, since on the wire a PROP chunk's data-type byte for an
// OptionalCFrame column is still the ordinary CFrame tag 0x10 — the
// "optional-ness" is a property-level distinction (declared by the
// reflection database), not a distinct byte an unaware reader would ever
// see. 0x1D is used internally to distinguish the two in code that talks
// about canonical types (widening, reflection lookups); it is never written
// to or read from a PROP chunk's data-type byte. See DESIGN.md.
