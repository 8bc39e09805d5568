package rbxbin

import "fmt"

var wireTypeNames = map[wireType]string{
	wireString:             "String",
	wireBool:               "Bool",
	wireInt32:              "Int32",
	wireFloat32:            "Float32",
	wireFloat64:            "Float64",
	wireUDim:               "UDim",
	wireUDim2:              "UDim2",
	wireRay:                "Ray",
	wireFaces:              "Faces",
	wireAxis:               "Axis",
	wireBrickColor:         "BrickColor",
	wireColor3:             "Color3",
	wireVector2:            "Vector2",
	wireVector3:            "Vector3",
	wireCFrame:             "CFrame",
	wireOptionalCFrame:     "OptionalCFrame",
	wireEnum:               "Enum",
	wireReferent:           "Referent",
	wireVector3int16:       "Vector3int16",
	wireNumberSequence:     "NumberSequence",
	wireColorSequence:      "ColorSequence",
	wireNumberRange:        "NumberRange",
	wireRect:               "Rect",
	wirePhysicalProperties: "PhysicalProperties",
	wireColor3uint8:        "Color3uint8",
	wireInt64:              "Int64",
}

func (t wireType) String() string {
	if s, ok := wireTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(0x%02X)", byte(t))
}

// valid reports whether t is part of the closed set of data types this codec
// understands. wireOptionalCFrame is deliberately excluded: it is never a
// value actually found in a PROP chunk's data-type byte (see format.go).
func (t wireType) valid() bool {
	_, ok := wireTypeNames[t]
	return ok && t != wireOptionalCFrame
}
