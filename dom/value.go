package dom

import (
	"fmt"
	"strconv"
)

// Type identifies the closed set of property data types the codec knows how
// to encode and decode. It mirrors the type table in the binary format
// specification, not Roblox's full type system (there is no BinaryString,
// ProtectedString, Content, or SharedString here — those are textual-format
// or newer-format concerns outside this module's scope).
type Type byte

const (
	TypeInvalid Type = iota
	TypeString
	TypeBool
	TypeInt32
	TypeFloat32
	TypeFloat64
	TypeUDim
	TypeUDim2
	TypeRay
	TypeFaces
	TypeAxis
	TypeBrickColor
	TypeColor3
	TypeVector2
	TypeVector3
	TypeCFrame
	TypeOptionalCFrame
	TypeEnum
	TypeReferent
	TypeVector3int16
	TypeNumberSequence
	TypeColorSequence
	TypeNumberRange
	TypeRect
	TypePhysicalProperties
	TypeColor3uint8
	TypeInt64
)

var typeNames = map[Type]string{
	TypeString:             "String",
	TypeBool:               "Bool",
	TypeInt32:              "Int32",
	TypeFloat32:            "Float32",
	TypeFloat64:            "Float64",
	TypeUDim:               "UDim",
	TypeUDim2:              "UDim2",
	TypeRay:                "Ray",
	TypeFaces:              "Faces",
	TypeAxis:               "Axis",
	TypeBrickColor:         "BrickColor",
	TypeColor3:             "Color3",
	TypeVector2:            "Vector2",
	TypeVector3:            "Vector3",
	TypeCFrame:             "CFrame",
	TypeOptionalCFrame:     "OptionalCFrame",
	TypeEnum:               "Enum",
	TypeReferent:           "Referent",
	TypeVector3int16:       "Vector3int16",
	TypeNumberSequence:     "NumberSequence",
	TypeColorSequence:      "ColorSequence",
	TypeNumberRange:        "NumberRange",
	TypeRect:               "Rect",
	TypePhysicalProperties: "PhysicalProperties",
	TypeColor3uint8:        "Color3uint8",
	TypeInt64:              "Int64",
}

// String returns the type's name, or "Invalid" if it is not a known type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Invalid"
}

// Value holds a property value of a particular Type.
type Value interface {
	// Type returns an identifier indicating the type.
	Type() Type

	// String returns a human-readable representation of the value.
	String() string
}

////////////////////////////////////////////////////////////////

type ValueString string

func (ValueString) Type() Type        { return TypeString }
func (v ValueString) String() string  { return string(v) }

type ValueBool bool

func (ValueBool) Type() Type       { return TypeBool }
func (v ValueBool) String() string { return strconv.FormatBool(bool(v)) }

type ValueInt32 int32

func (ValueInt32) Type() Type       { return TypeInt32 }
func (v ValueInt32) String() string { return strconv.FormatInt(int64(v), 10) }

type ValueInt64 int64

func (ValueInt64) Type() Type       { return TypeInt64 }
func (v ValueInt64) String() string { return strconv.FormatInt(int64(v), 10) }

type ValueFloat32 float32

func (ValueFloat32) Type() Type       { return TypeFloat32 }
func (v ValueFloat32) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

type ValueFloat64 float64

func (ValueFloat64) Type() Type       { return TypeFloat64 }
func (v ValueFloat64) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type ValueUDim struct {
	Scale  float32
	Offset int32
}

func (ValueUDim) Type() Type { return TypeUDim }
func (v ValueUDim) String() string {
	return fmt.Sprintf("{%s, %d}", strconv.FormatFloat(float64(v.Scale), 'g', -1, 32), v.Offset)
}

type ValueUDim2 struct {
	X, Y ValueUDim
}

func (ValueUDim2) Type() Type { return TypeUDim2 }
func (v ValueUDim2) String() string {
	return fmt.Sprintf("{%s, %s}", v.X.String(), v.Y.String())
}

type ValueRay struct {
	Origin, Direction ValueVector3
}

func (ValueRay) Type() Type { return TypeRay }
func (v ValueRay) String() string {
	return fmt.Sprintf("{%s, %s}", v.Origin.String(), v.Direction.String())
}

type ValueFaces struct {
	Right, Top, Back, Left, Bottom, Front bool
}

func (ValueFaces) Type() Type { return TypeFaces }
func (v ValueFaces) String() string {
	return fmt.Sprintf("{%t %t %t %t %t %t}", v.Right, v.Top, v.Back, v.Left, v.Bottom, v.Front)
}

type ValueAxis struct {
	X, Y, Z bool
}

func (ValueAxis) Type() Type { return TypeAxis }
func (v ValueAxis) String() string {
	return fmt.Sprintf("{%t %t %t}", v.X, v.Y, v.Z)
}

type ValueBrickColor int32

func (ValueBrickColor) Type() Type       { return TypeBrickColor }
func (v ValueBrickColor) String() string { return strconv.FormatInt(int64(v), 10) }

type ValueColor3 struct {
	R, G, B float32
}

func (ValueColor3) Type() Type { return TypeColor3 }
func (v ValueColor3) String() string {
	return fmt.Sprintf("{%g, %g, %g}", v.R, v.G, v.B)
}

type ValueVector2 struct {
	X, Y float32
}

func (ValueVector2) Type() Type { return TypeVector2 }
func (v ValueVector2) String() string {
	return fmt.Sprintf("{%g, %g}", v.X, v.Y)
}

type ValueVector3 struct {
	X, Y, Z float32
}

func (ValueVector3) Type() Type { return TypeVector3 }
func (v ValueVector3) String() string {
	return fmt.Sprintf("{%g, %g, %g}", v.X, v.Y, v.Z)
}

// ValueCFrame is a rotation matrix (row-major, 9 floats) plus a position.
type ValueCFrame struct {
	Rotation [9]float32
	Position ValueVector3
}

func (ValueCFrame) Type() Type { return TypeCFrame }
func (v ValueCFrame) String() string {
	return fmt.Sprintf("{%v, %s}", v.Rotation, v.Position.String())
}

// ValueOptionalCFrame carries a CFrame that may be absent.
type ValueOptionalCFrame struct {
	CFrame *ValueCFrame
}

func (ValueOptionalCFrame) Type() Type { return TypeOptionalCFrame }
func (v ValueOptionalCFrame) String() string {
	if v.CFrame == nil {
		return "<none>"
	}
	return v.CFrame.String()
}

type ValueEnum uint32

func (ValueEnum) Type() Type       { return TypeEnum }
func (v ValueEnum) String() string { return strconv.FormatUint(uint64(v), 10) }

// ValueReferent points at another instance in the same document, or at
// nothing (nil Instance).
type ValueReferent struct {
	Instance *Instance
}

func (ValueReferent) Type() Type { return TypeReferent }
func (v ValueReferent) String() string {
	if v.Instance == nil {
		return "null"
	}
	return fmt.Sprintf("<%p>", v.Instance)
}

type ValueVector3int16 struct {
	X, Y, Z int16
}

func (ValueVector3int16) Type() Type { return TypeVector3int16 }
func (v ValueVector3int16) String() string {
	return fmt.Sprintf("{%d, %d, %d}", v.X, v.Y, v.Z)
}

type NumberSequenceKeypoint struct {
	Time, Value, Envelope float32
}

type ValueNumberSequence []NumberSequenceKeypoint

func (ValueNumberSequence) Type() Type { return TypeNumberSequence }
func (v ValueNumberSequence) String() string {
	return fmt.Sprintf("<%d keypoints>", len(v))
}

type ColorSequenceKeypoint struct {
	Time     float32
	Value    ValueColor3
	Envelope float32
}

type ValueColorSequence []ColorSequenceKeypoint

func (ValueColorSequence) Type() Type { return TypeColorSequence }
func (v ValueColorSequence) String() string {
	return fmt.Sprintf("<%d keypoints>", len(v))
}

type ValueNumberRange struct {
	Min, Max float32
}

func (ValueNumberRange) Type() Type { return TypeNumberRange }
func (v ValueNumberRange) String() string {
	return fmt.Sprintf("{%g, %g}", v.Min, v.Max)
}

type ValueRect struct {
	Min, Max ValueVector2
}

func (ValueRect) Type() Type { return TypeRect }
func (v ValueRect) String() string {
	return fmt.Sprintf("{%s, %s}", v.Min.String(), v.Max.String())
}

// ValuePhysicalProperties carries custom physical material properties. When
// Custom is false, all the numeric fields are zero and the instance is
// expected to use its class's default material.
type ValuePhysicalProperties struct {
	Custom           bool
	Density          float32
	Friction         float32
	Elasticity       float32
	FrictionWeight   float32
	ElasticityWeight float32
	CrossFriction    float32
	CrossElasticity  float32
}

func (ValuePhysicalProperties) Type() Type { return TypePhysicalProperties }
func (v ValuePhysicalProperties) String() string {
	if !v.Custom {
		return "<default>"
	}
	return fmt.Sprintf("{%g %g %g %g %g %g %g}", v.Density, v.Friction, v.Elasticity,
		v.FrictionWeight, v.ElasticityWeight, v.CrossFriction, v.CrossElasticity)
}

type ValueColor3uint8 struct {
	R, G, B uint8
}

func (ValueColor3uint8) Type() Type { return TypeColor3uint8 }
func (v ValueColor3uint8) String() string {
	return fmt.Sprintf("{%d, %d, %d}", v.R, v.G, v.B)
}

// Default returns the default value for t, or nil if t is not a known type.
// This is the zero value of the type, except that a CFrame's rotation is the
// identity matrix.
func Default(t Type) Value {
	switch t {
	case TypeString:
		return ValueString("")
	case TypeBool:
		return ValueBool(false)
	case TypeInt32:
		return ValueInt32(0)
	case TypeInt64:
		return ValueInt64(0)
	case TypeFloat32:
		return ValueFloat32(0)
	case TypeFloat64:
		return ValueFloat64(0)
	case TypeUDim:
		return ValueUDim{}
	case TypeUDim2:
		return ValueUDim2{}
	case TypeRay:
		return ValueRay{}
	case TypeFaces:
		return ValueFaces{}
	case TypeAxis:
		return ValueAxis{}
	case TypeBrickColor:
		return ValueBrickColor(0)
	case TypeColor3:
		return ValueColor3{}
	case TypeVector2:
		return ValueVector2{}
	case TypeVector3:
		return ValueVector3{}
	case TypeCFrame:
		return ValueCFrame{Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
	case TypeOptionalCFrame:
		return ValueOptionalCFrame{}
	case TypeEnum:
		return ValueEnum(0)
	case TypeReferent:
		return ValueReferent{}
	case TypeVector3int16:
		return ValueVector3int16{}
	case TypeNumberSequence:
		return ValueNumberSequence{}
	case TypeColorSequence:
		return ValueColorSequence{}
	case TypeNumberRange:
		return ValueNumberRange{}
	case TypeRect:
		return ValueRect{}
	case TypePhysicalProperties:
		return ValuePhysicalProperties{}
	case TypeColor3uint8:
		return ValueColor3uint8{}
	default:
		return nil
	}
}
