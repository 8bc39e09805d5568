package dom

import "testing"

func TestDefaultKnownTypes(t *testing.T) {
	cases := []Type{
		TypeString, TypeBool, TypeInt32, TypeInt64, TypeFloat32, TypeFloat64,
		TypeUDim, TypeUDim2, TypeRay, TypeFaces, TypeAxis, TypeBrickColor,
		TypeColor3, TypeVector2, TypeVector3, TypeCFrame, TypeOptionalCFrame,
		TypeEnum, TypeReferent, TypeVector3int16, TypeNumberSequence,
		TypeColorSequence, TypeNumberRange, TypeRect, TypePhysicalProperties,
		TypeColor3uint8,
	}
	for _, typ := range cases {
		v := Default(typ)
		if v == nil {
			t.Errorf("Default(%s) = nil", typ)
			continue
		}
		if v.Type() != typ {
			t.Errorf("Default(%s).Type() = %s", typ, v.Type())
		}
	}
}

func TestDefaultUnknownType(t *testing.T) {
	if v := Default(TypeInvalid); v != nil {
		t.Errorf("Default(TypeInvalid) = %#v, want nil", v)
	}
}

func TestDefaultCFrameIsIdentity(t *testing.T) {
	cf, ok := Default(TypeCFrame).(ValueCFrame)
	if !ok {
		t.Fatalf("Default(TypeCFrame) is not a ValueCFrame: %#v", Default(TypeCFrame))
	}
	want := [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if cf.Rotation != want {
		t.Errorf("Rotation = %v, want %v", cf.Rotation, want)
	}
}

func TestTypeStringUnknown(t *testing.T) {
	if got := Type(255).String(); got != "Invalid" {
		t.Errorf("Type(255).String() = %q, want %q", got, "Invalid")
	}
}

func TestValueReferentStringNull(t *testing.T) {
	var v ValueReferent
	if got := v.String(); got != "null" {
		t.Errorf("String() = %q, want %q", got, "null")
	}
}
