package reflection

import (
	"testing"

	"github.com/robloxapi/rbxbin/dom"
)

func TestStaticDatabaseCanonical(t *testing.T) {
	db := NewStaticDatabase(map[string]map[string]Descriptor{
		"Part": {
			"size": {CanonicalName: "Size", CanonicalType: dom.TypeVector3},
		},
	})

	desc, ok := db.Canonical("Part", "size")
	if !ok {
		t.Fatal("Canonical(Part, size) = false, want true")
	}
	if desc.CanonicalName != "Size" || desc.CanonicalType != dom.TypeVector3 {
		t.Errorf("got %+v", desc)
	}
}

func TestStaticDatabaseUnknownMiss(t *testing.T) {
	db := NewStaticDatabase(map[string]map[string]Descriptor{
		"Part": {
			"size": {CanonicalName: "Size", CanonicalType: dom.TypeVector3},
		},
	})

	if _, ok := db.Canonical("Part", "color"); ok {
		t.Error("Canonical(Part, color) = true, want false")
	}
	if _, ok := db.Canonical("Model", "size"); ok {
		t.Error("Canonical(Model, size) = true, want false")
	}
}

func TestStaticDatabaseEmpty(t *testing.T) {
	db := NewStaticDatabase(nil)
	if _, ok := db.Canonical("Part", "size"); ok {
		t.Error("Canonical on empty database = true, want false")
	}
}
