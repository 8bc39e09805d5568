// Package reflection defines the narrow interface rbxbin consults to
// canonicalize property names and types. The reflection database itself —
// the full mapping of every Roblox class's properties, defaults, and
// migration rules — is an external collaborator and is not implemented
// here; this package only describes the read-only oracle the codec expects
// and provides a minimal in-memory implementation for tests and tooling.
package reflection

import (
	"github.com/cespare/xxhash/v2"

	"github.com/robloxapi/rbxbin/dom"
)

// Descriptor is what the reflection database reports for one serialized
// property.
type Descriptor struct {
	// CanonicalName is the property's current name, which may differ from
	// the name stored in the file (properties are sometimes renamed across
	// versions).
	CanonicalName string

	// CanonicalType is the type the property should be represented as in
	// the DOM, which may be wider than the type actually stored on the wire
	// (see migrateValue and narrowValue in the rbxbin package).
	CanonicalType dom.Type

	// Default is the value used to fill a column when an instance does not
	// contribute one.
	Default dom.Value
}

// Database maps a (class name, serialized property name) pair to its
// canonical descriptor. The codec treats a missing entry as "pass through
// verbatim": the serialized name and type are kept as-is.
type Database interface {
	Canonical(class, serializedName string) (Descriptor, bool)
}

////////////////////////////////////////////////////////////////

type key struct {
	class, name string
}

// StaticDatabase is a minimal in-memory Database built from a fixed table of
// descriptors, suitable for tests and for tools that ship a small, curated
// set of known properties. Lookups are keyed by an xxhash of the (class,
// property) pair rather than the concatenated string, avoiding an
// allocation on every canonicalization call in the hot decode path.
type StaticDatabase struct {
	entries map[uint64]classEntry
}

type classEntry struct {
	key  key
	desc Descriptor
}

// NewStaticDatabase builds a StaticDatabase from class -> property ->
// descriptor entries.
func NewStaticDatabase(classes map[string]map[string]Descriptor) *StaticDatabase {
	db := &StaticDatabase{entries: make(map[uint64]classEntry)}
	for class, props := range classes {
		for name, desc := range props {
			h := hashKey(class, name)
			db.entries[h] = classEntry{key: key{class, name}, desc: desc}
		}
	}
	return db
}

func hashKey(class, name string) uint64 {
	var d xxhash.Digest
	d.Reset()
	d.WriteString(class)
	d.WriteString("\x00")
	d.WriteString(name)
	return d.Sum64()
}

// Canonical implements Database.
func (db *StaticDatabase) Canonical(class, serializedName string) (Descriptor, bool) {
	h := hashKey(class, serializedName)
	entry, ok := db.entries[h]
	if !ok || entry.key.class != class || entry.key.name != serializedName {
		// A hash collision lands here with ok==true but mismatched key;
		// treat it the same as "unknown" since xxhash is not collision-free
		// and this is a cache, not a source of truth.
		return Descriptor{}, false
	}
	return entry.desc, true
}
