// Package rbxbin implements a decoder and encoder for Roblox's binary
// instance file format ("rbxm"/"rbxl", format version 0).
//
// The package is the binary codec only: chunk framing with optional LZ4
// compression, the column-oriented property encoding, and reconstruction of
// the instance tree from parallel referent arrays. It consumes and produces
// a Document Object Model through the narrow interfaces in the dom
// subpackage, and consults a reflection database through the interface in
// the reflection subpackage; neither the DOM nor the reflection database is
// implemented here.
//
// Decode and Encode are synchronous, single-threaded transformations
// between a byte stream and a *dom.Document. Two calls operating on
// disjoint Documents may run concurrently without coordination.
package rbxbin
