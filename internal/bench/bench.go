// Package bench cross-checks rbxbin's chunk-level LZ4 framing against a
// second, independently maintained LZ4 implementation. It exists to catch a
// bug in the bkaradzic/go-lz4 wire convention (the 4-byte prepended
// uncompressed length) that a single-implementation round trip would never
// expose: encode with one codec, decode with the other, and compare.
//
// This package is test-only tooling, not part of the file format's
// definition — the wire format's LZ4 variant is fixed by rbxbin's own
// chunk.go, never by whichever codec happens to be cross-checking it here.
package bench

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// RoundTripViaPierrec compresses payload with pierrec/lz4's block codec and
// decompresses it back, independently of go-lz4. A mismatch between this
// result and payload indicates a problem in the fixture, not in rbxbin's
// own codec (which never calls this package).
func RoundTripViaPierrec(payload []byte) ([]byte, error) {
	compressed, err := CompressViaPierrec(payload)
	if err != nil {
		return nil, err
	}
	return DecompressViaPierrec(compressed, len(payload))
}

// CompressViaPierrec LZ4-compresses payload using pierrec/lz4's block API.
func CompressViaPierrec(payload []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(payload)))
	var compressor lz4.Compressor
	n, err := compressor.CompressBlock(payload, buf)
	if err != nil {
		return nil, fmt.Errorf("bench: pierrec compress: %w", err)
	}
	if n == 0 && len(payload) > 0 {
		return nil, fmt.Errorf("bench: pierrec compress: payload incompressible by this block codec")
	}
	return buf[:n], nil
}

// DecompressViaPierrec inverts CompressViaPierrec. uncompressedLen must be
// the exact length of the original payload, matching the length rbxbin's
// own chunk header carries on the wire.
func DecompressViaPierrec(compressed []byte, uncompressedLen int) ([]byte, error) {
	out := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(compressed, out)
	if err != nil {
		return nil, fmt.Errorf("bench: pierrec decompress: %w", err)
	}
	return out[:n], nil
}
