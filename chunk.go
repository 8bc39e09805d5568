package rbxbin

import (
	"encoding/binary"
	"fmt"

	"github.com/anaminus/parse"
	lz4 "github.com/bkaradzic/go-lz4"
)

// rawChunk is one decompressed chunk body plus the 4-byte name that tagged
// it on the wire.
type rawChunk struct {
	name       string
	compressed bool
	payload    []byte
}

// readChunk reads one chunk header and body from fr, decompressing it if
// the header says so.
func readChunk(fr *parse.BinaryReader, maxUncompressed uint64) (rawChunk, error) {
	var c rawChunk
	name := make([]byte, 4)
	if fr.Bytes(name) {
		return c, TruncatedInput{Offset: -1, Cause: fr.Err()}
	}
	c.name = string(name)

	var compressedLength, uncompressedLength uint32
	if fr.Number(&compressedLength) {
		return c, TruncatedInput{Offset: -1, Cause: fr.Err()}
	}
	if fr.Number(&uncompressedLength) {
		return c, TruncatedInput{Offset: -1, Cause: fr.Err()}
	}
	reserved := make([]byte, 4)
	if fr.Bytes(reserved) {
		return c, TruncatedInput{Offset: -1, Cause: fr.Err()}
	}

	if maxUncompressed != 0 && uint64(uncompressedLength) > maxUncompressed {
		return c, BadCompression{Chunk: c.name, Cause: fmt.Errorf(
			"uncompressed length %d exceeds configured maximum %d", uncompressedLength, maxUncompressed)}
	}

	c.payload = make([]byte, uncompressedLength)
	if compressedLength == 0 {
		c.compressed = false
		if fr.Bytes(c.payload) {
			return c, TruncatedInput{Offset: -1, Cause: fr.Err()}
		}
		return c, nil
	}

	c.compressed = true
	// go-lz4 expects the uncompressed length prepended to the compressed
	// payload; we read the compressed bytes straight after that prefix.
	compressedData := make([]byte, compressedLength+4)
	binary.LittleEndian.PutUint32(compressedData, uncompressedLength)
	if fr.Bytes(compressedData[4:]) {
		return c, TruncatedInput{Offset: -1, Cause: fr.Err()}
	}
	out, err := lz4.Decode(c.payload, compressedData)
	if err != nil {
		return c, BadCompression{Chunk: c.name, Cause: err}
	}
	if len(out) != int(uncompressedLength) {
		return c, BadCompression{Chunk: c.name, Cause: fmt.Errorf(
			"decompressed %d bytes, header declares %d", len(out), uncompressedLength)}
	}
	c.payload = out
	return c, nil
}

// writeChunk writes a chunk's header and body, compressing it with LZ4
// unless compress is false.
func writeChunk(fw *parse.BinaryWriter, name string, payload []byte, compress bool) error {
	if len(name) != 4 {
		panic("rbxbin: chunk name must be 4 bytes")
	}
	if fw.Bytes([]byte(name)) {
		return fw.Err()
	}

	if !compress {
		if fw.Number(uint32(0)) {
			return fw.Err()
		}
		if fw.Number(uint32(len(payload))) {
			return fw.Err()
		}
		if fw.Number(uint32(0)) {
			return fw.Err()
		}
		return firstErr(fw.Bytes(payload), fw.Err())
	}

	var compressedData []byte
	compressedData, err := lz4.Encode(compressedData, payload)
	if err != nil {
		return BadCompression{Chunk: name, Cause: err}
	}
	if binary.LittleEndian.Uint32(compressedData[:4]) != uint32(len(payload)) {
		return BadCompression{Chunk: name, Cause: fmt.Errorf("lz4 uncompressed length mismatch")}
	}
	compressedPayload := compressedData[4:]

	if fw.Number(uint32(len(compressedPayload))) {
		return fw.Err()
	}
	if fw.Number(uint32(len(payload))) {
		return fw.Err()
	}
	if fw.Number(uint32(0)) {
		return fw.Err()
	}
	if fw.Bytes(compressedPayload) {
		return fw.Err()
	}
	return nil
}

func firstErr(failed bool, err error) error {
	if failed {
		return err
	}
	return nil
}

////////////////////////////////////////////////////////////////

// readHeader validates the 16-byte file header, matching testable property
// 1 exactly on write (see encoder.go).
func readHeader(fr *parse.BinaryReader) error {
	magic := make([]byte, len(fileMagic))
	if fr.Bytes(magic) {
		return MalformedHeader{Cause: fr.Err()}
	}
	if string(magic) != fileMagic {
		return MalformedHeader{Cause: fmt.Errorf("bad magic %q", magic)}
	}

	sig := make([]byte, len(fileSignature))
	if fr.Bytes(sig) {
		return MalformedHeader{Cause: fr.Err()}
	}
	for i, b := range fileSignature {
		if sig[i] != b {
			return MalformedHeader{Cause: fmt.Errorf("bad signature % X", sig)}
		}
	}

	var version uint16
	if fr.Number(&version) {
		return MalformedHeader{Cause: fr.Err()}
	}
	if version != formatVersion {
		return MalformedHeader{Cause: fmt.Errorf("unsupported version %d", version)}
	}
	return nil
}

func writeHeader(fw *parse.BinaryWriter) error {
	if fw.Bytes([]byte(fileMagic)) {
		return fw.Err()
	}
	if fw.Bytes(fileSignature[:]) {
		return fw.Err()
	}
	if fw.Number(formatVersion) {
		return fw.Err()
	}
	return nil
}

////////////////////////////////////////////////////////////////

func readString(fr *parse.BinaryReader) (string, error) {
	var length uint32
	if fr.Number(&length) {
		return "", fr.Err()
	}
	s := make([]byte, length)
	if fr.Bytes(s) {
		return "", fr.Err()
	}
	return string(s), nil
}

func writeString(fw *parse.BinaryWriter, s string) error {
	if fw.Number(uint32(len(s))) {
		return fw.Err()
	}
	if fw.Bytes([]byte(s)) {
		return fw.Err()
	}
	return nil
}
