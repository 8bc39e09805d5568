package rbxbin

import (
	"bytes"
	"testing"

	"github.com/anaminus/parse"
)

// TestFileHeaderExactBytes pins the 16-byte file header to its exact wire
// form: the magic, the binary signature, and the version, with nothing else
// in between.
func TestFileHeaderExactBytes(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	if err := writeHeader(fw); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}

	want := append([]byte(fileMagic), fileSignature[:]...)
	want = append(want, 0x00, 0x00) // version 0, little-endian uint16
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("header bytes = % X, want % X", buf.Bytes(), want)
	}

	fr := parse.NewBinaryReader(bytes.NewReader(buf.Bytes()))
	if err := readHeader(fr); err != nil {
		t.Fatalf("readHeader: %v", err)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	bad := append([]byte("notroblox"), fileSignature[:]...)
	bad = append(bad, 0x00, 0x00)
	fr := parse.NewBinaryReader(bytes.NewReader(bad))
	if err := readHeader(fr); err == nil {
		t.Fatal("expected an error for bad magic, got nil")
	} else if _, ok := err.(MalformedHeader); !ok {
		t.Fatalf("expected MalformedHeader, got %T: %v", err, err)
	}
}

func TestReadHeaderRejectsBadVersion(t *testing.T) {
	bad := append([]byte(fileMagic), fileSignature[:]...)
	bad = append(bad, 0x01, 0x00) // version 1
	fr := parse.NewBinaryReader(bytes.NewReader(bad))
	err := readHeader(fr)
	if _, ok := err.(MalformedHeader); !ok {
		t.Fatalf("expected MalformedHeader, got %T: %v", err, err)
	}
}

func TestChunkRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		fw := parse.NewBinaryWriter(&buf)
		payload := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
		if err := writeChunk(fw, sigMeta, payload, compress); err != nil {
			t.Fatalf("writeChunk(compress=%v): %v", compress, err)
		}

		fr := parse.NewBinaryReader(bytes.NewReader(buf.Bytes()))
		raw, err := readChunk(fr, 0)
		if err != nil {
			t.Fatalf("readChunk(compress=%v): %v", compress, err)
		}
		if raw.name != sigMeta {
			t.Errorf("chunk name = %q, want %q", raw.name, sigMeta)
		}
		if !bytes.Equal(raw.payload, payload) {
			t.Errorf("chunk payload = %q, want %q", raw.payload, payload)
		}
	}
}

func TestReadChunkEnforcesMaxUncompressed(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	if err := writeChunk(fw, sigMeta, make([]byte, 100), false); err != nil {
		t.Fatalf("writeChunk: %v", err)
	}
	fr := parse.NewBinaryReader(bytes.NewReader(buf.Bytes()))
	_, err := readChunk(fr, 10)
	if _, ok := err.(BadCompression); !ok {
		t.Fatalf("expected BadCompression, got %T: %v", err, err)
	}
}
