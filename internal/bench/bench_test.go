package bench

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robloxapi/rbxbin"
	"github.com/robloxapi/rbxbin/dom"
)

func TestRoundTripViaPierrecMatchesOriginal(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 50)
	got, err := RoundTripViaPierrec(payload)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestRoundTripViaPierrecEmptyPayload(t *testing.T) {
	got, err := RoundTripViaPierrec(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

// TestPierrecDecodesGoLZ4Chunk cross-checks the two LZ4 implementations
// against the same bytes: a chunk compressed by rbxbin's own encoder (via
// bkaradzic/go-lz4) is pulled out of the wire stream and handed to
// pierrec/lz4 for decompression. Both implementations follow the same LZ4
// block format, so they must agree.
func TestPierrecDecodesGoLZ4Chunk(t *testing.T) {
	wantName := string(bytes.Repeat([]byte("Test"), 200))
	part := dom.NewInstance("Part")
	part.Set("Name", dom.ValueString(wantName))
	doc := &dom.Document{Roots: []*dom.Instance{part}}

	var buf bytes.Buffer
	require.NoError(t, (rbxbin.Encoder{}).Encode(doc, &buf))

	compressed, uncompressedLen, ok := firstCompressedPropChunk(buf.Bytes())
	require.True(t, ok, "expected at least one compressed PROP chunk in the fixture")

	// pierrec must be able to decompress bytes go-lz4 produced, since both
	// implement the same LZ4 block format.
	got, err := DecompressViaPierrec(compressed, uncompressedLen)
	require.NoError(t, err)
	require.Len(t, got, uncompressedLen)

	// And rbxbin's own decoder (using go-lz4 throughout) must agree on the
	// resulting document, confirming the cross-check exercised a real
	// compressed chunk rather than an accidentally-verbatim one.
	decodedDoc, _, err := (rbxbin.Decoder{}).Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	name, ok := decodedDoc.Roots[0].Get("Name").(dom.ValueString)
	require.True(t, ok)
	require.Equal(t, wantName, string(name))
}

// firstCompressedPropChunk scans a chunk stream for the first PROP chunk
// that was actually compressed (compressedLength != 0) and returns its raw
// compressed bytes plus the uncompressed length recorded in its header.
func firstCompressedPropChunk(data []byte) (compressed []byte, uncompressedLen int, ok bool) {
	off := 16 // file header
	for off+16 <= len(data) {
		name := string(data[off : off+4])
		compLen := int(le32(data[off+4:]))
		uncompLen := int(le32(data[off+8:]))
		bodyOff := off + 16
		if name == "PROP" && compLen != 0 {
			return data[bodyOff : bodyOff+compLen], uncompLen, true
		}
		if compLen == 0 {
			off = bodyOff + uncompLen
		} else {
			off = bodyOff + compLen
		}
	}
	return nil, 0, false
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
