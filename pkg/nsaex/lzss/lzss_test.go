package lzss

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// bitWriter is a tiny MSB-first bit packer used only to build test
// fixtures; it mirrors the reader's bit order.
type bitWriter struct {
	bytes []byte
	cur   byte
	nbit  int
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = w.cur<<1 | bit
		w.nbit++
		if w.nbit == 8 {
			w.bytes = append(w.bytes, w.cur)
			w.cur = 0
			w.nbit = 0
		}
	}
}

func (w *bitWriter) flush() []byte {
	if w.nbit > 0 {
		w.cur <<= uint(8 - w.nbit)
		w.bytes = append(w.bytes, w.cur)
		w.cur = 0
		w.nbit = 0
	}
	return w.bytes
}

func literalStream(data []byte) []byte {
	w := &bitWriter{}
	for _, b := range data {
		w.writeBits(1, 1)
		w.writeBits(uint32(b), 8)
	}
	return w.flush()
}

func TestDecodeAllLiterals(t *testing.T) {
	payload := append([]byte("BM"), make([]byte, 62)...)
	stream := literalStream(payload)

	out := Decode(stream, len(payload))
	require.Equal(t, payload, out)
}

func TestDecodeBMPAcceptsBMSignature(t *testing.T) {
	payload := append([]byte("BM"), make([]byte, 62)...)
	stream := literalStream(payload)

	out, err := DecodeBMP(stream, len(payload))
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestDecodeBMPRejectsNonBMP(t *testing.T) {
	payload := []byte{'X', 'X', 0, 0}
	stream := literalStream(payload)

	_, err := DecodeBMP(stream, len(payload))
	require.ErrorIs(t, err, ErrNotBMP)
}

func TestDecodeBackReference(t *testing.T) {
	// Three literals "ABC" (fills ring[239..241]), then a back-reference
	// to offset 239 length 2 (n=0 -> length 2), expecting "AB" to repeat.
	w := &bitWriter{}
	for _, b := range []byte("ABC") {
		w.writeBits(1, 1)
		w.writeBits(uint32(b), 8)
	}
	w.writeBits(0, 1)   // back-reference flag
	w.writeBits(239, 8) // offset
	w.writeBits(0, 4)   // n -> length 2
	stream := w.flush()

	out := Decode(stream, 5)
	require.Equal(t, []byte("ABCAB"), out)
}

func TestDecodeStopsOnShortStream(t *testing.T) {
	stream := literalStream([]byte("AB"))
	out := Decode(stream, 10)
	require.Equal(t, []byte("AB"), out)
	require.Less(t, len(out), 10)
}
