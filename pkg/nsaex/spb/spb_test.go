package spb

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

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
		w.cur, w.nbit = 0, 0
	}
	return w.bytes
}

func TestPlausibleBounds(t *testing.T) {
	header := make([]byte, 4)
	binary.BigEndian.PutUint16(header[0:2], 2)
	binary.BigEndian.PutUint16(header[2:4], 1)
	w, h, ok := Plausible(header)
	require.True(t, ok)
	require.Equal(t, 2, w)
	require.Equal(t, 1, h)
}

func TestPlausibleRejectsZeroDimension(t *testing.T) {
	header := make([]byte, 4)
	binary.BigEndian.PutUint16(header[0:2], 0)
	binary.BigEndian.PutUint16(header[2:4], 10)
	_, _, ok := Plausible(header)
	require.False(t, ok)
}

func TestExpectedBMPSizeMatchesFormula(t *testing.T) {
	// 2x1: 54 + 1*(2*3 + pad) where pad = (4-6%4)%4 = 2 -> 54+8 = 62
	require.Equal(t, 62, ExpectedBMPSize(2, 1))
}

func TestScanOrderZigzagReversesOddRows(t *testing.T) {
	order := scanOrder(3, 2, ScanZigzag)
	// row 0 left-to-right: 0,1,2 ; row 1 right-to-left: 5,4,3
	require.Equal(t, []int{0, 1, 2, 5, 4, 3}, order)
}

func TestScanOrderLinear(t *testing.T) {
	order := scanOrder(3, 2, ScanLinear)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)
}

func TestDecodeSingleColorTwoByOne(t *testing.T) {
	w := &bitWriter{}
	// header
	w.writeBits(2, 16) // width
	w.writeBits(1, 16) // height
	for plane := 0; plane < 3; plane++ {
		w.writeBits(0xFF, 8) // ch
		w.writeBits(0, 3)    // nbit == 0 -> run of remaining (1)
	}
	stream := w.flush()

	out, err := Decode(stream, ScanZigzag, PlaneBGR, time.Second)
	require.NoError(t, err)
	require.Equal(t, 62, len(out))
	require.Equal(t, []byte("BM"), out[0:2])
	// pixel data starts at byte 54; two pixels all 0xFF then 2 padding zero bytes.
	pixels := out[54:]
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00}, pixels)
}

func TestDecodeRejectsImplausibleHeader(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 0}, ScanZigzag, PlaneBGR, 0)
	require.ErrorIs(t, err, ErrInvalidSPB)
}
