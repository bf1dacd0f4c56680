package bitio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBitsMSBFirst(t *testing.T) {
	// 0xA1 0x53 == 1010 0001 0101 0011
	r := NewReader([]byte{0xA1, 0x53}, 0)

	v, err := r.GetBits(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xA), v)

	v, err = r.GetBits(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1), v)

	v, err = r.GetBits(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0x53), v)
}

func TestGetBitsAcrossByteBoundary(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x00}, 0)
	v, err := r.GetBits(12)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFF0), v)
}

func TestGetU8ByteAligned(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34}, 0)
	b, err := r.GetU8()
	require.NoError(t, err)
	require.Equal(t, byte(0x12), b)
	b, err = r.GetU8()
	require.NoError(t, err)
	require.Equal(t, byte(0x34), b)
}

func TestGetBitsEndOfData(t *testing.T) {
	r := NewReader([]byte{0xF0}, 0)
	_, err := r.GetBits(4)
	require.NoError(t, err)

	_, err = r.GetBits(8)
	require.True(t, errors.Is(err, ErrEndOfData))
	require.True(t, r.Exhausted())
}

func TestNewReaderWithOffset(t *testing.T) {
	r := NewReader([]byte{0x00, 0xA1, 0x53}, 1)
	v, err := r.GetBits(16)
	require.NoError(t, err)
	require.Equal(t, uint32(0xA153), v)
}
