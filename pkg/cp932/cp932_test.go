package cp932

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeASCIIPassthrough(t *testing.T) {
	require.Equal(t, "hello", Decode([]byte("hello")))
}

func TestDecodeRoundTrip(t *testing.T) {
	orig := "テスト"
	enc := Encode(orig)
	require.Equal(t, orig, Decode(enc))
}

func TestDecodeMalformedDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		Decode([]byte{0xFF, 0xFE, 0x00, 0x81})
	})
}

func TestByteWidthCP932(t *testing.T) {
	require.Equal(t, 2, ByteWidth(CP932, 0x82))
	require.Equal(t, 1, ByteWidth(CP932, 0x41))
}

func TestByteWidthUTF8(t *testing.T) {
	require.Equal(t, 1, ByteWidth(UTF8, 0x41))
	require.Equal(t, 3, ByteWidth(UTF8, 0xE3))
}
