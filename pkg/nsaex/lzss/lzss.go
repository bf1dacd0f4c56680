// Package lzss implements the archive's LZSS variant: a single flag bit
// per token, an 8-bit offset, a 4-bit length (biased by 2), and a
// 256-byte ring buffer seeded with zeros.
package lzss

import (
	"errors"

	"github.com/illusory-dept/nskit/pkg/bitio"
	"github.com/illusory-dept/nskit/pkg/consts"
)

// Decode expands data, which must begin at the point where the bit
// stream starts (the 0xA1 0x53 marker offset the caller located — the
// marker bytes are themselves the head of the bit stream, and decode
// to the "BM" signature), producing at most expandedSize output bytes.
//
// Running out of input bytes ends decoding cleanly: whatever was
// produced so far is returned, shorter than expandedSize, with no error.
// A genuinely malformed stream cannot be distinguished from a
// truncated one at this layer, so neither is treated as fatal here; the
// caller validates the "BM" prefix and falls back to SPB if that fails.
func Decode(data []byte, expandedSize int) []byte {
	r := bitio.NewReader(data, 0)
	ring := make([]byte, consts.LZSSRingSize)
	cursor := consts.LZSSInitCursor

	out := make([]byte, 0, expandedSize)

	put := func(b byte) {
		out = append(out, b)
		ring[cursor] = b
		cursor = (cursor + 1) % consts.LZSSRingSize
	}

	for len(out) < expandedSize {
		flag, err := r.GetBits(1)
		if err != nil {
			break
		}
		if flag == 1 {
			lit, err := r.GetBits(8)
			if err != nil {
				break
			}
			put(byte(lit))
			continue
		}

		offset, err := r.GetBits(consts.LZSSOffsetBits)
		if err != nil {
			break
		}
		n, err := r.GetBits(consts.LZSSLengthBits)
		if err != nil {
			break
		}
		length := int(n) + consts.LZSSLengthBias
		for k := 0; k < length; k++ {
			if len(out) >= expandedSize {
				break
			}
			b := ring[(int(offset)+k)%consts.LZSSRingSize]
			put(b)
		}
	}

	return out
}

// ErrNotBMP is returned by DecodeBMP when the decoded stream does not
// begin with the BMP magic, signalling the caller should fall back to
// another codec in the dispatch priority order.
var ErrNotBMP = errors.New("lzss: decoded stream is not a bitmap")

// DecodeBMP decodes exactly as Decode does and additionally validates
// the two-byte "BM" signature the dispatcher requires before accepting
// the result as a bitmap.
func DecodeBMP(data []byte, expandedSize int) ([]byte, error) {
	out := Decode(data, expandedSize)
	if len(out) < 2 || out[0] != 'B' || out[1] != 'M' {
		return out, ErrNotBMP
	}
	return out, nil
}
