// Package cp932 decodes CP932 (the Microsoft Shift-JIS superset used by
// Japanese installers and legacy archive formats) with replacement on
// malformed input, so a corrupt or truncated script/entry name never
// aborts loading.
package cp932

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// Decode converts CP932 bytes to a UTF-8 string. Byte sequences that do
// not form a valid code point are replaced with U+FFFD rather than
// failing (the x/text decoder substitutes on malformed input instead of
// erroring); residual errors are swallowed for the same reason the
// container loader tolerates them.
func Decode(b []byte) string {
	out, _ := japanese.ShiftJIS.NewDecoder().Bytes(b)
	return string(out)
}

// Encode converts a UTF-8 string back to CP932 bytes, replacing
// characters with no CP932 representation.
func Encode(s string) []byte {
	enc := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	out, _ := enc.Bytes([]byte(s))
	return out
}

// ByteWidth reports how many bytes the character led by b occupies in
// the given encoding. For CP932 it is 2 for a double-byte lead byte
// (0x81-0x9F or 0xE0-0xFC) and 1 for any other byte, including the
// single-byte half-width katakana range. For UTF-8 it is the sequence
// length the lead byte announces (1 to 4), or 1 for a byte that cannot
// lead a sequence.
func ByteWidth(enc Encoding, b byte) int {
	switch enc {
	case CP932:
		if b >= 0x81 && b <= 0x9F || b >= 0xE0 && b <= 0xFC {
			return 2
		}
		return 1
	case UTF8:
		switch {
		case b&0x80 == 0x00:
			return 1
		case b&0xE0 == 0xC0:
			return 2
		case b&0xF0 == 0xE0:
			return 3
		case b&0xF8 == 0xF0:
			return 4
		default:
			return 1
		}
	default:
		return 1
	}
}

// Encoding selects how the container loader decodes a script's bytes
// and which byte-width rules ByteWidth applies.
type Encoding int

const (
	CP932 Encoding = iota
	UTF8
)

func (e Encoding) String() string {
	if e == UTF8 {
		return "UTF-8"
	}
	return "CP932"
}
