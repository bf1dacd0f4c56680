// Package consts collects the magic numbers that show up across the
// container loader, archive parser, and the two image/bit decoders. Most
// of these are load-bearing format constants reverse-engineered from
// sample data, not tunables.
package consts

const (
	// LZSS ring buffer size and initial cursor. The cursor starts 17 bytes
	// short of the end of the buffer; this was true of every sample stream
	// we threw at it and is assumed fixed for the format.
	LZSSRingSize    = 256
	LZSSInitCursor  = LZSSRingSize - 17
	LZSSOffsetBits  = 8
	LZSSLengthBits  = 4
	LZSSLengthBias  = 2

	// SPB plausibility bounds.
	SPBMaxDimension = 8192
	SPBMaxPixels    = 4096 * 4096

	// Pixels between SPB timeout checks.
	SPBTimeoutCheckInterval = 16384

	// BMP header sizes.
	BMPFileHeaderSize = 14
	BMPInfoHeaderSize = 40
	BMPHeaderSize     = BMPFileHeaderSize + BMPInfoHeaderSize
	BMPBitsPerPixel   = 24

	// NSA entry table field widths.
	NSAFlagSize         = 1
	NSAOffsetFieldSize  = 4
	NSAStoredSizeSize   = 4
	NSAExpandedSizeSize = 4

	// Compression flags carried in the entry table.
	FlagStored = 0
	FlagSPB    = 1
	FlagLZSS   = 2
	FlagNBZ    = 4

	// Default script container layout, overridden by the config preamble.
	DefaultVarRange      = 4096
	DefaultGlobalsBorder = 200
	DefaultScreenWidth   = 640
	DefaultScreenHeight  = 480

	// Maximum numbered plain-series files probed after the base script
	// file (1.ext .. 99.ext).
	MaxSeriesFiles = 99

	// Default volume probe ceiling; arcN.nsa is tried up to this index
	// when the caller does not supply its own limit.
	DefaultMaxVolumes = 100
)

// NSASecMagic is the 5-byte rotating XOR magic applied by the
// nscr_sec.dat container transform.
var NSASecMagic = [5]byte{0x79, 0x57, 0x0D, 0x80, 0x04}

// XORKey is the single-byte XOR constant used by the nscript.dat /
// pscript.dat and nscript.___ (post key-table) transforms.
const XORKey = 0x84

// LZSSMagic is the two leading bytes an LZSS-compressed payload is
// expected to carry within the first 16 bytes of an entry.
var LZSSMagic = [2]byte{0xA1, 0x53}

// BZh is the bzip2 stream signature.
var BZh = [3]byte{'B', 'Z', 'h'}
