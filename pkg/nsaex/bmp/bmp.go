// Package bmp builds the minimal 24-bpp bottom-up bitmaps that the SPB
// decoder emits: a 14-byte file header, a 40-byte BITMAPINFOHEADER, and
// zero-padded rows written bottom row first.
package bmp

import "encoding/binary"

// RowPadding reports how many zero bytes pad a row of the given pixel
// width to a 4-byte boundary, per the BMP row-alignment rule.
func RowPadding(width int) int {
	rowBytes := width * 3
	return (4 - rowBytes%4) % 4
}

// FileSize computes the total file size of a 24-bpp bitmap with the
// given dimensions: 54-byte header plus height rows of width*3 pixel
// bytes padded to 4 bytes each.
func FileSize(width, height int) int {
	return 54 + height*(width*3+RowPadding(width))
}

// Encode wraps an interleaved top-to-bottom RGB pixel buffer (width *
// height * 3 bytes, one byte each of R, G, B per pixel in that order)
// into a standard 24-bpp bottom-up BMP.
func Encode(width, height int, rgb []byte) []byte {
	pad := RowPadding(width)
	rowBytes := width*3 + pad
	fileSize := 54 + height*rowBytes

	out := make([]byte, fileSize)

	// File header.
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:6], uint32(fileSize))
	binary.LittleEndian.PutUint32(out[6:10], 0) // reserved
	binary.LittleEndian.PutUint32(out[10:14], 54)

	// DIB (BITMAPINFOHEADER).
	binary.LittleEndian.PutUint32(out[14:18], 40)
	binary.LittleEndian.PutUint32(out[18:22], uint32(int32(width)))
	binary.LittleEndian.PutUint32(out[22:26], uint32(int32(height)))
	binary.LittleEndian.PutUint16(out[26:28], 1)  // planes
	binary.LittleEndian.PutUint16(out[28:30], 24) // bpp
	// remaining DIB fields (compression, image size, resolution,
	// palette, important colors) are left zero, which is valid for an
	// uncompressed 24-bpp image.

	pixels := out[54:]
	for row := 0; row < height; row++ {
		// Source row `row` (top-to-bottom) lands at output row
		// height-1-row (bottom-up file order).
		srcOff := row * width * 3
		dstOff := (height - 1 - row) * rowBytes
		// Pixel bytes are stored B, G, R in the file; the caller
		// supplies R, G, B order, so swap per pixel on the way out.
		for x := 0; x < width; x++ {
			r := rgb[srcOff+x*3+0]
			g := rgb[srcOff+x*3+1]
			b := rgb[srcOff+x*3+2]
			pixels[dstOff+x*3+0] = b
			pixels[dstOff+x*3+1] = g
			pixels[dstOff+x*3+2] = r
		}
		// Padding bytes are already zero from make().
	}

	return out
}
