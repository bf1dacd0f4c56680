// Package spb decodes the archive's "SPB" delta-coded 3-plane image
// format into a standard 24-bpp BMP. Each plane is a run/delta coded
// 8-bit bitstream; planes are composited through a zig-zag or linear
// scan into BGR or RGB pixel order.
package spb

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/illusory-dept/nskit/pkg/bitio"
	"github.com/illusory-dept/nskit/pkg/consts"
	"github.com/illusory-dept/nskit/pkg/nsaex/bmp"
)

// ErrInvalidSPB is returned when the header's width/height fall outside
// the plausibility bounds.
var ErrInvalidSPB = errors.New("spb: header out of bounds")

// ErrTimeout is returned when decoding exceeds its wall-clock budget.
var ErrTimeout = errors.New("spb: decode timed out")

// Scan selects how a decoded plane's linear byte stream maps onto image
// rows.
type Scan int

const (
	ScanZigzag Scan = iota
	ScanLinear
)

// PlaneOrder selects which output channel the first decoded plane
// fills.
type PlaneOrder int

const (
	PlaneBGR PlaneOrder = iota
	PlaneRGB
)

// Plausible reports whether the leading 4 bytes of data look like a
// valid SPB header: both dimensions in [1, 8192] and their product at
// most 4096*4096 pixels. It also returns the parsed width and height.
func Plausible(data []byte) (width, height int, ok bool) {
	if len(data) < 4 {
		return 0, 0, false
	}
	w := int(binary.BigEndian.Uint16(data[0:2]))
	h := int(binary.BigEndian.Uint16(data[2:4]))
	if w < 1 || w > consts.SPBMaxDimension || h < 1 || h > consts.SPBMaxDimension {
		return w, h, false
	}
	if w*h > consts.SPBMaxPixels {
		return w, h, false
	}
	return w, h, true
}

// ExpectedBMPSize returns the file size a correctly decoded width x
// height SPB would produce once wrapped as a 24-bpp BMP.
func ExpectedBMPSize(width, height int) int {
	return bmp.FileSize(width, height)
}

// Decode reads an SPB image from data and returns an encoded 24-bpp BMP.
// timeout of zero disables the wall-clock budget.
func Decode(data []byte, scan Scan, order PlaneOrder, timeout time.Duration) ([]byte, error) {
	width, height, ok := Plausible(data)
	if !ok {
		return nil, ErrInvalidSPB
	}

	r := bitio.NewReader(data, 4)
	count := width * height

	var deadline time.Time
	hasDeadline := timeout > 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	planes := make([][]byte, 3)
	for p := 0; p < 3; p++ {
		plane, err := decodePlane(r, count, deadline, hasDeadline)
		if err != nil {
			return nil, err
		}
		planes[p] = plane
	}

	rgb := make([]byte, count*3)
	// planes[0] fills B (or R for PlaneRGB), planes[1] fills G always,
	// planes[2] fills R (or B for PlaneRGB).
	var first, third int
	if order == PlaneBGR {
		first, third = 2, 0 // plane 0 -> blue channel offset 2
	} else {
		first, third = 0, 2 // plane 0 -> red channel offset 0
	}

	scanMap := scanOrder(width, height, scan)
	writePlane := func(plane []byte, channelOffset int) {
		for linearIdx, v := range scanMap {
			rgb[v*3+channelOffset] = plane[linearIdx]
		}
	}
	writePlane(planes[0], first)
	writePlane(planes[1], 1)
	writePlane(planes[2], third)

	return bmp.Encode(width, height, rgb), nil
}

// decodePlane runs the run/delta bitstream for a single plane, emitting
// exactly count bytes (padding with the last known value on
// EndOfData, exactly as the archive's reference decoder does).
func decodePlane(r *bitio.Reader, count int, deadline time.Time, hasDeadline bool) ([]byte, error) {
	out := make([]byte, 0, count)

	ch, err := r.GetU8()
	out = append(out, ch)
	if err != nil {
		return padPlane(out, count, ch), nil
	}

	lastCheck := len(out)
	for len(out) < count {
		if hasDeadline && len(out)-lastCheck >= consts.SPBTimeoutCheckInterval {
			lastCheck = len(out)
			if time.Now().After(deadline) {
				return nil, ErrTimeout
			}
		}

		nbit, err := r.GetBits(3)
		if err != nil {
			return padPlane(out, count, ch), nil
		}

		if nbit == 0 {
			remaining := count - len(out)
			run := 4
			if remaining < run {
				run = remaining
			}
			for i := 0; i < run; i++ {
				out = append(out, ch)
			}
			continue
		}

		var mask uint32
		if nbit == 7 {
			bit, err := r.GetBits(1)
			if err != nil {
				return padPlane(out, count, ch), nil
			}
			mask = bit + 1
		} else {
			mask = nbit + 2
		}

		// ch updates before the fullness check; a group element read when
		// the plane is already full still consumes its bits, keeping the
		// next plane's stream position bit-exact.
		for i := 0; i < 4; i++ {
			if mask == 8 {
				v, err := r.GetBits(8)
				if err != nil {
					return padPlane(out, count, ch), nil
				}
				ch = byte(v)
			} else {
				t, err := r.GetBits(int(mask))
				if err != nil {
					return padPlane(out, count, ch), nil
				}
				if t&1 == 1 {
					ch = byte((int(ch) + int(t>>1) + 1) % 256)
				} else {
					ch = byte(((int(ch) - int(t>>1)) % 256 + 256) % 256)
				}
			}
			if len(out) >= count {
				break
			}
			out = append(out, ch)
		}
	}

	return out, nil
}

func padPlane(out []byte, count int, ch byte) []byte {
	for len(out) < count {
		out = append(out, ch)
	}
	return out
}

// scanOrder returns, for each linear index into a decoded plane, the
// row-major pixel index it lands on under the given scan mode.
func scanOrder(width, height int, scan Scan) []int {
	order := make([]int, width*height)
	i := 0
	for row := 0; row < height; row++ {
		rightToLeft := scan == ScanZigzag && row%2 == 1
		for col := 0; col < width; col++ {
			c := col
			if rightToLeft {
				c = width - 1 - col
			}
			order[i] = row*width + c
			i++
		}
	}
	return order
}
