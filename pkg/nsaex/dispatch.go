package nsaex

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/illusory-dept/nskit/pkg/consts"
	"github.com/illusory-dept/nskit/pkg/nsaex/lzss"
	"github.com/illusory-dept/nskit/pkg/nsaex/spb"
	"github.com/illusory-dept/nskit/pkg/option"
)

// Outcome records what the dispatcher decided to do with one entry: the
// bytes to emit (if any), an optional sibling file (the .wav written
// next to a .nbz), and the status line the extractor prints per entry.
type Outcome struct {
	Status      string // e.g. "raw_bmp", "lzss_decompressed", "spb_converted"
	OutputExt   string // ".bmp", or "" to keep the entry's own extension
	Data        []byte
	SiblingExt  string // non-empty when a second file accompanies the main output
	SiblingData []byte
	Skipped     bool
	SkipReason  string
}

// Dispatch inspects an entry's extension, compression flag, and the
// leading bytes of its payload to choose a handling path, per the
// dispatcher's priority rules. It never returns an error: every failure
// mode degrades to a skip with a reason, which the caller may choose to
// persist via WithSaveSkipsDir.
func Dispatch(entry Entry, payload []byte, opts option.ExtractOptions) Outcome {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name), "."))

	if ext == "nbz" {
		return dispatchNBZ(payload)
	}
	if entry.CompressionFlag == consts.FlagNBZ {
		return dispatchFlaggedNBZ(payload)
	}

	if ext != "bmp" {
		return Outcome{Status: "passthrough", Data: payload}
	}

	// Flag-directed first tries: the entry table's own compression flag
	// gets one attempt ahead of the byte-sniffing heuristics, and falls
	// through to them when its codec does not pan out.
	if entry.CompressionFlag == consts.FlagLZSS {
		if out, ok := tryLZSSBMP(payload, int(entry.ExpandedSize)); ok {
			out.Status = "lzss_decompressed_flag"
			return out
		}
	}
	if entry.CompressionFlag == consts.FlagSPB && opts.SPBMode != option.SPBCopy {
		if out, ok := trySPBFlagged(entry, payload, opts); ok {
			return out
		}
	}

	return detectBMP(entry, payload, opts)
}

// detectBMP implements the heuristic priority order for a .bmp entry
// whose flag did not already decide it: raw BM, bzip2, LZSS magic, SPB.
func detectBMP(entry Entry, payload []byte, opts option.ExtractOptions) Outcome {
	if len(payload) >= 2 && payload[0] == 'B' && payload[1] == 'M' {
		return Outcome{Status: "raw_bmp", Data: payload}
	}

	if out, ok := tryBzip2BMP(payload); ok {
		return out
	}

	if out, ok := tryLZSSBMP(payload, int(entry.ExpandedSize)); ok {
		return out
	}

	// SPB path. Plausibility, then expanded-size consistency, then the
	// copy policy gate, then the decode itself.
	width, height, plausible := spb.Plausible(payload)
	if !plausible && !opts.SPBSkipPlausibility {
		return Outcome{Skipped: true, SkipReason: "spb_skip_implausible"}
	}

	if !opts.SPBSkipSizeCheck && entry.ExpandedSize > 0 {
		expected := spb.ExpectedBMPSize(width, height)
		if absDiff(expected, int(entry.ExpandedSize)) > 8 {
			return Outcome{Skipped: true, SkipReason: "spb_skip_mismatch"}
		}
	}

	if opts.SPBMode == option.SPBCopy {
		return Outcome{Skipped: true, SkipReason: "spb_skip_policy"}
	}

	return decodeSPB(payload, opts, "spb_converted")
}

// trySPBFlagged handles a flag=1 entry ahead of the generic heuristics:
// it decodes when the header is plausible (or the check is waived) and
// the expanded size is consistent (or that check is waived), and
// otherwise reports no decision so the caller falls through.
func trySPBFlagged(entry Entry, payload []byte, opts option.ExtractOptions) (Outcome, bool) {
	width, height, plausible := spb.Plausible(payload)
	if !plausible && !opts.SPBSkipPlausibility {
		return Outcome{}, false
	}

	if !opts.SPBSkipSizeCheck && entry.ExpandedSize > 0 {
		expected := spb.ExpectedBMPSize(width, height)
		if absDiff(expected, int(entry.ExpandedSize)) > 8 {
			return Outcome{}, false
		}
	}

	out := decodeSPB(payload, opts, "spb_converted_flag")
	if out.Skipped {
		return Outcome{}, false
	}
	return out, true
}

func decodeSPB(payload []byte, opts option.ExtractOptions, status string) Outcome {
	timeout := time.Duration(opts.SPBTimeoutMS) * time.Millisecond
	decoded, err := spb.Decode(payload, toSPBScan(opts.SPBScan), toSPBPlane(opts.SPBPlaneOrder), timeout)
	switch {
	case err == spb.ErrTimeout:
		return Outcome{Skipped: true, SkipReason: "spb_skip_timeout"}
	case err == spb.ErrInvalidSPB:
		return Outcome{Skipped: true, SkipReason: "spb_skip_implausible"}
	case err != nil:
		return Outcome{Skipped: true, SkipReason: "spb_skip_error"}
	default:
		return Outcome{Status: status, OutputExt: ".bmp", Data: decoded}
	}
}

func absDiff(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}

func toSPBScan(s option.SPBScan) spb.Scan {
	if s == option.ScanLinear {
		return spb.ScanLinear
	}
	return spb.ScanZigzag
}

func toSPBPlane(p option.SPBPlaneOrder) spb.PlaneOrder {
	if p == option.PlaneRGB {
		return spb.PlaneRGB
	}
	return spb.PlaneBGR
}

// tryLZSSBMP searches the first 16 bytes of payload for the 0xA1 0x53
// marker and, if found, decodes the LZSS stream starting at the marker
// offset (the marker bytes open the stream and decode to "BM").
func tryLZSSBMP(payload []byte, expandedSize int) (Outcome, bool) {
	off, ok := findLZSSMagic(payload)
	if !ok {
		return Outcome{}, false
	}
	decoded, err := lzss.DecodeBMP(payload[off:], expandedSize)
	if err != nil {
		return Outcome{}, false
	}
	return Outcome{Status: "lzss_decompressed", OutputExt: ".bmp", Data: decoded}, true
}

// findLZSSMagic searches the first 16 bytes of payload for the 0xA1 0x53
// marker and returns its offset.
func findLZSSMagic(payload []byte) (int, bool) {
	limit := 16
	if len(payload) < limit {
		limit = len(payload)
	}
	for i := 0; i+len(consts.LZSSMagic) <= limit; i++ {
		if payload[i] == consts.LZSSMagic[0] && payload[i+1] == consts.LZSSMagic[1] {
			return i, true
		}
	}
	return 0, false
}

// tryBzip2BMP attempts a bzip2 decode at offset 0 or 4 (some payloads
// carry a 4-byte length prefix ahead of the BZh signature) and accepts
// the result only if it decompresses to something beginning "BM".
func tryBzip2BMP(payload []byte) (Outcome, bool) {
	for _, off := range []int{0, 4} {
		if !hasBZh(payload, off) {
			continue
		}
		decoded, err := bzip2Decompress(payload[off:])
		if err != nil {
			continue
		}
		if len(decoded) >= 2 && decoded[0] == 'B' && decoded[1] == 'M' {
			return Outcome{Status: "bz2_decompressed", OutputExt: ".bmp", Data: decoded}, true
		}
	}
	return Outcome{}, false
}

func hasBZh(payload []byte, off int) bool {
	if off+len(consts.BZh) > len(payload) {
		return false
	}
	return payload[off] == consts.BZh[0] && payload[off+1] == consts.BZh[1] && payload[off+2] == consts.BZh[2]
}

// dispatchNBZ strips the 4-byte length prefix of a .nbz entry and
// writes the remainder under the entry's own name; when that body is a
// bzip2 stream, a sibling .wav with the decompressed audio is emitted
// next to it.
func dispatchNBZ(payload []byte) Outcome {
	body := payload
	if len(body) >= 4 {
		body = body[4:]
	}

	out := Outcome{Status: "nbz_payload", Data: body}
	if hasBZh(body, 0) {
		if wav, err := bzip2Decompress(body); err == nil {
			out.SiblingExt = ".wav"
			out.SiblingData = wav
		}
	}
	return out
}

// dispatchFlaggedNBZ handles a flag=4 entry that is not named .nbz:
// the decompressed stream is written under the entry's own name when
// one is found at offset 0 or 4, and the stripped payload otherwise.
func dispatchFlaggedNBZ(payload []byte) Outcome {
	for _, off := range []int{0, 4} {
		if !hasBZh(payload, off) {
			continue
		}
		if wav, err := bzip2Decompress(payload[off:]); err == nil {
			return Outcome{Status: "nbz_decompressed", Data: wav}
		}
	}

	body := payload
	if len(body) >= 4 {
		body = body[4:]
	}
	return Outcome{Status: "nbz_payload", Data: body}
}

// bzip2Decompress runs the standard library's decode-only bzip2 reader.
// The format is read-only throughout this toolkit (no archive is ever
// written back), so the stdlib reader's one-directional support is not
// a limitation here; see DESIGN.md for why no third-party decoder
// replaces it.
func bzip2Decompress(data []byte) ([]byte, error) {
	r := bzip2.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("nsaex: bzip2 decompress: %w", err)
	}
	return out, nil
}
