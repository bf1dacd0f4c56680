package nslex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/illusory-dept/nskit/pkg/consts"
	"github.com/illusory-dept/nskit/pkg/cp932"
)

// TransformMode selects which of the four byte transforms the container
// loader applies while assembling the source buffer.
type TransformMode int

const (
	TransformIdentity TransformMode = iota
	TransformXOR84
	TransformRotatingMagic
	TransformKeyTable
)

type probeCandidate struct {
	name string
	mode TransformMode
	enc  Encoding
}

// probeOrder is the fixed file-name probe order from the container
// loader design; the first match in a directory wins.
var probeOrder = []probeCandidate{
	{"0.txt", TransformIdentity, CP932},
	{"0.utf", TransformIdentity, UTF8},
	{"00.txt", TransformIdentity, CP932},
	{"nscr_sec.dat", TransformRotatingMagic, CP932},
	{"nscript.___", TransformKeyTable, CP932},
	{"nscript.dat", TransformXOR84, CP932},
	{"pscript.dat", TransformXOR84, UTF8},
}

// LoadResult is the outcome of loading a script container directory:
// the assembled, decoded, newline-normalized source text plus the
// encoding and the informational label-head count observed during the
// transform pass (the authoritative label index is built separately by
// the label indexer over the assembled text).
type LoadResult struct {
	Text          string
	Encoding      Encoding
	BaseName      string
	NumLabelsSeen int
}

// ErrNoContainer is returned when none of the probed file names exist
// in dir.
var ErrNoContainer = fmt.Errorf("nslex: no script container file found")

// Load probes dir for a script container file, assembles it with any
// numbered continuation files, applies the selected byte transform, and
// normalizes newlines. keyTable is only consulted for the
// TransformKeyTable mode (nscript.___); see Open Question (d) — a nil
// or undersized table is treated as identity.
func Load(dir string, keyTable []byte) (LoadResult, error) {
	var chosen *probeCandidate
	for i := range probeOrder {
		p := filepath.Join(dir, probeOrder[i].name)
		if _, err := os.Stat(p); err == nil {
			chosen = &probeOrder[i]
			break
		}
	}
	if chosen == nil {
		return LoadResult{}, ErrNoContainer
	}

	// Numbered continuation files are a plain-series convention only;
	// the encrypted single-blob modes always carry the whole script in
	// one file.
	names := []string{chosen.name}
	if chosen.mode == TransformIdentity {
		ext := filepath.Ext(chosen.name)
		for n := 1; n <= consts.MaxSeriesFiles; n++ {
			candidates := []string{fmt.Sprintf("%d%s", n, ext)}
			// From 10 on the zero-padded name is the same file.
			if padded := fmt.Sprintf("%02d%s", n, ext); padded != candidates[0] {
				candidates = append(candidates, padded)
			}
			for _, c := range candidates {
				if _, err := os.Stat(filepath.Join(dir, c)); err == nil {
					names = append(names, c)
				}
			}
		}
	}

	var rawOut []byte
	totalLabels := 0
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return LoadResult{}, fmt.Errorf("nslex: read %s: %w", name, err)
		}
		transformed, labels := transformFile(raw, chosen.mode, keyTable)
		rawOut = append(rawOut, transformed...)
		totalLabels += labels
	}

	var text string
	if chosen.enc == UTF8 {
		text = decodeUTF8Lenient(rawOut)
	} else {
		text = cp932.Decode(rawOut)
	}

	return LoadResult{
		Text:          text,
		Encoding:      chosen.enc,
		BaseName:      chosen.name,
		NumLabelsSeen: totalLabels,
	}, nil
}

// decodeUTF8Lenient converts bytes to a string without aborting on
// invalid sequences, matching the replacement-mode tolerance the CP932
// path gets from cp932.Decode.
func decodeUTF8Lenient(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// transformFile applies the mode's byte transform, normalizes CR/LF,
// counts label heads (a '*' seen at line-start after leading
// whitespace), and appends a trailing LF, per the per-file transform
// pass.
func transformFile(raw []byte, mode TransformMode, keyTable []byte) ([]byte, int) {
	out := make([]byte, 0, len(raw)+1)

	atLineStart := true
	afterWSOnly := true
	numLabels := 0
	pendingCR := false

	emit := func(b byte) {
		if b == '\r' {
			pendingCR = true
			return
		}
		if b == '\n' {
			out = append(out, '\n')
			pendingCR = false
			atLineStart = true
			afterWSOnly = true
			return
		}
		if pendingCR {
			out = append(out, '\n')
			pendingCR = false
			atLineStart = true
			afterWSOnly = true
		}
		out = append(out, b)
		if b == ' ' || b == '\t' {
			// still "after whitespace" at line start
		} else {
			if atLineStart && afterWSOnly && b == '*' {
				numLabels++
			}
			atLineStart = false
			afterWSOnly = false
		}
	}

	for i, b := range raw {
		tb := transformByte(b, i, mode, keyTable)
		emit(tb)
	}
	if pendingCR {
		out = append(out, '\n')
	}
	out = append(out, '\n')

	return out, numLabels
}

// transformByte applies the selected mode's substitution to a single
// input byte at position i within its file.
func transformByte(b byte, i int, mode TransformMode, keyTable []byte) byte {
	switch mode {
	case TransformIdentity:
		return b
	case TransformXOR84:
		return b ^ consts.XORKey
	case TransformRotatingMagic:
		return b ^ consts.NSASecMagic[i%len(consts.NSASecMagic)]
	case TransformKeyTable:
		if len(keyTable) == 256 {
			return keyTable[b] ^ consts.XORKey
		}
		// Open Question (d): no key table supplied, assume identity
		// post-XOR so a caller without the table still gets something
		// legible rather than a hard failure.
		return b ^ consts.XORKey
	default:
		return b
	}
}
