// Package nsaex parses the legacy engine's packed NSA archive format and
// dispatches each entry's payload to the right decompressor, emitting
// standard BMP/WAV files or a sanitized skip dump when no path applies.
package nsaex

// Entry describes one archive member as read from the entry table. Name
// is CP932-decoded with replacement; path separators are left as found
// on disk (backslash), normalized to the host separator only when an
// entry is actually written out.
type Entry struct {
	Name            string
	CompressionFlag byte
	RelOffset       uint32
	StoredSize      uint32
	ExpandedSize    uint32
}

// Header is the fixed portion of a volume's layout: how many entries
// follow, and where their payloads begin.
type Header struct {
	ObjectCount uint16
	BaseOffset  uint32
}

// Volume is one parsed arc(.N).nsa file: its path, header, and entry
// table. It holds no file handle; payloads are read from the caller's
// open file via ReadPayload.
type Volume struct {
	Path    string
	Header  Header
	Entries []Entry
}
