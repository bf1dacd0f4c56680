package nsaex

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/illusory-dept/nskit/pkg/cp932"
)

// ErrUnexpectedEOF is returned when the header or entry table is
// truncated; it aborts the affected volume only.
type ErrUnexpectedEOF struct {
	Where string
}

func (e *ErrUnexpectedEOF) Error() string {
	return fmt.Sprintf("nsaex: unexpected EOF reading %s", e.Where)
}

// readAt reads exactly len(buf) bytes at offset, returning
// ErrUnexpectedEOF(where) on a short read.
func readAt(r io.ReaderAt, offset int64, buf []byte, where string) error {
	n, err := r.ReadAt(buf, offset)
	if n < len(buf) {
		if err != nil && err != io.EOF {
			return fmt.Errorf("nsaex: read %s: %w", where, err)
		}
		return &ErrUnexpectedEOF{Where: where}
	}
	return nil
}

// ParseHeader reads the header at the start of a volume, honoring an
// optional skip of leading pad bytes and the object_count==0 fallback
// some historical containers need. It returns the header and the byte
// offset immediately following it, where the entry table begins.
func ParseHeader(r io.ReaderAt, headerSkip int, objectCountFallback bool) (Header, int64, error) {
	offset := int64(headerSkip)

	var countBuf [2]byte
	if err := readAt(r, offset, countBuf[:], "object_count"); err != nil {
		return Header{}, 0, err
	}
	offset += 2
	objectCount := binary.BigEndian.Uint16(countBuf[:])

	if objectCount == 0 && objectCountFallback {
		if err := readAt(r, offset, countBuf[:], "object_count fallback"); err != nil {
			return Header{}, 0, err
		}
		offset += 2
		objectCount = binary.BigEndian.Uint16(countBuf[:])
	}

	var baseBuf [4]byte
	if err := readAt(r, offset, baseBuf[:], "base_offset"); err != nil {
		return Header{}, 0, err
	}
	offset += 4
	baseOffset := binary.BigEndian.Uint32(baseBuf[:])

	return Header{ObjectCount: objectCount, BaseOffset: baseOffset}, offset, nil
}

// ParseEntries reads count entry records starting at offset and returns
// them in table order. On a truncated table it returns the entries read
// so far together with the error.
func ParseEntries(r io.ReaderAt, offset int64, count uint16) ([]Entry, error) {
	entries := make([]Entry, 0, count)

	for i := uint16(0); i < count; i++ {
		name, newOffset, err := readCString(r, offset)
		if err != nil {
			return entries, &ErrUnexpectedEOF{Where: fmt.Sprintf("entry %d name", i)}
		}
		offset = newOffset

		var fixed [1 + 4 + 4 + 4]byte
		if err := readAt(r, offset, fixed[:], fmt.Sprintf("entry %d fields", i)); err != nil {
			return entries, err
		}
		offset += int64(len(fixed))

		entries = append(entries, Entry{
			Name:            cp932.Decode(name),
			CompressionFlag: fixed[0],
			RelOffset:       binary.BigEndian.Uint32(fixed[1:5]),
			StoredSize:      binary.BigEndian.Uint32(fixed[5:9]),
			ExpandedSize:    binary.BigEndian.Uint32(fixed[9:13]),
		})
	}

	return entries, nil
}

// readCString reads bytes at offset up to and including a NUL
// terminator, returning the bytes before the NUL and the offset just
// past it.
func readCString(r io.ReaderAt, offset int64) ([]byte, int64, error) {
	const chunk = 64
	var out []byte
	buf := make([]byte, chunk)
	for {
		n, err := r.ReadAt(buf, offset)
		if n == 0 {
			return nil, 0, io.ErrUnexpectedEOF
		}
		for i := 0; i < n; i++ {
			if buf[i] == 0 {
				out = append(out, buf[:i]...)
				return out, offset + int64(i) + 1, nil
			}
		}
		out = append(out, buf[:n]...)
		offset += int64(n)
		if err != nil && err != io.EOF {
			return nil, 0, err
		}
		if err == io.EOF {
			return nil, 0, io.ErrUnexpectedEOF
		}
	}
}

// ReadPayload seeks to base+entry.RelOffset and reads exactly
// entry.StoredSize bytes. A short read is fatal for this entry only.
func ReadPayload(r io.ReaderAt, base int64, e Entry) ([]byte, error) {
	buf := make([]byte, e.StoredSize)
	off := base + int64(e.RelOffset)
	n, err := r.ReadAt(buf, off)
	if uint32(n) < e.StoredSize {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("nsaex: read payload for %q: %w", e.Name, err)
		}
		return nil, &ErrUnexpectedEOF{Where: fmt.Sprintf("payload of %q", e.Name)}
	}
	return buf, nil
}

// ParseVolume reads the full header and entry table from r, an already
// opened volume; path is only recorded in the returned Volume.
func ParseVolume(r io.ReaderAt, path string, headerSkip int, objectCountFallback bool) (*Volume, error) {
	hdr, entryOffset, err := ParseHeader(r, headerSkip, objectCountFallback)
	if err != nil {
		return nil, err
	}
	entries, err := ParseEntries(r, entryOffset, hdr.ObjectCount)
	if err != nil {
		return nil, err
	}
	return &Volume{Path: path, Header: hdr, Entries: entries}, nil
}
