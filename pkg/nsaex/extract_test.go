package nsaex

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeVolumeFile(t *testing.T, dir, name string, entry Entry, payload []byte) string {
	t.Helper()

	var tableBuf bytes.Buffer
	binary.Write(&tableBuf, binary.BigEndian, uint16(1))
	tableBuf.Write(make([]byte, 4)) // base offset placeholder
	tableBuf.WriteString(entry.Name)
	tableBuf.WriteByte(0)
	tableBuf.WriteByte(entry.CompressionFlag)
	binary.Write(&tableBuf, binary.BigEndian, entry.RelOffset)
	binary.Write(&tableBuf, binary.BigEndian, entry.StoredSize)
	binary.Write(&tableBuf, binary.BigEndian, entry.ExpandedSize)

	base := uint32(tableBuf.Len())
	full := tableBuf.Bytes()
	binary.BigEndian.PutUint32(full[2:6], base)
	full = append(full, payload...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, full, 0o644))
	return path
}

func TestExtractAllRoundTripsRawBMP(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	payload := append([]byte("BM"), make([]byte, 10)...)
	entry := Entry{Name: "a.bmp", StoredSize: uint32(len(payload)), ExpandedSize: uint32(len(payload))}
	writeVolumeFile(t, srcDir, "arc.nsa", entry, payload)

	x := NewExtractor(srcDir)
	results, err := x.ExtractAll(outDir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "raw_bmp", results[0].Status)

	got, err := os.ReadFile(filepath.Join(outDir, "a.bmp"))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestExtractAllStripsNBZHeader(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	payload := []byte{0, 0, 0, 5, 'a', 'u', 'd', 'i', 'o'}
	entry := Entry{Name: "v.nbz", CompressionFlag: 4, StoredSize: uint32(len(payload)), ExpandedSize: uint32(len(payload))}
	writeVolumeFile(t, srcDir, "arc.nsa", entry, payload)

	x := NewExtractor(srcDir)
	results, err := x.ExtractAll(outDir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "nbz_payload", results[0].Status)

	got, err := os.ReadFile(filepath.Join(outDir, "v.nbz"))
	require.NoError(t, err)
	require.Equal(t, []byte("audio"), got)

	// No sibling .wav: the body is not a bzip2 stream.
	_, err = os.Stat(filepath.Join(outDir, "v.wav"))
	require.True(t, os.IsNotExist(err))
}

func TestExtractAllNoVolumesReturnsEmpty(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	x := NewExtractor(srcDir)
	results, err := x.ExtractAll(outDir)
	require.NoError(t, err)
	require.Empty(t, results)
}
