package nsaex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeReasonStripsUnsafeChars(t *testing.T) {
	require.Equal(t, "spb_skip_timeout", sanitizeReason("spb_skip_timeout"))
	require.Equal(t, "a_b_c", sanitizeReason("a/b\\c"))
}

func TestSkipDestPath(t *testing.T) {
	p := SkipDestPath("/out", "bg/title.bmp", "no_matching_codec")
	require.Equal(t, filepath.Join("/out", "title.skip-no_matching_codec.bin"), p)
}

func TestSaveSkipWritesFile(t *testing.T) {
	dir := t.TempDir()
	err := SaveSkip(dir, "clip.wav", "weird/reason", []byte("payload"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Name(), "clip.skip-weird_reason.bin")
}
