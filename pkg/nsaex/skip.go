package nsaex

import (
	"os"
	"path/filepath"
	"regexp"
)

var unsafeReasonChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// sanitizeReason collapses anything outside [A-Za-z0-9_-] to an
// underscore so a skip reason can never escape its intended directory
// or collide with path separators.
func sanitizeReason(reason string) string {
	return unsafeReasonChars.ReplaceAllString(reason, "_")
}

// SkipDestPath returns the path a skipped entry's raw bytes would be
// written to under dir: <stem>.skip-<reason>.bin, where stem is the
// entry name with its extension removed.
func SkipDestPath(dir, entryName, reason string) string {
	stem := entryName
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	base := filepath.Base(stem)
	return filepath.Join(dir, base+".skip-"+sanitizeReason(reason)+".bin")
}

// SaveSkip dumps a skipped entry's original payload bytes under dir.
func SaveSkip(dir, entryName, reason string, payload []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(SkipDestPath(dir, entryName, reason), payload, 0o644)
}
