package nsaex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/illusory-dept/nskit/pkg/logging"
	"github.com/illusory-dept/nskit/pkg/option"
)

// EntryResult records what happened to one archive entry during
// extraction, independent of how it is printed.
type EntryResult struct {
	Volume     string
	Entry      string
	Status     string
	Skipped    bool
	SkipReason string
	Err        error
	OutputPath string
}

// Extractor drives volume discovery and per-entry dispatch over a
// directory of NSA archives. It owns no file handles between calls:
// each volume is opened, fully streamed, and closed within ExtractAll,
// matching the scoped-acquisition requirement in the resource model.
type Extractor struct {
	dir    string
	opts   option.ExtractOptions
	logger *logging.Logger
}

// NewExtractor returns an Extractor rooted at dir with opts applied over
// the package defaults.
func NewExtractor(dir string, opts ...option.ExtractOption) *Extractor {
	o := option.DefaultExtractOptions()
	for _, apply := range opts {
		apply(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Extractor{dir: dir, opts: o, logger: logger}
}

// Volumes discovers archive volumes under the extractor's directory.
func (x *Extractor) Volumes() ([]string, error) {
	return DiscoverVolumes(x.dir, x.opts.MaxVolumes)
}

// ExtractAll discovers every volume, extracts every entry into
// outputDir, and returns a result per entry across all volumes. It
// never aborts on a single bad entry or volume: IOError and
// UnexpectedEOF are fatal only to the operation in progress.
func (x *Extractor) ExtractAll(outputDir string) ([]EntryResult, error) {
	volumes, err := x.Volumes()
	if err != nil {
		return nil, fmt.Errorf("nsaex: discover volumes: %w", err)
	}

	var all []EntryResult
	for _, path := range volumes {
		results, err := x.extractVolume(path, outputDir)
		if err != nil {
			x.logger.Error(err, "failed to extract volume", "path", path)
			fmt.Fprintf(os.Stderr, "warning: volume %s: %v\n", path, err)
			continue
		}
		all = append(all, results...)
	}

	return all, nil
}

func (x *Extractor) extractVolume(path, outputDir string) ([]EntryResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open volume: %w", err)
	}
	defer f.Close()

	vol, err := ParseVolume(f, path, x.opts.HeaderSkip, x.opts.ObjectCountFallback)
	if err != nil {
		return nil, fmt.Errorf("parse volume: %w", err)
	}

	results := make([]EntryResult, 0, len(vol.Entries))
	total := len(vol.Entries)

	for i, entry := range vol.Entries {
		res := x.extractEntry(f, vol, entry, outputDir)
		results = append(results, res)
		printEntryStatus(res)

		if x.opts.ProgressCallback != nil {
			x.opts.ProgressCallback(filepath.Base(path), entry.Name, res.Status, i+1, total)
		}
	}

	return results, nil
}

func (x *Extractor) extractEntry(f *os.File, vol *Volume, entry Entry, outputDir string) (res EntryResult) {
	res = EntryResult{Volume: vol.Path, Entry: entry.Name}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	payload, err := ReadPayload(f, int64(vol.Header.BaseOffset), entry)
	if err != nil {
		res.Err = err
		return res
	}

	outcome := Dispatch(entry, payload, x.opts)
	if outcome.Skipped {
		res.Status = "skip"
		res.Skipped = true
		res.SkipReason = outcome.SkipReason
		if x.opts.SaveSkipsDir != "" {
			if err := SaveSkip(x.opts.SaveSkipsDir, entry.Name, outcome.SkipReason, payload); err != nil {
				x.logger.Error(err, "failed to save skip dump", "entry", entry.Name)
			}
		}
		return res
	}

	res.Status = outcome.Status

	destName := hostPath(entry.Name)
	if outcome.OutputExt != "" {
		destName = stripExt(destName) + outcome.OutputExt
	}
	destPath := filepath.Join(outputDir, destName)

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		res.Err = err
		return res
	}
	if err := os.WriteFile(destPath, outcome.Data, 0o644); err != nil {
		res.Err = err
		return res
	}
	res.OutputPath = destPath

	if outcome.SiblingExt != "" {
		siblingPath := stripExt(destPath) + outcome.SiblingExt
		if err := os.WriteFile(siblingPath, outcome.SiblingData, 0o644); err != nil {
			x.logger.Error(err, "failed to write sibling file", "entry", entry.Name, "path", siblingPath)
		}
	}

	return res
}

// hostPath normalizes an entry name's backslash separators to the host
// path separator.
func hostPath(name string) string {
	return filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
}

func stripExt(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return name[:len(name)-len(ext)]
	}
	return name
}

// printEntryStatus writes the one stdout line per processed entry
// required by the error handling design: "[status] name" on success,
// "SKIPPED (reason) name" on skip, "! name: message" on an unexpected
// exception.
func printEntryStatus(res EntryResult) {
	switch {
	case res.Err != nil:
		fmt.Printf("! %s: %v\n", res.Entry, res.Err)
	case res.Skipped:
		fmt.Printf("SKIPPED (%s) %s\n", res.SkipReason, res.Entry)
	default:
		fmt.Printf("[%s] %s\n", res.Status, res.Entry)
	}
}
