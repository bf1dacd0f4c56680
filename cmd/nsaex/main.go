// Command nsaex extracts a directory of NSA archive volumes into plain
// BMP/WAV files, dispatching each entry through the same heuristics the
// original engine's asset loader used.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/theckman/yacspin"

	"github.com/illusory-dept/nskit/pkg/logging"
	"github.com/illusory-dept/nskit/pkg/nsaex"
	"github.com/illusory-dept/nskit/pkg/option"
)

func main() {
	srcDir := flag.String("src", ".", "directory to probe for arc.nsa / arcN.nsa volumes")
	outDir := flag.String("out", "./extracted", "output directory")
	maxVolumes := flag.Int("max-volumes", 100, "stop probing after this many numbered volumes")
	hdrSkip := flag.Int("hdr-skip", 0, "skip this many pad bytes before a volume's object count")
	objFallback := flag.Bool("objcount-fallback", false, "re-read object count when the first u16 is zero")
	spbMode := flag.String("spb-mode", "auto", "SPB dispatch policy: auto, convert, or copy")
	spbScan := flag.String("spb-scan", "zigzag", "SPB plane scan order: zigzag or linear")
	spbPlane := flag.String("spb-plane", "bgr", "SPB plane-to-channel order: bgr or rgb")
	skipPlausibility := flag.Bool("spb-skip-plausibility", false, "bypass SPB header plausibility checks")
	skipSizeCheck := flag.Bool("spb-skip-sizecheck", false, "bypass the expanded-size consistency check before SPB decode")
	timeoutMS := flag.Int("spb-timeout-ms", 5000, "SPB decode wall-clock budget per entry, in milliseconds")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	saveSkipsDir := flag.String("save-skips-dir", "", "dump skipped entries' raw bytes under this directory")
	quiet := flag.Bool("quiet", false, "suppress the progress spinner")
	flag.Parse()

	var mode option.SPBMode
	switch *spbMode {
	case "convert":
		mode = option.SPBConvert
	case "copy":
		mode = option.SPBCopy
	default:
		mode = option.SPBAuto
	}

	logger := logging.DefaultLogger()
	if *verbose {
		logger = logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, true))
	}

	var spinner *yacspin.Spinner
	if !*quiet {
		cfg := yacspin.Config{
			Frequency:       100 * time.Millisecond,
			CharSet:         yacspin.CharSets[9],
			Suffix:          " extracting",
			SuffixAutoColon: true,
			Message:         "scanning volumes",
			StopMessage:     "done",
			StopCharacter:   "✓",
			StopColors:      []string{"fgGreen"},
		}
		if s, err := yacspin.New(cfg); err == nil {
			spinner = s
			_ = spinner.Start()
			defer spinner.Stop()
		}
	}

	scan := option.ScanZigzag
	if *spbScan == "linear" {
		scan = option.ScanLinear
	}
	plane := option.PlaneBGR
	if *spbPlane == "rgb" {
		plane = option.PlaneRGB
	}

	opts := []option.ExtractOption{
		option.WithMaxVolumes(*maxVolumes),
		option.WithHeaderSkip(*hdrSkip),
		option.WithObjectCountFallback(*objFallback),
		option.WithSPBMode(mode),
		option.WithSPBScan(scan),
		option.WithSPBPlaneOrder(plane),
		option.WithSPBSkipPlausibility(*skipPlausibility),
		option.WithSPBSkipSizeCheck(*skipSizeCheck),
		option.WithSPBTimeout(*timeoutMS),
		option.WithExtractLogger(logger),
		option.WithSaveSkipsDir(*saveSkipsDir),
	}
	if spinner != nil {
		opts = append(opts, option.WithExtractProgress(func(volume, entry, status string, index, total int) {
			spinner.Message(fmt.Sprintf("%s [%d/%d] %s: %s", volume, index, total, entry, status))
		}))
	}

	x := nsaex.NewExtractor(*srcDir, opts...)
	results, err := x.ExtractAll(*outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nsaex: %v\n", err)
		os.Exit(1)
	}

	var skipped int
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
	}
	fmt.Printf("%d entries processed, %d skipped\n", len(results), skipped)
}
