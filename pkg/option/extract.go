package option

import (
	"github.com/illusory-dept/nskit/pkg/logging"
)

// SPBMode controls how the entry dispatcher treats plausible SPB
// payloads.
type SPBMode int

const (
	// SPBAuto is the default dispatch behavior: SPB is attempted for any
	// undetected .bmp entry that passes the plausibility and size checks.
	SPBAuto SPBMode = iota
	// SPBConvert forces SPB conversion. The auto path already attempts
	// SPB for everything the other codecs reject, so this differs from
	// SPBAuto only in intent; the plausibility/size checks still apply
	// unless their own skip flags are set.
	SPBConvert
	// SPBCopy never attempts an SPB decode, even when plausible.
	SPBCopy
)

// SPBScan selects zig-zag or linear row traversal when compositing a
// decoded SPB plane into the output image.
type SPBScan int

const (
	ScanZigzag SPBScan = iota
	ScanLinear
)

// SPBPlaneOrder selects which channel the first decoded SPB plane fills.
type SPBPlaneOrder int

const (
	PlaneBGR SPBPlaneOrder = iota
	PlaneRGB
)

// ExtractProgressCallback is invoked after each entry is processed
// during a volume extraction.
type ExtractProgressCallback func(volumeName, entryName, status string, index, total int)

// ExtractOptions configures an archive extraction run.
type ExtractOptions struct {
	MaxVolumes          int
	HeaderSkip          int
	ObjectCountFallback bool
	SPBMode             SPBMode
	SPBTimeoutMS        int
	SPBSkipPlausibility bool
	SPBSkipSizeCheck    bool
	SPBScan             SPBScan
	SPBPlaneOrder       SPBPlaneOrder
	SaveSkipsDir        string
	ProgressCallback    ExtractProgressCallback
	Logger              *logging.Logger
}

// ExtractOption mutates an ExtractOptions in place.
type ExtractOption func(*ExtractOptions)

// DefaultExtractOptions returns the extractor's default policy: auto SPB
// dispatch, zig-zag scan, BGR plane order, a 5 second SPB budget, and a
// discard logger.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		MaxVolumes:    100,
		SPBMode:       SPBAuto,
		SPBTimeoutMS:  5000,
		SPBScan:       ScanZigzag,
		SPBPlaneOrder: PlaneBGR,
		Logger:        logging.DefaultLogger(),
	}
}

// WithMaxVolumes bounds how many numbered arcN.nsa volumes are probed.
func WithMaxVolumes(n int) ExtractOption {
	return func(o *ExtractOptions) { o.MaxVolumes = n }
}

// WithHeaderSkip sets the number of leading pad bytes to discard before
// the object_count field of a volume header.
func WithHeaderSkip(n int) ExtractOption {
	return func(o *ExtractOptions) { o.HeaderSkip = n }
}

// WithObjectCountFallback enables re-reading object_count as a second
// u16 when the first one is zero.
func WithObjectCountFallback(enabled bool) ExtractOption {
	return func(o *ExtractOptions) { o.ObjectCountFallback = enabled }
}

// WithSPBMode selects the SPB dispatch policy.
func WithSPBMode(mode SPBMode) ExtractOption {
	return func(o *ExtractOptions) { o.SPBMode = mode }
}

// WithSPBTimeout sets the SPB decoder's wall-clock budget.
func WithSPBTimeout(ms int) ExtractOption {
	return func(o *ExtractOptions) { o.SPBTimeoutMS = ms }
}

// WithSPBSkipPlausibility disables the width/height/area plausibility
// gate ahead of an SPB decode attempt.
func WithSPBSkipPlausibility(skip bool) ExtractOption {
	return func(o *ExtractOptions) { o.SPBSkipPlausibility = skip }
}

// WithSPBSkipSizeCheck disables the expected-size tolerance check ahead
// of an SPB decode attempt.
func WithSPBSkipSizeCheck(skip bool) ExtractOption {
	return func(o *ExtractOptions) { o.SPBSkipSizeCheck = skip }
}

// WithSPBScan selects zig-zag or linear row traversal.
func WithSPBScan(scan SPBScan) ExtractOption {
	return func(o *ExtractOptions) { o.SPBScan = scan }
}

// WithSPBPlaneOrder selects BGR or RGB plane assignment.
func WithSPBPlaneOrder(order SPBPlaneOrder) ExtractOption {
	return func(o *ExtractOptions) { o.SPBPlaneOrder = order }
}

// WithSaveSkipsDir causes skipped entries' raw bytes to be dumped as
// <stem>.skip-<reason>.bin under dir.
func WithSaveSkipsDir(dir string) ExtractOption {
	return func(o *ExtractOptions) { o.SaveSkipsDir = dir }
}

// WithExtractProgress registers a per-entry progress callback.
func WithExtractProgress(cb ExtractProgressCallback) ExtractOption {
	return func(o *ExtractOptions) { o.ProgressCallback = cb }
}

// WithExtractLogger sets the structured logger used during extraction.
func WithExtractLogger(logger *logging.Logger) ExtractOption {
	return func(o *ExtractOptions) { o.Logger = logger }
}
