package mosaic

import "fmt"

// Resolution is an output image size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// String returns the resolution as "WxH".
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// MaxWidth is the widest output mosaic has been validated to produce.
const MaxWidth = 131072

// DefaultMaxKilopixels is the catalog filter used when
// CommonResolutions is called with a non-positive limit.
const DefaultMaxKilopixels = 132

// commonResolutions is the built-in catalog of recommended output sizes,
// in ascending width order. The large 16:9 entries are integer multiples
// of 1920x1080 so supersampled renders divide evenly.
var commonResolutions = []Resolution{
	{1280, 720},
	{1920, 1080},
	{2560, 1440},
	{3840, 2160},
	{4096, 2160},
	{5120, 2880},
	{7680, 4320},
	{8192, 4320},
	{15360, 8640},
	{30720, 17280},
	{61440, 34560},
	{122880, 69120},
	{131072, 73728},
}

// CommonResolutions returns the catalog of recommended output sizes whose
// width does not exceed maxKilopixels*1000 (capped at [MaxWidth]), in
// ascending width order. A non-positive limit means
// [DefaultMaxKilopixels], which admits the full catalog.
func CommonResolutions(maxKilopixels int) []Resolution {
	if maxKilopixels <= 0 {
		maxKilopixels = DefaultMaxKilopixels
	}
	limit := maxKilopixels * 1000
	if limit > MaxWidth {
		limit = MaxWidth
	}
	out := make([]Resolution, 0, len(commonResolutions))
	for _, r := range commonResolutions {
		if r.Width <= limit {
			out = append(out, r)
		}
	}
	return out
}
