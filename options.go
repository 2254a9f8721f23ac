package mosaic

// Stage identifies which phase of a capture a progress report belongs to.
type Stage int

const (
	// StageTiling covers the per-tile render/encode loop. Progress is
	// tilesDone/totalTiles, emitted once per completed tile.
	StageTiling Stage = iota

	// StageMerging covers the streaming merge. Progress is
	// outputRowsWritten/finalHeight.
	StageMerging
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageTiling:
		return "tiling"
	case StageMerging:
		return "merging"
	default:
		return "unknown"
	}
}

// ProgressFunc receives fractional progress in [0, 1] for a stage.
// Reports are monotonically non-decreasing within a stage and reach
// exactly 1.0 when the stage completes. The callback runs on the
// capturing goroutine and should return quickly.
type ProgressFunc func(stage Stage, progress float64)

// Option configures a Capturer or a standalone Merge.
//
// Example:
//
//	cap := mosaic.New(renderer,
//	    mosaic.WithMaxTileSide(2048),
//	    mosaic.WithSupersample(2),
//	    mosaic.WithProgress(func(st mosaic.Stage, p float64) {
//	        fmt.Printf("%s %.0f%%\n", st, p*100)
//	    }))
type Option func(*options)

type options struct {
	maxTileSide     int
	maxSurfaceSide  int
	supersample     int
	transparent     bool
	compression     int
	verticalOverlap int
	progress        ProgressFunc
	codec           Codec
}

func defaultOptions() options {
	return options{
		maxTileSide:    4096,
		maxSurfaceSide: 16384,
		supersample:    1,
		compression:    6,
		codec:          pngCodec{},
	}
}

// WithMaxTileSide sets the preferred tile side in final-image pixels.
// The planner clamps it to [256, deviceCap]. Smaller tiles lower peak
// memory at the cost of more per-tile overhead; on ResourceExhaustion
// errors, retrying with a smaller tile side is the recommended recovery.
func WithMaxTileSide(side int) Option {
	return func(o *options) { o.maxTileSide = side }
}

// WithMaxSurfaceSide declares the device's maximum render surface side
// (texture size limit). The supersampled surface for one tile never
// exceeds it.
func WithMaxSurfaceSide(side int) Option {
	return func(o *options) { o.maxSurfaceSide = side }
}

// WithSupersample sets the integer supersampling factor. Each tile is
// rendered at factor times its final size and downsampled bilinearly,
// improving edge antialiasing. Values below 1 are treated as 1; 2 is the
// usual choice.
func WithSupersample(factor int) Option {
	return func(o *options) { o.supersample = factor }
}

// WithTransparentBackground requests a (0,0,0,0) clear instead of the
// renderer's normal background, producing an alpha-cut output.
func WithTransparentBackground(on bool) Option {
	return func(o *options) { o.transparent = on }
}

// WithCompressionLevel sets the PNG compression level, 0 (store) to
// 9 (best compression). Out-of-range values are clamped.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		if level < 0 {
			level = 0
		}
		if level > 9 {
			level = 9
		}
		o.compression = level
	}
}

// WithVerticalOverlap sets the number of rows by which vertically
// adjacent tiles overlap. The merger skips that many rows at the top of
// every tile-row after the first. The capture planner never produces
// overlapping tiles itself; this exists for externally produced grids
// that carry blend margins.
func WithVerticalOverlap(rows int) Option {
	return func(o *options) {
		if rows < 0 {
			rows = 0
		}
		o.verticalOverlap = rows
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithCodec swaps the tile codec. The default is the pngio scanline PNG
// implementation.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}
