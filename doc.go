// Package mosaic captures images far larger than any single render
// surface by splitting the output into a grid of tiles, rendering each
// tile through an off-center projection, and streaming the encoded tiles
// back together into one PNG.
//
// # Overview
//
// GPU texture limits cap a single render at 16k pixels or so per side.
// mosaic sidesteps the limit: it plans a tile grid for the requested
// output size, derives for every tile the asymmetric (off-center)
// projection matrix that renders exactly that sub-rectangle of the full
// virtual image, and merges the independently encoded tiles scanline by
// scanline so the full uncompressed image never exists in memory. Output
// widths up to 131072 pixels are supported this way.
//
// # Quick Start
//
//	import "github.com/gogpu/mosaic"
//
//	cap := mosaic.New(renderer)
//	png, err := cap.Capture(ctx, mosaic.Camera{FOV: 60, Near: 0.1, Far: 1000}, 30720, 17280)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("huge.png", png, 0o644)
//
// The renderer is supplied by the host engine through the [Renderer]
// interface: given a projection matrix and a pixel size, produce an RGBA
// buffer. The render/ subpackage contains a deterministic software
// reference implementation used by the tests and examples.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Capturer, Camera, Matrix4, TileGrid, Resolution
//   - Planning: PlanGrid computes the tile grid and per-tile projections
//   - Merging: Merge streams tile scanlines into the final PNG
//   - pngio: scanline PNG codec (sequential row read/write, bounded memory)
//
// # Memory model
//
// Peak memory is O(one supersampled tile) during capture and
// O(one output scanline plus one decoded row per tile column) during
// merge, independent of the final image size.
package mosaic
