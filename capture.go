package mosaic

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
)

// Capturer drives tiled captures against one renderer. It is an explicit,
// caller-owned object: create as many as needed, each independent of the
// others.
//
// A Capturer runs one operation at a time. Capture from a second
// goroutine while one is in flight fails fast with [ErrBusy] rather than
// interleaving renders.
type Capturer struct {
	renderer Renderer
	opts     options
	busy     atomic.Bool
}

// New creates a Capturer for the given renderer.
func New(r Renderer, opts ...Option) *Capturer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Capturer{renderer: r, opts: o}
}

// Capture renders the full width x height image tile by tile and returns
// the merged PNG bytes. Progress is reported through the configured
// callback in two stages, [StageTiling] then [StageMerging].
//
// ctx is checked at every suspension point (after each tile, every 128
// merged rows); cancellation aborts the whole operation with
// [ErrCanceled] and no partial result.
func (c *Capturer) Capture(ctx context.Context, cam Camera, width, height int) ([]byte, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	grid, err := c.captureGrid(ctx, cam, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// Release tile rows as they are written: the Capturer owns this grid
	// and nothing reads it afterwards.
	if err := mergeGrid(ctx, grid, &buf, &c.opts, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CaptureGrid renders all tiles and returns the populated grid without
// merging, for callers that merge separately (e.g. straight to a file
// with [Merge]).
func (c *Capturer) CaptureGrid(ctx context.Context, cam Camera, width, height int) (*TileGrid, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)
	return c.captureGrid(ctx, cam, width, height)
}

func (c *Capturer) captureGrid(ctx context.Context, cam Camera, width, height int) (*TileGrid, error) {
	o := &c.opts
	geom, err := PlanGrid(cam, width, height, o.maxTileSide, o.maxSurfaceSide, o.supersample)
	if err != nil {
		return nil, err
	}

	grid, err := NewTileGrid(geom.Cols, geom.Rows, width, height)
	if err != nil {
		return nil, err
	}

	log := Logger()
	log.Info("capture start",
		"size", fmt.Sprintf("%dx%d", width, height),
		"grid", fmt.Sprintf("%dx%d", geom.Cols, geom.Rows),
		"tileSide", geom.TileSide,
		"supersample", geom.Supersample)

	total := geom.NumTiles()
	for i, pt := range geom.Tiles() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		tile, err := c.captureTile(ctx, &pt, geom.Supersample)
		if err != nil {
			return nil, err
		}

		// Capture proceeds bottom band first in projection space; the
		// grid holds conventional image rows, 0 at the top. The flip is
		// the documented storage convention, not a correction.
		row := geom.Rows - 1 - pt.Row
		tile.Col, tile.Row = pt.Col, row
		if err := grid.Set(pt.Col, row, tile); err != nil {
			return nil, err
		}

		if o.progress != nil {
			o.progress(StageTiling, float64(i+1)/float64(total))
		}
		log.Debug("tile captured", "col", pt.Col, "row", pt.Row, "done", i+1, "total", total)
	}
	return grid, nil
}

// captureTile renders one tile at supersampled size, downsamples it to
// final size and encodes it. The transient surfaces go out of scope
// before the next tile starts, keeping peak memory at one tile.
func (c *Capturer) captureTile(ctx context.Context, pt *PlannedTile, ss int) (*Tile, error) {
	rw, rh := pt.Width*ss, pt.Height*ss
	pm, err := c.renderer.Render(ctx, pt.Projection, rw, rh, c.opts.transparent)
	if err != nil {
		return nil, fmt.Errorf("mosaic: render tile (%d,%d) at %dx%d: %w", pt.Col, pt.Row, rw, rh, err)
	}
	if pm.Width() != rw || pm.Height() != rh {
		return nil, fmt.Errorf("mosaic: renderer produced %dx%d for tile (%d,%d), want %dx%d",
			pm.Width(), pm.Height(), pt.Col, pt.Row, rw, rh)
	}

	if ss > 1 {
		if ds, ok := c.renderer.(Downsampler); ok {
			pm, err = ds.Downsample(pm, ss)
		} else {
			pm, err = pm.Downsample(ss)
		}
		if err != nil {
			return nil, fmt.Errorf("mosaic: downsample tile (%d,%d): %w", pt.Col, pt.Row, err)
		}
		if pm.Width() != pt.Width || pm.Height() != pt.Height {
			return nil, fmt.Errorf("mosaic: downsampled tile (%d,%d) is %dx%d, want %dx%d",
				pt.Col, pt.Row, pm.Width(), pm.Height(), pt.Width, pt.Height)
		}
	}

	png, err := c.opts.codec.EncodeRGBA(pm.Data(), pm.Width(), pm.Height(), c.opts.compression)
	if err != nil {
		return nil, fmt.Errorf("mosaic: encode tile (%d,%d): %w", pt.Col, pt.Row, err)
	}
	return &Tile{Width: pt.Width, Height: pt.Height, PNG: png}, nil
}
