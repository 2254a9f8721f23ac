package mosaic

import (
	"context"
	"fmt"
	"io"
)

// mergeYieldRows is how many output rows the merger writes between
// cancellation checks.
const mergeYieldRows = 128

// Merge streams the tiles of a completed grid into one PNG written to
// dst. Tiles are consumed one grid-row at a time: all decoders of the row
// open together, one scanline is read from each and concatenated, and the
// assembled row goes straight to the output encoder. No more than one
// output scanline plus one decoded row per tile column is ever buffered.
//
// Merge does not modify the grid, so merging the same grid twice with the
// same options produces byte-identical output.
//
// Relevant options: [WithCompressionLevel], [WithVerticalOverlap],
// [WithProgress], [WithCodec].
func Merge(ctx context.Context, grid *TileGrid, dst io.Writer, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return mergeGrid(ctx, grid, dst, &o, false)
}

func mergeGrid(ctx context.Context, grid *TileGrid, dst io.Writer, o *options, releaseRows bool) error {
	if !grid.Complete() {
		return ErrGridIncomplete
	}

	log := Logger()
	log.Info("merge start",
		"size", fmt.Sprintf("%dx%d", grid.FinalWidth, grid.FinalHeight),
		"grid", fmt.Sprintf("%dx%d", grid.Cols(), grid.Rows()))

	out, err := o.codec.NewWriter(dst, grid.FinalWidth, grid.FinalHeight, o.compression)
	if err != nil {
		return fmt.Errorf("mosaic: open output encoder: %w", err)
	}

	rowsOut := 0
	scanline := make([]byte, grid.FinalWidth*4)

	for ty := 0; ty < grid.Rows(); ty++ {
		if err := mergeTileRow(ctx, grid, ty, out, scanline, o, &rowsOut); err != nil {
			return err
		}
		if releaseRows {
			grid.ReleaseRow(ty)
		}
		log.Debug("tile row merged", "row", ty, "rowsOut", rowsOut)
	}

	if rowsOut != grid.FinalHeight {
		return fmt.Errorf("%w: tiles yielded %d rows, final height is %d",
			ErrGeometryMismatch, rowsOut, grid.FinalHeight)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("mosaic: finalize output: %w", err)
	}
	return nil
}

// mergeTileRow opens the decoders of grid row ty, emits its visible
// scanlines, and closes the decoders again before returning.
func mergeTileRow(ctx context.Context, grid *TileGrid, ty int, out RowWriter, scanline []byte, o *options, rowsOut *int) error {
	cols := grid.Cols()
	readers := make([]RowReader, cols)
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
	}()

	widthSum := 0
	for tx := 0; tx < cols; tx++ {
		tile := grid.At(tx, ty)
		r, err := o.codec.NewReader(tile.PNG)
		if err != nil {
			return fmt.Errorf("mosaic: decode tile (%d,%d): %w", tx, ty, err)
		}
		readers[tx] = r
		if r.Channels() != 4 {
			return fmt.Errorf("%w: tile (%d,%d) has %d channels", ErrChannelMismatch, tx, ty, r.Channels())
		}
		widthSum += r.Width()
	}
	if widthSum != grid.FinalWidth {
		return fmt.Errorf("%w: row %d tile widths sum to %d, final width is %d",
			ErrGeometryMismatch, ty, widthSum, grid.FinalWidth)
	}

	// Overlap margins belong to the tile above; skip them on every row
	// but the first.
	consumed := 0
	if ty > 0 && o.verticalOverlap > 0 {
		skip := o.verticalOverlap
		if h := minHeight(readers); skip > h {
			skip = h
		}
		for tx, r := range readers {
			if err := skipRows(r, skip); err != nil {
				return fmt.Errorf("mosaic: skip overlap in tile (%d,%d): %w", tx, ty, err)
			}
		}
		consumed = skip
	}

	// Visible height: bounded by the shortest tile of the row and by the
	// logical final height, so a ragged row or an overshooting last row
	// never produces stray output.
	visible := minHeight(readers) - consumed
	if rem := grid.FinalHeight - *rowsOut; visible > rem {
		visible = rem
	}
	if visible < 0 {
		visible = 0
	}

	for i := 0; i < visible; i++ {
		if *rowsOut%mergeYieldRows == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrCanceled, err)
			}
		}
		x := 0
		for tx, r := range readers {
			n := r.Width() * 4
			if err := r.ReadRow(scanline[x : x+n]); err != nil {
				return fmt.Errorf("mosaic: read row from tile (%d,%d): %w", tx, ty, err)
			}
			x += n
		}
		if err := out.WriteRow(scanline); err != nil {
			return fmt.Errorf("mosaic: write output row %d: %w", *rowsOut, err)
		}
		*rowsOut++
		if o.progress != nil {
			o.progress(StageMerging, float64(*rowsOut)/float64(grid.FinalHeight))
		}
	}
	return nil
}

// minHeight returns the smallest native height among the open readers.
func minHeight(readers []RowReader) int {
	h := readers[0].Height()
	for _, r := range readers[1:] {
		if rh := r.Height(); rh < h {
			h = rh
		}
	}
	return h
}

// skipRows discards n rows from a reader, using its own SkipRows when it
// has one (pngio does) and falling back to reading into scratch.
func skipRows(r RowReader, n int) error {
	if n <= 0 {
		return nil
	}
	if s, ok := r.(interface{ SkipRows(int) error }); ok {
		return s.SkipRows(n)
	}
	scratch := make([]byte, r.Width()*r.Channels())
	for i := 0; i < n; i++ {
		if err := r.ReadRow(scratch); err != nil {
			return err
		}
	}
	return nil
}
