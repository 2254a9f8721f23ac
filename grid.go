package mosaic

import "fmt"

// Tile is one finished, independently encoded piece of the final image.
// It is created by the capture loop once the tile's PNG bytes exist and
// is immutable afterwards.
type Tile struct {
	// Col, Row are the tile's grid coordinates in image space:
	// Row 0 is the top row of the final image.
	Col, Row int

	// Width, Height are the tile's size in final-image pixels
	// (post-downsample).
	Width, Height int

	// PNG holds the encoded bytes for exactly this rectangle.
	PNG []byte
}

// TileGrid stores the encoded tiles of one capture, indexed [col, row]
// with row 0 at the top of the final image. Storage is one flat
// bounds-checked slice of cols*rows cells; the grid never resizes.
//
// FinalWidth and FinalHeight are the logical merged-image dimensions,
// independent of tile boundaries. The capture loop owns and populates the
// grid; ownership passes to the merger for the duration of the merge.
type TileGrid struct {
	cols, rows int

	FinalWidth  int
	FinalHeight int

	tiles []*Tile
}

// NewTileGrid creates an empty cols x rows grid for a final image of the
// given size.
func NewTileGrid(cols, rows, finalWidth, finalHeight int) (*TileGrid, error) {
	if cols <= 0 || rows <= 0 || finalWidth <= 0 || finalHeight <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d for %dx%d image",
			ErrInvalidDimensions, cols, rows, finalWidth, finalHeight)
	}
	return &TileGrid{
		cols:        cols,
		rows:        rows,
		FinalWidth:  finalWidth,
		FinalHeight: finalHeight,
		tiles:       make([]*Tile, cols*rows),
	}, nil
}

// Cols returns the number of tile columns.
func (g *TileGrid) Cols() int { return g.cols }

// Rows returns the number of tile rows.
func (g *TileGrid) Rows() int { return g.rows }

// Set stores a tile at (col, row). The cell must be in range.
func (g *TileGrid) Set(col, row int, t *Tile) error {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return fmt.Errorf("mosaic: tile cell (%d,%d) outside %dx%d grid",
			col, row, g.cols, g.rows)
	}
	g.tiles[row*g.cols+col] = t
	return nil
}

// At returns the tile at (col, row), or nil if the cell is unset or out
// of range.
func (g *TileGrid) At(col, row int) *Tile {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return g.tiles[row*g.cols+col]
}

// Complete reports whether every cell holds a tile. The merger requires a
// complete grid.
func (g *TileGrid) Complete() bool {
	for _, t := range g.tiles {
		if t == nil {
			return false
		}
	}
	return true
}

// ReleaseRow drops the tile references of one grid row so their encoded
// bytes become collectable. The merger calls this as soon as a tile-row
// has been written out, keeping peak memory bounded by the rows still
// pending.
func (g *TileGrid) ReleaseRow(row int) {
	if row < 0 || row >= g.rows {
		return
	}
	for col := 0; col < g.cols; col++ {
		g.tiles[row*g.cols+col] = nil
	}
}
