package mosaic

// PlannedTile is one cell of the capture plan: the pixel rectangle it
// covers and the off-center projection that renders exactly that
// rectangle of the full virtual image.
//
// Col and Row are grid coordinates in capture order. Row 0 is the bottom
// band of the projected view; the orchestrator flips rows when storing
// tiles so that the merged image follows the conventional top-down row
// order (see TileGrid).
type PlannedTile struct {
	Col, Row int

	// X, Y are the pixel offsets of the tile within the final image, in
	// capture-order coordinates (Y counted from the bottom band).
	X, Y int

	// Width, Height are the tile's pixel size in final-image pixels.
	// Tiles in the last column or row may be smaller than the grid's
	// TileSide.
	Width, Height int

	// Projection is the off-center projection matrix for this tile.
	Projection Matrix4
}

// Geometry is the complete capture plan for one output image.
type Geometry struct {
	FinalWidth  int
	FinalHeight int

	// TileSide is the nominal tile side in final-image pixels, after
	// clamping against the device surface cap and the supersample factor.
	TileSide int

	Cols int
	Rows int

	// Supersample is the clamped integer supersampling factor. Each tile
	// renders at (Width*Supersample) x (Height*Supersample) and is
	// downsampled before encoding.
	Supersample int

	tiles []PlannedTile // row-major, Row*Cols+Col
}

// NumTiles returns the total tile count.
func (g *Geometry) NumTiles() int { return g.Cols * g.Rows }

// Tile returns the plan for grid cell (col, row) in capture order.
// It panics if the cell is out of range, matching slice semantics.
func (g *Geometry) Tile(col, row int) *PlannedTile {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		panic("mosaic: tile index out of range")
	}
	return &g.tiles[row*g.Cols+col]
}

// Tiles returns all planned tiles in capture order (row-major).
func (g *Geometry) Tiles() []PlannedTile { return g.tiles }

// minTileSide is the floor for the tile side. Tiles below this waste more
// time on per-tile overhead than on pixels.
const minTileSide = 256

// PlanGrid computes the tile grid and per-tile off-center projections for
// an output of finalWidth x finalHeight pixels.
//
// maxTileSide is the caller's preferred tile side. maxSurfaceSide is the
// device's maximum render surface side; the planner guarantees that the
// supersampled render surface for any one tile never exceeds it.
// supersample below 1 is treated as 1.
//
// The projection math uses the output's aspect ratio, not the camera's
// native one: every tile projects as if the whole final image were
// rendered at that aspect and then cropped, which keeps geometry seamless
// across tile boundaries.
func PlanGrid(cam Camera, finalWidth, finalHeight, maxTileSide, maxSurfaceSide, supersample int) (*Geometry, error) {
	if finalWidth <= 0 || finalHeight <= 0 {
		return nil, ErrInvalidDimensions
	}
	if supersample < 1 {
		supersample = 1
	}

	tileCap := maxSurfaceSide / supersample
	if tileCap < minTileSide {
		tileCap = minTileSide
	}
	tileSide := maxTileSide
	if tileSide < minTileSide {
		tileSide = minTileSide
	}
	if tileSide > tileCap {
		tileSide = tileCap
	}

	cols := (finalWidth + tileSide - 1) / tileSide
	rows := (finalHeight + tileSide - 1) / tileSide

	targetAspect := float32(finalWidth) / float32(finalHeight)
	halfW, halfH := cam.halfExtents(targetAspect)

	g := &Geometry{
		FinalWidth:  finalWidth,
		FinalHeight: finalHeight,
		TileSide:    tileSide,
		Cols:        cols,
		Rows:        rows,
		Supersample: supersample,
		tiles:       make([]PlannedTile, 0, cols*rows),
	}

	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			x0 := tx * tileSide
			y0 := ty * tileSide
			w := finalWidth - x0
			if w > tileSide {
				w = tileSide
			}
			h := finalHeight - y0
			if h > tileSide {
				h = tileSide
			}

			// Normalized bounds of the tile within the full image. u1/v1
			// come from the actual w/h, so a truncated edge tile still
			// lines up exactly with its neighbors.
			u0 := float32(x0) / float32(finalWidth)
			u1 := float32(x0+w) / float32(finalWidth)
			v0 := float32(y0) / float32(finalHeight)
			v1 := float32(y0+h) / float32(finalHeight)

			l := -halfW + u0*2*halfW
			r := -halfW + u1*2*halfW
			b := -halfH + v0*2*halfH
			t := -halfH + v1*2*halfH

			var proj Matrix4
			if cam.Orthographic {
				proj = Ortho(l, r, b, t, cam.Near, cam.Far)
			} else {
				proj = Frustum(l, r, b, t, cam.Near, cam.Far)
			}

			g.tiles = append(g.tiles, PlannedTile{
				Col: tx, Row: ty,
				X: x0, Y: y0,
				Width: w, Height: h,
				Projection: proj,
			})
		}
	}
	return g, nil
}
