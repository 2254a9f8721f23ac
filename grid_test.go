package mosaic

import (
	"errors"
	"testing"
)

// TestNewTileGrid_Validation rejects degenerate grids.
func TestNewTileGrid_Validation(t *testing.T) {
	cases := [][4]int{
		{0, 1, 100, 100},
		{1, 0, 100, 100},
		{1, 1, 0, 100},
		{1, 1, 100, -5},
	}
	for _, c := range cases {
		if _, err := NewTileGrid(c[0], c[1], c[2], c[3]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewTileGrid(%v) error = %v, want ErrInvalidDimensions", c, err)
		}
	}
}

// TestTileGrid_SetAt exercises flat-index addressing and bounds checks.
func TestTileGrid_SetAt(t *testing.T) {
	g, err := NewTileGrid(3, 2, 300, 200)
	if err != nil {
		t.Fatalf("NewTileGrid: %v", err)
	}

	tile := &Tile{Col: 2, Row: 1, Width: 100, Height: 100}
	if err := g.Set(2, 1, tile); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := g.At(2, 1); got != tile {
		t.Errorf("At(2,1) = %v, want stored tile", got)
	}
	if got := g.At(0, 0); got != nil {
		t.Errorf("At(0,0) = %v, want nil for unset cell", got)
	}

	for _, c := range [][2]int{{-1, 0}, {3, 0}, {0, -1}, {0, 2}} {
		if err := g.Set(c[0], c[1], tile); err == nil {
			t.Errorf("Set(%d,%d) accepted out-of-range cell", c[0], c[1])
		}
		if got := g.At(c[0], c[1]); got != nil {
			t.Errorf("At(%d,%d) = %v, want nil out of range", c[0], c[1], got)
		}
	}
}

// TestTileGrid_Complete flips only when every cell is populated.
func TestTileGrid_Complete(t *testing.T) {
	g, _ := NewTileGrid(2, 2, 200, 200)
	if g.Complete() {
		t.Error("empty grid reported complete")
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			g.Set(col, row, &Tile{Col: col, Row: row, Width: 100, Height: 100})
		}
	}
	if !g.Complete() {
		t.Error("fully populated grid reported incomplete")
	}

	g.ReleaseRow(0)
	if g.Complete() {
		t.Error("grid with released row reported complete")
	}
	if g.At(0, 0) != nil || g.At(1, 0) != nil {
		t.Error("ReleaseRow left tiles behind")
	}
	if g.At(0, 1) == nil {
		t.Error("ReleaseRow touched the wrong row")
	}
}
