package mosaic

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Pixmap is a rectangular RGBA pixel buffer, 4 bytes per pixel, rows
// top-down. It is the unit of exchange with the renderer: one Pixmap per
// rendered tile, released as soon as the tile is encoded.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel, stride = width*4
}

// NewPixmap creates a zeroed (fully transparent) pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data (RGBA, row-major).
func (p *Pixmap) Data() []uint8 { return p.data }

// Row returns the y-th scanline, width*4 bytes.
func (p *Pixmap) Row(y int) []uint8 {
	stride := p.width * 4
	return p.data[y*stride : (y+1)*stride]
}

// SetPixel sets a single pixel. Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Clear fills the entire pixmap with one color.
func (p *Pixmap) Clear(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// RGBA wraps the pixel data as an *image.RGBA sharing the same memory.
func (p *Pixmap) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    p.data,
		Stride: p.width * 4,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// Downsample scales the pixmap down by an integer factor using bilinear
// interpolation and returns the result as a new pixmap. A factor of 1
// returns the receiver unchanged.
//
// The pixmap dimensions must be exact multiples of factor: supersampled
// tile surfaces are always allocated as (w*factor) x (h*factor), so a
// remainder means the caller mixed up its geometry.
func (p *Pixmap) Downsample(factor int) (*Pixmap, error) {
	if factor <= 1 {
		return p, nil
	}
	if p.width%factor != 0 || p.height%factor != 0 {
		return nil, fmt.Errorf("mosaic: pixmap %dx%d not divisible by downsample factor %d",
			p.width, p.height, factor)
	}
	dst := NewPixmap(p.width/factor, p.height/factor)
	draw.BiLinear.Scale(dst.RGBA(), dst.RGBA().Rect, p.RGBA(), p.RGBA().Rect, draw.Src, nil)
	return dst, nil
}
