// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/mosaic"
)

// PatternFunc computes the color of one pixel of the full virtual image.
// x runs left to right, y top to bottom, both in final-image pixels.
type PatternFunc func(x, y int) (r, g, b, a uint8)

// Pattern is a software mosaic.Renderer that paints a deterministic
// pattern instead of a scene. Given a tile's off-center projection it
// recovers, from the matrix alone, which sub-rectangle of the full image
// the tile covers, and fills every pixel with the pattern function at the
// pixel's full-image coordinates.
//
// Because the output is a pure function of full-image position, a tiled
// capture merged back together must reproduce the single-surface render
// bit for bit. That property is what the mosaic tests lean on.
type Pattern struct {
	width  int
	height int
	cam    mosaic.Camera
	paint  PatternFunc

	// full-frame view volume at the output aspect, cached from cam
	left, right, bottom, top float64
}

// NewPattern creates a renderer for a virtual image of width x height
// pixels seen through cam.
func NewPattern(width, height int, cam mosaic.Camera, paint PatternFunc) *Pattern {
	full := cam.Projection(float32(width) / float32(height))
	l, r, b, t := full.Bounds()
	return &Pattern{
		width:  width,
		height: height,
		cam:    cam,
		paint:  paint,
		left:   float64(l),
		right:  float64(r),
		bottom: float64(b),
		top:    float64(t),
	}
}

// Render implements mosaic.Renderer.
//
// The render surface may be an integer multiple of the tile's final pixel
// size (supersampling); each final pixel is then painted as a uniform
// block of samples.
func (p *Pattern) Render(ctx context.Context, proj mosaic.Matrix4, width, height int, transparent bool) (*mosaic.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: surface size %dx%d", width, height)
	}

	l, r, b, t := proj.Bounds()

	// Position of the tile inside the full view volume, then inside the
	// full image. The vertical axis flips: frustum top is image row 0.
	u0 := (float64(l) - p.left) / (p.right - p.left)
	u1 := (float64(r) - p.left) / (p.right - p.left)
	v0 := (p.top - float64(t)) / (p.top - p.bottom)
	v1 := (p.top - float64(b)) / (p.top - p.bottom)

	x0 := int(math.Round(u0 * float64(p.width)))
	x1 := int(math.Round(u1 * float64(p.width)))
	y0 := int(math.Round(v0 * float64(p.height)))
	y1 := int(math.Round(v1 * float64(p.height)))

	tileW, tileH := x1-x0, y1-y0
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("render: projection covers no pixels (%d,%d)-(%d,%d)", x0, y0, x1, y1)
	}
	if width%tileW != 0 || height%tileH != 0 || width/tileW != height/tileH {
		return nil, fmt.Errorf("render: surface %dx%d is not an integer multiple of tile %dx%d",
			width, height, tileW, tileH)
	}
	ss := width / tileW

	pm := mosaic.NewPixmap(width, height)
	for j := 0; j < height; j++ {
		fy := y0 + j/ss
		for i := 0; i < width; i++ {
			cr, cg, cb, ca := p.paint(x0+i/ss, fy)
			if ca == 0 && !transparent {
				// Opaque background pass.
				cr, cg, cb, ca = 0, 0, 0, 255
			}
			pm.SetPixel(i, j, cr, cg, cb, ca)
		}
	}
	return pm, nil
}
