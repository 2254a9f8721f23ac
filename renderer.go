package mosaic

import "context"

// Renderer is the rasterization backend contract. The host engine decides
// what a scene is and how it draws; mosaic only asks it to render through
// a projection matrix into a pixel buffer of a given size.
type Renderer interface {
	// Render draws the scene through proj into a new width x height
	// pixmap. With transparent set, the backend must clear to
	// (0,0,0,0) and skip any environment or sky pass; otherwise it
	// renders its normal background.
	//
	// Render is called once per tile with the tile's off-center
	// projection, at supersampled size when supersampling is on.
	Render(ctx context.Context, proj Matrix4, width, height int, transparent bool) (*Pixmap, error)
}

// Downsampler is optionally implemented by renderers that can downsample
// supersampled output themselves, typically on the GPU before readback.
// Renderers that don't implement it get the built-in bilinear
// [Pixmap.Downsample] instead.
type Downsampler interface {
	Downsample(src *Pixmap, factor int) (*Pixmap, error)
}
