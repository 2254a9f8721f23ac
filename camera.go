package mosaic

import "github.com/chewxy/math32"

// Camera holds the projection parameters of the source camera. Position
// and orientation stay with the host renderer; mosaic only needs the
// parameters that shape the view volume.
//
// The camera's own aspect ratio is deliberately absent: every tile
// projects as if the whole final image were rendered at the output's
// aspect ratio and then cropped, so the planner derives the aspect from
// the requested output size instead.
type Camera struct {
	// FOV is the vertical field of view in degrees. Ignored for
	// orthographic cameras.
	FOV float32

	// Near and Far are the clip plane distances.
	Near float32
	Far  float32

	// Orthographic selects an orthographic projection instead of the
	// default perspective one.
	Orthographic bool

	// OrthoSize is half the vertical extent of the orthographic view
	// volume. Ignored for perspective cameras.
	OrthoSize float32
}

// halfExtents returns half the width and height of the full-frame view
// volume at the given aspect ratio: at the near plane for perspective
// cameras, anywhere along the axis for orthographic ones.
func (c Camera) halfExtents(aspect float32) (halfW, halfH float32) {
	if c.Orthographic {
		halfH = c.OrthoSize
	} else {
		halfH = math32.Tan(c.FOV*math32.Pi/360) * c.Near
	}
	return halfH * aspect, halfH
}

// Projection returns the symmetric full-frame projection of the camera at
// the given aspect ratio. Tiled capture never renders through it; it
// exists for single-surface reference renders and tests.
func (c Camera) Projection(aspect float32) Matrix4 {
	halfW, halfH := c.halfExtents(aspect)
	if c.Orthographic {
		return Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
	}
	return Frustum(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
}
