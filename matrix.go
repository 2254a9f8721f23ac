package mosaic

import "github.com/chewxy/math32"

// Matrix4 is a 4x4 projection matrix in column-major order (OpenGL
// convention): element (row i, column j) lives at index j*4+i.
//
// mosaic only ever builds projection matrices; view/model transforms stay
// with the host renderer.
type Matrix4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	var m Matrix4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Frustum returns the off-center perspective projection for the view
// volume bounded by left/right/bottom/top at the near plane.
//
// An asymmetric frustum (left != -right or bottom != -top) renders a
// sub-rectangle of what a symmetric full-frame camera would see, which is
// exactly how a tile of the larger virtual image is produced.
func Frustum(left, right, bottom, top, near, far float32) Matrix4 {
	var m Matrix4
	m[0] = 2 * near / (right - left)
	m[5] = 2 * near / (top - bottom)
	m[8] = (right + left) / (right - left)
	m[9] = (top + bottom) / (top - bottom)
	m[10] = -(far + near) / (far - near)
	m[11] = -1
	m[14] = -2 * far * near / (far - near)
	return m
}

// Ortho returns the off-center orthographic projection for the given view
// volume.
func Ortho(left, right, bottom, top, near, far float32) Matrix4 {
	var m Matrix4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}

// Perspective returns the symmetric perspective projection for a vertical
// field of view given in degrees.
func Perspective(fovDeg, aspect, near, far float32) Matrix4 {
	top := math32.Tan(fovDeg*math32.Pi/360) * near
	right := top * aspect
	return Frustum(-right, right, -top, top, near, far)
}

// IsOrthographic reports whether m is an orthographic projection.
// Perspective matrices map w' = -z (m[15] == 0); orthographic ones map
// w' = 1.
func (m Matrix4) IsOrthographic() bool {
	return m[15] == 1
}

// Bounds recovers the left/right/bottom/top view-volume bounds encoded in
// a projection matrix built by [Frustum] or [Ortho]. For perspective
// matrices the bounds are at the near plane.
//
// The reference renderer uses this to locate a tile's sub-rectangle
// inside the full virtual image without any side channel beyond the
// matrix itself.
func (m Matrix4) Bounds() (left, right, bottom, top float32) {
	if m.IsOrthographic() {
		rw := 2 / m[0]
		rh := 2 / m[5]
		right = (rw - m[12]*rw) / 2
		left = right - rw
		top = (rh - m[13]*rh) / 2
		bottom = top - rh
		return left, right, bottom, top
	}
	// near = m14/(m10-1) follows from m10 = -(f+n)/(f-n), m14 = -2fn/(f-n).
	near := m[14] / (m[10] - 1)
	rw := 2 * near / m[0]
	rh := 2 * near / m[5]
	right = (m[8]*rw + rw) / 2
	left = right - rw
	top = (m[9]*rh + rh) / 2
	bottom = top - rh
	return left, right, bottom, top
}
