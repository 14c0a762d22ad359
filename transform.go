package compositor

import "image"

// Transform is a 4x4 row-major matrix acting on column vectors. Quads carry
// a Transform from their local space to their render pass target; the
// frame's projection and window matrices are Transforms too.
type Transform [4][4]float64

// IdentityTransform returns the 4x4 identity.
func IdentityTransform() Transform {
	return Transform{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// TranslateTransform returns a 2D translation.
func TranslateTransform(x, y float64) Transform {
	return IdentityTransform().Translate(x, y)
}

// ScaleTransform returns a 2D scale.
func ScaleTransform(x, y float64) Transform {
	return IdentityTransform().Scale(x, y)
}

// FromMatrix lifts a 2D matrix into a Transform.
func FromMatrix(m Matrix) Transform {
	return Transform{
		{m.A, m.B, 0, m.C},
		{m.D, m.E, 0, m.F},
		{0, 0, 1, 0},
		{m.G, m.H, 0, m.I},
	}
}

// Multiply returns t * o, so o is applied first.
func (t Transform) Multiply(o Transform) Transform {
	var r Transform
	for i := range 4 {
		for j := range 4 {
			var s float64
			for k := range 4 {
				s += t[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Translate returns t post-multiplied by a 2D translation.
func (t Transform) Translate(x, y float64) Transform {
	return t.Translate3d(x, y, 0)
}

// Translate3d returns t post-multiplied by a 3D translation.
func (t Transform) Translate3d(x, y, z float64) Transform {
	o := IdentityTransform()
	o[0][3], o[1][3], o[2][3] = x, y, z
	return t.Multiply(o)
}

// Scale returns t post-multiplied by a 2D scale.
func (t Transform) Scale(x, y float64) Transform {
	return t.Scale3d(x, y, 1)
}

// Scale3d returns t post-multiplied by a 3D scale.
func (t Transform) Scale3d(x, y, z float64) Transform {
	o := IdentityTransform()
	o[0][0], o[1][1], o[2][2] = x, y, z
	return t.Multiply(o)
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

// MapPoint maps a point on the z=0 plane and projects it back to 2D.
func (t Transform) MapPoint(p Point) Point {
	x := t[0][0]*p.X + t[0][1]*p.Y + t[0][3]
	y := t[1][0]*p.X + t[1][1]*p.Y + t[1][3]
	w := t[3][0]*p.X + t[3][1]*p.Y + t[3][3]
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// FlattenTo2d discards the z row and column, leaving a transform whose
// effect on the z=0 plane is unchanged but which no longer carries depth
// terms introduced by out-of-plane rotation or numerical noise.
func (t Transform) FlattenTo2d() Transform {
	t[2][0], t[2][1] = 0, 0
	t[0][2], t[1][2] = 0, 0
	t[2][2] = 1
	t[3][2], t[2][3] = 0, 0
	return t
}

// ToMatrix returns the 2D matrix formed by rows and columns 0, 1 and 3.
func (t Transform) ToMatrix() Matrix {
	return Matrix{
		A: t[0][0], B: t[0][1], C: t[0][3],
		D: t[1][0], E: t[1][1], F: t[1][3],
		G: t[3][0], H: t[3][1], I: t[3][3],
	}
}

// OrthoProjection maps [left,right]x[bottom,top] onto normalized device
// coordinates. The depth row is zeroed since quads are drawn without a
// depth buffer.
func OrthoProjection(left, right, bottom, top float64) Transform {
	proj := IdentityTransform()
	dx := right - left
	dy := top - bottom
	if dx == 0 || dy == 0 {
		return proj
	}
	proj[0][0] = 2 / dx
	proj[0][3] = -(right + left) / dx
	proj[1][1] = 2 / dy
	proj[1][3] = -(top + bottom) / dy
	proj[2][2] = 0
	return proj
}

// WindowMatrix maps normalized device coordinates onto the pixel rectangle
// (x, y, w, h).
func WindowMatrix(x, y, w, h int) Transform {
	return IdentityTransform().
		Translate3d(float64(x), float64(y), 0).
		Scale3d(float64(w), float64(h), 0).
		Translate3d(0.5, 0.5, 0.5).
		Scale3d(0.5, 0.5, 0.5)
}

// QuadRectTransform returns quadTransform scaled and translated so that
// QuadVertexRect maps onto quadRect.
func QuadRectTransform(quadTransform Transform, quadRect image.Rectangle) Transform {
	r := RectFromImage(quadRect)
	c := r.Center()
	return quadTransform.Translate(c.X, c.Y).Scale(r.W, r.H)
}

// ComposeDrawTransform returns the device-space matrix used to draw a quad:
// window * projection * QuadRectTransform(quadTransform, quadRect),
// flattened to 2D.
func ComposeDrawTransform(window, projection, quadTransform Transform, quadRect image.Rectangle) Matrix {
	return window.
		Multiply(projection).
		Multiply(QuadRectTransform(quadTransform, quadRect)).
		FlattenTo2d().
		ToMatrix()
}
