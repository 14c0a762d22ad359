package compositor

import "math"

// nearlyZero is the tolerance used when classifying matrices. It matches the
// 1/4096 threshold raster backends use for scalar comparisons.
const nearlyZero = 1.0 / 4096

// Matrix is a 3x3 transformation matrix for 2D drawing, including the
// perspective row produced when a 3D transform is flattened:
//
//	| a  b  c |
//	| d  e  f |
//	| g  h  i |
//
// Points are mapped homogeneously:
//
//	w  = g*x + h*y + i
//	x' = (a*x + b*y + c) / w
//	y' = (d*x + e*y + f) / w
//
// The zero value is not a valid transform; use Identity.
type Matrix struct {
	A, B, C float64
	D, E, F float64
	G, H, I float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1, I: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y, I: 1}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y, I: 1}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
		I: 1,
	}
}

// RectToRect returns the scale+translate matrix mapping src onto dst.
// An empty src yields the identity.
func RectToRect(src, dst RectF) Matrix {
	if src.IsEmpty() {
		return Identity()
	}
	sx := dst.W / src.W
	sy := dst.H / src.H
	return Matrix{
		A: sx, C: dst.X - src.X*sx,
		E: sy, F: dst.Y - src.Y*sy,
		I: 1,
	}
}

// Multiply returns m * other, so other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D + m.C*other.G,
		B: m.A*other.B + m.B*other.E + m.C*other.H,
		C: m.A*other.C + m.B*other.F + m.C*other.I,
		D: m.D*other.A + m.E*other.D + m.F*other.G,
		E: m.D*other.B + m.E*other.E + m.F*other.H,
		F: m.D*other.C + m.E*other.F + m.F*other.I,
		G: m.G*other.A + m.H*other.D + m.I*other.G,
		H: m.G*other.B + m.H*other.E + m.I*other.H,
		I: m.G*other.C + m.H*other.F + m.I*other.I,
	}
}

// MapPoint applies the transformation to a point, dividing by w when the
// matrix has perspective.
func (m Matrix) MapPoint(p Point) Point {
	x := m.A*p.X + m.B*p.Y + m.C
	y := m.D*p.X + m.E*p.Y + m.F
	if !m.HasPerspective() {
		return Point{X: x, Y: y}
	}
	w := m.G*p.X + m.H*p.Y + m.I
	if w == 0 {
		return Point{X: x, Y: y}
	}
	return Point{X: x / w, Y: y / w}
}

// MapRect returns the bounding box of r's four mapped corners.
func (m Matrix) MapRect(r RectF) RectF {
	c := r.Corners()
	for i := range c {
		c[i] = m.MapPoint(c[i])
	}
	return BoundingRect(c[:]...)
}

// Invert returns the inverse matrix and whether it exists.
func (m Matrix) Invert() (Matrix, bool) {
	c00 := m.E*m.I - m.F*m.H
	c01 := m.F*m.G - m.D*m.I
	c02 := m.D*m.H - m.E*m.G
	det := m.A*c00 + m.B*c01 + m.C*c02
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix{
		A: c00 * inv,
		B: (m.C*m.H - m.B*m.I) * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: c01 * inv,
		E: (m.A*m.I - m.C*m.G) * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
		G: c02 * inv,
		H: (m.B*m.G - m.A*m.H) * inv,
		I: (m.A*m.E - m.B*m.D) * inv,
	}, true
}

// IsIdentity reports whether the matrix is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether the matrix only translates.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1 && !m.HasPerspective()
}

// HasPerspective reports whether the bottom row differs from (0, 0, 1).
func (m Matrix) HasPerspective() bool {
	return m.G != 0 || m.H != 0 || m.I != 1
}

// IsAxisAligned reports whether the matrix maps axis-aligned rectangles to
// axis-aligned rectangles without perspective.
func (m Matrix) IsAxisAligned() bool {
	if m.HasPerspective() {
		return false
	}
	return (m.B == 0 && m.D == 0) || (m.A == 0 && m.E == 0)
}

// IsScaleAndIntegerTranslate reports whether the matrix is a pure scale
// followed by a whole-pixel translation, within 1/4096. Such matrices draw
// without antialiasing or bitmap filtering.
func (m Matrix) IsScaleAndIntegerTranslate() bool {
	return isNearlyInteger(m.C) &&
		isNearlyInteger(m.F) &&
		isNearlyZero(m.B) &&
		isNearlyZero(m.D) &&
		isNearlyZero(m.G) &&
		isNearlyZero(m.H) &&
		isNearlyZero(m.I-1)
}

func isNearlyZero(v float64) bool {
	return math.Abs(v) <= nearlyZero
}

func isNearlyInteger(v float64) bool {
	return isNearlyZero(v - math.Round(v))
}
