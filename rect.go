package compositor

import (
	"image"
	"math"
)

// Point is a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// RectF is a rectangle with float64 origin and size.
type RectF struct {
	X, Y, W, H float64
}

// RectFromImage converts an integer rectangle.
func RectFromImage(r image.Rectangle) RectF {
	return RectF{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// QuadVertexRect is the unit square centered on the origin that quads are
// drawn as once QuadRectTransform has been applied.
func QuadVertexRect() RectF {
	return RectF{X: -0.5, Y: -0.5, W: 1, H: 1}
}

// Right returns X+W.
func (r RectF) Right() float64 { return r.X + r.W }

// Bottom returns Y+H.
func (r RectF) Bottom() float64 { return r.Y + r.H }

// IsEmpty reports whether the rectangle has no area.
func (r RectF) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Center returns the center point.
func (r RectF) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Corners returns the corners in clockwise order starting at the top-left.
func (r RectF) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// Scale multiplies origin and size by sx, sy.
func (r RectF) Scale(sx, sy float64) RectF {
	return RectF{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

// Intersect returns the overlap of r and o, or the zero RectF.
func (r RectF) Intersect(o RectF) RectF {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return RectF{}
	}
	return RectF{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing r and o. Empty operands
// are ignored.
func (r RectF) Union(o RectF) RectF {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return RectF{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ToEnclosingRect returns the smallest integer rectangle containing r.
func (r RectF) ToEnclosingRect() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}

// BoundingRect returns the bounding box of the given points.
func BoundingRect(pts ...Point) RectF {
	if len(pts) == 0 {
		return RectF{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return RectF{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
