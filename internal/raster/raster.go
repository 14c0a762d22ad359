// Package raster turns device-space polygons into 8-bit coverage masks.
//
// Coverage is accumulated by golang.org/x/image/vector. Without
// antialiasing a pixel is either fully covered or not covered, decided at
// half coverage.
package raster

import (
	"image"
	"math"

	"github.com/gogpu/compositor"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// FillPolygon rasterizes the closed polygon pts and returns its coverage
// restricted to clip. The returned mask's bounds are in device space. It
// returns nil when nothing is covered.
func FillPolygon(pts []compositor.Point, clip image.Rectangle, antiAlias bool) *image.Alpha {
	if len(pts) < 3 {
		return nil
	}
	bounds := compositor.BoundingRect(pts...).ToEnclosingRect().Intersect(clip)
	if bounds.Empty() {
		return nil
	}
	z := newRasterizer(bounds)
	addPolygon(z, bounds, pts)
	return finish(z, bounds, antiAlias)
}

// StrokePolygon rasterizes the outline of the closed polygon pts with the
// given device-space width. Segments are extended by half the width at
// both ends so that corners are filled.
func StrokePolygon(pts []compositor.Point, width float64, clip image.Rectangle, antiAlias bool) *image.Alpha {
	if len(pts) < 2 || width <= 0 {
		return nil
	}
	hw := width / 2
	outline := compositor.BoundingRect(pts...)
	outline = compositor.RectF{X: outline.X - hw, Y: outline.Y - hw, W: outline.W + width, H: outline.H + width}
	bounds := outline.ToEnclosingRect().Intersect(clip)
	if bounds.Empty() {
		return nil
	}

	z := newRasterizer(bounds)
	drawn := false
	for i := range pts {
		p0 := pts[i]
		p1 := pts[(i+1)%len(pts)]
		dx, dy := p1.X-p0.X, p1.Y-p0.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit direction scaled to half width, and its normal.
		ux, uy := dx/length*hw, dy/length*hw
		nx, ny := -uy, ux
		addPolygon(z, bounds, []compositor.Point{
			{X: p0.X - ux + nx, Y: p0.Y - uy + ny},
			{X: p1.X + ux + nx, Y: p1.Y + uy + ny},
			{X: p1.X + ux - nx, Y: p1.Y + uy - ny},
			{X: p0.X - ux - nx, Y: p0.Y - uy - ny},
		})
		drawn = true
	}
	if !drawn {
		return nil
	}
	return finish(z, bounds, antiAlias)
}

func newRasterizer(bounds image.Rectangle) *vector.Rasterizer {
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Src
	return z
}

func addPolygon(z *vector.Rasterizer, bounds image.Rectangle, pts []compositor.Point) {
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	z.ClosePath()
}

func finish(z *vector.Rasterizer, bounds image.Rectangle, antiAlias bool) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	mask.Rect = bounds

	if !antiAlias {
		for i, a := range mask.Pix {
			if a >= 128 {
				mask.Pix[i] = 255
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	return mask
}
