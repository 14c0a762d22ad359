// Package image provides pixel sampling and buffer pooling for the
// software compositor.
package image

import (
	"image"
	"math"
)

// InterpolationMode defines how a bitmap is sampled.
type InterpolationMode uint8

const (
	// InterpNearest selects the pixel containing the sample point.
	InterpNearest InterpolationMode = iota

	// InterpBilinear interpolates the four pixels around the sample point.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// Sample returns the premultiplied color of img at pixel-space coordinates
// (x, y). Pixel centers sit at half-integer coordinates. Sampling is
// clamped to the edges of sub, which must lie within img's bounds; this
// is the clamp tile mode of a bitmap shader.
func Sample(img *image.RGBA, sub image.Rectangle, x, y float64, mode InterpolationMode) [4]byte {
	if sub.Empty() {
		return [4]byte{}
	}
	if mode == InterpNearest {
		px := clamp(int(math.Floor(x)), sub.Min.X, sub.Max.X-1)
		py := clamp(int(math.Floor(y)), sub.Min.Y, sub.Max.Y-1)
		return at(img, px, py)
	}

	fx := x - 0.5
	fy := y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clamp(x0+1, sub.Min.X, sub.Max.X-1)
	y1 := clamp(y0+1, sub.Min.Y, sub.Max.Y-1)
	x0 = clamp(x0, sub.Min.X, sub.Max.X-1)
	y0 = clamp(y0, sub.Min.Y, sub.Max.Y-1)

	c00 := at(img, x0, y0)
	c10 := at(img, x1, y0)
	c01 := at(img, x0, y1)
	c11 := at(img, x1, y1)

	var out [4]byte
	for i := range out {
		v := lerp2D(float64(c00[i]), float64(c10[i]), float64(c01[i]), float64(c11[i]), tx, ty)
		out[i] = byte(math.Round(v)) //nolint:gosec // interpolation of bytes stays in range
	}
	return out
}

func at(img *image.RGBA, x, y int) [4]byte {
	i := img.PixOffset(x, y)
	return [4]byte{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// lerp2D performs bilinear interpolation between four corner values.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
