// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package filter

import (
	"image"
	"image/draw"
)

// rebase copies src into a new image whose bounds start at the origin.
func rebase(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// unpremultiply returns a copy of img whose color channels are straight
// alpha. The result is stored in an *image.RGBA container because the
// adjustment functions read the raw bytes.
func unpremultiply(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		out.Pix[i+3] = byte(a)
		if a == 0 {
			continue
		}
		for c := range 3 {
			out.Pix[i+c] = byte(min((uint32(img.Pix[i+c])*255+a/2)/a, 255))
		}
	}
	return out
}

// premultiply converts straight-alpha bytes to premultiplied in place.
func premultiply(img *image.RGBA) *image.RGBA {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		if a == 255 {
			continue
		}
		for c := range 3 {
			img.Pix[i+c] = byte((uint32(img.Pix[i+c])*a + 127) / 255)
		}
	}
	return img
}

// scaleAlpha multiplies every premultiplied channel by amount.
func scaleAlpha(img *image.RGBA, amount float64) *image.RGBA {
	amount = max(0, min(amount, 1))
	k := uint32(amount*255 + 0.5)
	out := image.NewRGBA(img.Bounds())
	for i, v := range img.Pix {
		out.Pix[i] = byte((uint32(v)*k + 127) / 255)
	}
	return out
}
