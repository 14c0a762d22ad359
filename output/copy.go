// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"image"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
)

// CopyRequest asks for the pixels of a render pass once it is drawn.
//
// The result is delivered exactly once, from the goroutine that draws the
// pass. A request that is dropped without a result receives nil.
type CopyRequest struct {
	area    image.Rectangle
	scaleTo image.Point
	filter  imaging.ResampleFilter
	fn      func(*image.RGBA)

	once sync.Once
	done bool
}

// CopyOption configures a CopyRequest.
type CopyOption func(*CopyRequest)

// WithArea limits the copy to r, in the pass's own space.
func WithArea(r image.Rectangle) CopyOption {
	return func(c *CopyRequest) {
		c.area = r
	}
}

// WithScale resizes the result to w×h using Lanczos resampling.
func WithScale(w, h int) CopyOption {
	return WithScaleFilter(w, h, imaging.Lanczos)
}

// WithScaleFilter resizes the result to w×h using filter. A zero w or h
// preserves the aspect ratio.
func WithScaleFilter(w, h int, filter imaging.ResampleFilter) CopyOption {
	return func(c *CopyRequest) {
		c.scaleTo = image.Pt(w, h)
		c.filter = filter
	}
}

// NewCopyRequest creates a request delivering its result to fn.
func NewCopyRequest(fn func(*image.RGBA), opts ...CopyOption) *CopyRequest {
	c := &CopyRequest{fn: fn}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Area returns the requested area and whether one was set.
func (c *CopyRequest) Area() (image.Rectangle, bool) {
	return c.area, !c.area.Empty()
}

// IsDone reports whether a result was delivered.
func (c *CopyRequest) IsDone() bool { return c.done }

// SendBitmapResult delivers img, scaled if requested. Later calls are
// ignored.
func (c *CopyRequest) SendBitmapResult(img *image.RGBA) {
	c.once.Do(func() {
		c.done = true
		if img != nil && (c.scaleTo.X > 0 || c.scaleTo.Y > 0) {
			img = scale(img, c.scaleTo, c.filter)
		}
		if c.fn != nil {
			c.fn(img)
		}
	})
}

// SendEmptyResult delivers nil.
func (c *CopyRequest) SendEmptyResult() {
	c.SendBitmapResult(nil)
}

// scale resizes a premultiplied image and returns it premultiplied with
// origin bounds.
func scale(img *image.RGBA, size image.Point, filter imaging.ResampleFilter) *image.RGBA {
	nrgba := imaging.Resize(img, size.X, size.Y, filter)
	b := nrgba.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), nrgba, b.Min, draw.Src)
	return out
}
