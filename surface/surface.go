// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
)

// Surface is the drawing canvas a render pass is rasterized into.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Matrix returns the total matrix applied to geometry.
	Matrix() compositor.Matrix

	// SetMatrix replaces the total matrix.
	SetMatrix(m compositor.Matrix)

	// ResetMatrix sets the total matrix to identity.
	ResetMatrix()

	// Concat pre-multiplies the total matrix by m.
	Concat(m compositor.Matrix)

	// Save pushes the matrix and clip.
	Save()

	// Restore pops the matrix and clip pushed by the matching Save.
	Restore()

	// ClipRect maps r through the total matrix and combines its bounding
	// box with the current clip.
	ClipRect(r compositor.RectF, op ClipOp)

	// ClipBounds returns the current device-space clip.
	ClipBounds() image.Rectangle

	// Clear sets every pixel to c, ignoring the clip.
	Clear(c color.NRGBA)

	// DrawColor fills the clip with c using mode.
	DrawColor(c color.NRGBA, mode BlendMode)

	// DrawRect fills r, mapped through the total matrix, with p.
	DrawRect(r compositor.RectF, p *Paint)

	// StrokePolygon strokes the closed polygon through pts, mapped through
	// the total matrix, with p.StrokeWidth device pixels.
	StrokePolygon(pts []compositor.Point, p *Paint)

	// DrawImageRect draws the src rectangle of img into dst.
	DrawImageRect(img *image.RGBA, src, dst compositor.RectF, p *Paint)

	// ReadPixels copies the device rectangle r into a new image whose
	// bounds start at the origin.
	ReadPixels(r image.Rectangle) *image.RGBA

	// Flush ensures all pending drawing operations are complete.
	Flush() error

	// Snapshot returns a copy of the surface contents.
	Snapshot() *image.RGBA

	// Close releases the surface. Close is idempotent.
	Close() error
}

// PixelSurface is an optional interface for surfaces backed by CPU memory
// that can be accessed directly.
type PixelSurface interface {
	Surface

	// Image returns the backing image. Writes are visible to the surface.
	Image() *image.RGBA
}
