// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"errors"
	"image"

	"github.com/gogpu/compositor/surface"
)

// Output errors.
var (
	// ErrSurfaceClosed is returned by every operation after Close.
	ErrSurfaceClosed = errors.New("output: surface closed")

	// ErrNoPendingFrame is returned when EndPaint has no BeginPaint, or
	// SwapBuffers has no frame data.
	ErrNoPendingFrame = errors.New("output: no pending frame")

	// ErrUnknownFrame is returned when reclaiming a frame that is not
	// outstanding.
	ErrUnknownFrame = errors.New("output: unknown frame")
)

// Surface is the presentation target of the frame driver.
type Surface interface {
	// BeginPaint returns the canvas for a frame whose changed region is
	// damage.
	BeginPaint(damage image.Rectangle) (surface.Surface, error)

	// EndPaint finishes the frame and fills data.
	EndPaint(data *FrameData) error

	// SwapBuffers submits a finished frame.
	SwapBuffers(frame *CompositorFrame) error

	// ReclaimFrame returns the buffer of an acknowledged frame.
	ReclaimFrame(id FrameID) error

	// Size returns the surface size in pixels.
	Size() image.Point

	// Capabilities describes the surface.
	Capabilities() Capabilities
}

// BackbufferDiscarder is implemented by surfaces that can drop their back
// buffer while hidden.
type BackbufferDiscarder interface {
	DiscardBackbuffer()
	EnsureBackbuffer()
}

// BitmapCopier is implemented by surfaces whose back buffer can be read
// back on the CPU.
type BitmapCopier interface {
	// CopyToBitmap copies r of the back buffer into a new image whose
	// bounds start at the origin.
	CopyToBitmap(r image.Rectangle) (*image.RGBA, error)
}

// Presenter consumes swapped frames.
type Presenter interface {
	Present(frame *CompositorFrame) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame *CompositorFrame) error

// Present calls f(frame).
func (f PresenterFunc) Present(frame *CompositorFrame) error { return f(frame) }
