// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"image"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/surface"
)

type scissorState struct {
	enabled bool
	rect    image.Rectangle
}

// SetScissorTestRect limits drawing on the bound framebuffer to rect, in
// device pixels.
func (r *SoftwareRenderer) SetScissorTestRect(rect image.Rectangle) {
	r.scissor = scissorState{enabled: true, rect: rect}
	r.setClipRect(rect)
}

// EnsureScissorTestEnabled reapplies the last scissor rect.
func (r *SoftwareRenderer) EnsureScissorTestEnabled() {
	r.scissor.enabled = true
	r.setClipRect(r.scissor.rect)
}

// EnsureScissorTestDisabled lifts the scissor by clipping to the whole
// framebuffer.
func (r *SoftwareRenderer) EnsureScissorTestDisabled() {
	r.scissor.enabled = false
	if r.canvas == nil {
		return
	}
	r.setClipRect(image.Rect(0, 0, r.canvas.Width(), r.canvas.Height()))
}

// ScissorState returns the scissor rect and whether it is enabled.
func (r *SoftwareRenderer) ScissorState() (image.Rectangle, bool) {
	return r.scissor.rect, r.scissor.enabled
}

// setClipRect replaces the clip with rect. The canvas maps clip rects
// through its matrix, so the matrix is cleared around the call.
func (r *SoftwareRenderer) setClipRect(rect image.Rectangle) {
	if r.canvas == nil {
		return
	}
	m := r.canvas.Matrix()
	r.canvas.ResetMatrix()
	r.canvas.ClipRect(compositor.RectFromImage(rect), surface.ClipReplace)
	r.canvas.SetMatrix(m)
}
