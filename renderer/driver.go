// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/hud"
	"github.com/gogpu/compositor/output"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// BeginDrawingFrame starts painting the root damage rect on the output
// surface.
func (r *SoftwareRenderer) BeginDrawingFrame(frame *DrawingFrame) error {
	if r.out == nil {
		return ErrNoOutputSurface
	}
	if r.inFrame {
		return ErrFrameInProgress
	}
	damage := frame.RootDamageRect.ToEnclosingRect()
	canvas, err := r.out.BeginPaint(damage)
	if err != nil {
		return fmt.Errorf("renderer: begin paint: %w", err)
	}
	r.rootCanvas = canvas
	r.inFrame = true
	r.frameStart = r.now()
	r.stats = hud.Stats{Frame: r.frameNumber + 1, Damage: damage}
	return nil
}

// BindFramebufferToOutputSurface makes the output canvas the current
// framebuffer.
func (r *SoftwareRenderer) BindFramebufferToOutputSurface(frame *DrawingFrame) {
	r.releaseFramebuffer()
	r.canvas = r.rootCanvas
}

// BindFramebufferToTexture makes the bitmap id the current framebuffer,
// holding a write lock on it until another framebuffer is bound or the
// frame ends. It reports false when the bitmap cannot be locked.
func (r *SoftwareRenderer) BindFramebufferToTexture(frame *DrawingFrame, id resource.ID, targetRect image.Rectangle) bool {
	r.releaseFramebuffer()
	r.canvas = nil

	lock, err := r.res.AcquireWrite(id)
	if err != nil {
		compositor.Logger().Debug("renderer: cannot bind framebuffer", "id", id, "err", err)
		return false
	}
	r.fbLock = lock
	r.canvas = surface.NewImageSurfaceFromImage(lock.Bitmap())
	r.InitializeViewport(frame, targetRect, image.Rectangle{Max: targetRect.Size()})
	return true
}

// InitializeViewport sets up the projection mapping drawRect, in pass
// space, onto viewportRect, in device space.
func (r *SoftwareRenderer) InitializeViewport(frame *DrawingFrame, drawRect, viewportRect image.Rectangle) {
	frame.DrawRect = drawRect
	frame.ViewportRect = viewportRect
	frame.ProjectionMatrix = compositor.OrthoProjection(
		float64(drawRect.Min.X), float64(drawRect.Max.X),
		float64(drawRect.Min.Y), float64(drawRect.Max.Y))
	frame.WindowMatrix = compositor.WindowMatrix(
		viewportRect.Min.X, viewportRect.Min.Y, viewportRect.Dx(), viewportRect.Dy())
	r.viewport = viewportRect
}

func (r *SoftwareRenderer) releaseFramebuffer() {
	if r.fbLock == nil {
		return
	}
	if err := r.fbLock.Release(); err != nil {
		compositor.Logger().Warn("renderer: framebuffer release failed", "id", r.fbLock.ID(), "err", err)
	}
	r.fbLock = nil
}

// ClearFramebuffer clears the scissored part of the bound framebuffer:
// to transparent for passes with a transparent background, to blue with
// debug colors, otherwise not at all.
func (r *SoftwareRenderer) ClearFramebuffer(frame *DrawingFrame) {
	if r.canvas == nil || frame.CurrentPass == nil {
		return
	}
	switch {
	case frame.CurrentPass.HasTransparentBackground:
		r.clearCanvas(compositor.Transparent)
	case r.settings.DebugColors:
		r.clearCanvas(compositor.Blue)
	}
}

// clearCanvas fills with c. Clear ignores the clip, so a scissored clear
// draws the color instead.
func (r *SoftwareRenderer) clearCanvas(c color.NRGBA) {
	if r.scissor.enabled {
		r.canvas.DrawColor(c, surface.BlendModeSource)
	} else {
		r.canvas.Clear(c)
	}
}

// FinishDrawingFrame ends painting and captures the frame for
// SwapBuffers.
func (r *SoftwareRenderer) FinishDrawingFrame(frame *DrawingFrame) error {
	if !r.inFrame {
		return ErrNoFrameInProgress
	}
	r.endFrameState()
	r.stats.Elapsed = r.now().Sub(r.frameStart)

	data := new(output.FrameData)
	if err := r.out.EndPaint(data); err != nil {
		return fmt.Errorf("renderer: end paint: %w", err)
	}
	r.frameData = data
	r.backBufferDirty = false
	return nil
}

// AbandonFrame drops the frame in progress. Nothing is submitted, and
// the next frame repaints the whole output surface.
func (r *SoftwareRenderer) AbandonFrame(frame *DrawingFrame) {
	if !r.inFrame {
		return
	}
	r.endFrameState()
	r.backBufferDirty = true
	if frame != nil {
		frame.CurrentPass = nil
	}
	compositor.Logger().Debug("renderer: frame abandoned", "frame", r.frameNumber+1)
}

func (r *SoftwareRenderer) endFrameState() {
	r.releaseFramebuffer()
	r.canvas = nil
	r.rootCanvas = nil
	r.inFrame = false
}

// SwapBuffers submits the finished frame to the output surface. It
// reports false when there is no finished frame or the surface rejects
// it.
func (r *SoftwareRenderer) SwapBuffers() bool {
	if r.frameData == nil || r.out == nil {
		return false
	}
	data := r.frameData
	r.frameData = nil
	r.frameNumber++

	frame := &output.CompositorFrame{
		Metadata: output.Metadata{
			FrameNumber:       r.frameNumber,
			DeviceScaleFactor: r.scale,
			ViewportSize:      r.out.Size(),
			Timestamp:         r.now(),
		},
		Software: data,
	}
	if err := r.out.SwapBuffers(frame); err != nil {
		compositor.Logger().Warn("renderer: swap failed", "frame", frame, "err", err)
		_ = r.out.ReclaimFrame(data.ID)
		return false
	}
	return true
}

// ReceiveSwapBuffersAck returns the acknowledged frame's buffer to the
// output surface.
func (r *SoftwareRenderer) ReceiveSwapBuffersAck(ack output.CompositorFrameAck) {
	if r.out == nil {
		return
	}
	if err := r.out.ReclaimFrame(ack.LastSoftwareFrameID); err != nil {
		compositor.Logger().Debug("renderer: reclaim failed", "id", ack.LastSoftwareFrameID, "err", err)
	}
}

// CopyCurrentRenderPassToBitmap reads the current viewport, or the area
// the request names within it, and delivers it to req.
//
// The readback is synchronous and blocks until the pixels are copied.
func (r *SoftwareRenderer) CopyCurrentRenderPassToBitmap(frame *DrawingFrame, req *output.CopyRequest) {
	if req == nil {
		return
	}
	if r.canvas == nil {
		req.SendEmptyResult()
		return
	}
	area := r.viewport
	if a, ok := req.Area(); ok {
		area = a.Add(r.viewport.Min).Intersect(r.viewport)
	}
	if area.Empty() {
		req.SendEmptyResult()
		return
	}
	req.SendBitmapResult(r.canvas.ReadPixels(area))
}

// GetFramebufferPixels copies rect, relative to the viewport, of the
// output surface into dst as tightly packed premultiplied RGBA rows.
func (r *SoftwareRenderer) GetFramebufferPixels(dst []byte, rect image.Rectangle) error {
	c, ok := r.out.(output.BitmapCopier)
	if !ok {
		return ErrReadbackUnsupported
	}
	if need := 4 * rect.Dx() * rect.Dy(); len(dst) < need {
		return fmt.Errorf("renderer: pixel buffer holds %d bytes, need %d", len(dst), need)
	}
	img, err := c.CopyToBitmap(rect.Add(r.viewport.Min))
	if err != nil {
		return fmt.Errorf("renderer: read framebuffer: %w", err)
	}
	rowBytes := 4 * rect.Dx()
	for y := range img.Bounds().Dy() {
		i := img.PixOffset(0, y)
		copy(dst[y*rowBytes:], img.Pix[i:i+4*img.Bounds().Dx()])
	}
	return nil
}
