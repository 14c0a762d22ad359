// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/quad"
	"github.com/gogpu/compositor/renderpass"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

var errNoPassStore = errors.New("renderer: render pass lookup cannot store outputs")

// frameEnder is implemented by pass stores that evict entries at the end
// of a frame, such as *renderpass.Cache.
type frameEnder interface {
	EndFrame() int
}

// DrawFrame draws passes, which must be in dependency order with the root
// pass last, and leaves the result ready for SwapBuffers.
//
// Child passes are drawn into bitmaps recorded in the renderer's pass
// store so later passes can sample them. The root pass is drawn into the
// output surface, scissored to its damage when the surface supports
// partial swap. Cancelling ctx abandons the frame between quads.
//
// DrawFrame reports whether a frame was produced.
func (r *SoftwareRenderer) DrawFrame(ctx context.Context, passes []*renderpass.Pass) bool {
	if len(passes) == 0 || !r.visible {
		return false
	}
	if r.out == nil {
		compositor.Logger().Warn("renderer: cannot begin frame", "err", ErrNoOutputSurface)
		return false
	}
	root := passes[len(passes)-1]
	frame := &DrawingFrame{
		RootPass:       root,
		RootDamageRect: r.rootDamage(root),
	}
	if err := r.BeginDrawingFrame(frame); err != nil {
		compositor.Logger().Warn("renderer: cannot begin frame", "err", err)
		return false
	}

	for _, pass := range passes {
		if err := r.drawPass(ctx, frame, pass); err != nil {
			r.AbandonFrame(frame)
			compositor.Logger().Warn("renderer: frame abandoned", "pass", pass.ID, "err", err)
			return false
		}
	}
	if err := r.FinishDrawingFrame(frame); err != nil {
		compositor.Logger().Warn("renderer: cannot finish frame", "err", err)
		return false
	}
	if fe, ok := r.passes.(frameEnder); ok {
		if n := fe.EndFrame(); n > 0 {
			compositor.Logger().Debug("renderer: render passes evicted", "count", n)
		}
	}
	return true
}

// rootDamage returns the part of the root pass to redraw. An empty damage
// rect means the whole pass changed. The HUD changes every frame, so it
// forces a full redraw, as does an abandoned frame that left pixels in
// the back buffer.
func (r *SoftwareRenderer) rootDamage(root *renderpass.Pass) compositor.RectF {
	full := compositor.RectFromImage(root.OutputRect)
	if root.DamageRect.IsEmpty() || !r.out.Capabilities().PartialSwap || r.showHUD() || r.backBufferDirty {
		return full
	}
	return root.DamageRect.Intersect(full)
}

// drawPass binds the pass's framebuffer and draws its quads in order.
// Only cancellation is returned as an error; a child pass that cannot be
// bound is skipped.
func (r *SoftwareRenderer) drawPass(ctx context.Context, frame *DrawingFrame, pass *renderpass.Pass) error {
	frame.CurrentPass = pass
	r.stats.Passes++

	if pass == frame.RootPass {
		r.BindFramebufferToOutputSurface(frame)
		r.InitializeViewport(frame, pass.OutputRect, image.Rectangle{Max: r.out.Size()})
	} else {
		id, err := r.passTexture(pass)
		if err != nil {
			compositor.Logger().Debug("renderer: render pass skipped", "pass", pass.ID, "err", err)
			return nil
		}
		if !r.BindFramebufferToTexture(frame, id, pass.OutputRect) {
			return nil
		}
	}

	scissor, useScissor := r.scissorRect(frame, pass)
	if useScissor {
		r.SetScissorTestRect(scissor)
	} else {
		r.EnsureScissorTestDisabled()
	}
	r.ClearFramebuffer(frame)

	for i := range pass.Quads {
		if err := ctx.Err(); err != nil {
			return err
		}
		q := &pass.Quads[i]
		if useScissor && !r.quadBounds(frame, q).Overlaps(scissor) {
			continue
		}
		r.DoDrawQuad(frame, q)
	}

	if pass == frame.RootPass && r.showHUD() {
		r.drawHUD(frame)
	}
	for _, req := range pass.CopyRequests {
		r.CopyCurrentRenderPassToBitmap(frame, req)
	}
	return nil
}

// scissorRect returns the device rect the root pass is limited to, if
// its damage does not cover it.
func (r *SoftwareRenderer) scissorRect(frame *DrawingFrame, pass *renderpass.Pass) (image.Rectangle, bool) {
	if pass != frame.RootPass || !r.out.Capabilities().PartialSwap {
		return image.Rectangle{}, false
	}
	full := compositor.RectFromImage(pass.OutputRect)
	if frame.RootDamageRect == full {
		return image.Rectangle{}, false
	}
	return frame.toDevice(frame.RootDamageRect), true
}

// quadBounds returns the device pixels q may touch.
func (r *SoftwareRenderer) quadBounds(frame *DrawingFrame, q *quad.Quad) image.Rectangle {
	m := compositor.ComposeDrawTransform(frame.WindowMatrix, frame.ProjectionMatrix, q.Transform, q.Rect)
	return m.MapRect(compositor.QuadVertexRect()).ToEnclosingRect()
}

// passTexture returns a bitmap sized for pass, reusing the one stored for
// it when the size still matches.
func (r *SoftwareRenderer) passTexture(pass *renderpass.Pass) (resource.ID, error) {
	store, ok := r.passes.(renderpass.Store)
	if !ok {
		return 0, errNoPassStore
	}
	size := pass.OutputRect.Size()
	if id, ok := store.Lookup(pass.ID); ok {
		if got, err := r.res.Size(id); err == nil && got == size {
			return id, nil
		}
	}
	id, err := r.res.CreateBitmap(size.X, size.Y)
	if err != nil {
		return 0, fmt.Errorf("pass %v: %w", pass.ID, err)
	}
	store.Store(pass.ID, id)
	return id, nil
}

func (r *SoftwareRenderer) showHUD() bool {
	return r.hud != nil && r.settings.ShowHUD
}

// drawHUD draws the statistics panel in the top-left viewport corner.
func (r *SoftwareRenderer) drawHUD(frame *DrawingFrame) {
	stats := r.stats
	stats.Elapsed = r.now().Sub(r.frameStart)
	panel := r.hud.Render(stats)

	b := compositor.RectFromImage(panel.Bounds())
	dst := b
	dst.X += float64(frame.ViewportRect.Min.X)
	dst.Y += float64(frame.ViewportRect.Min.Y)

	r.canvas.ResetMatrix()
	r.canvas.DrawImageRect(panel, b, dst, &surface.Paint{Color: compositor.White})
}
