// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"image"
	"time"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/hud"
	imgpool "github.com/gogpu/compositor/internal/image"
	"github.com/gogpu/compositor/output"
	"github.com/gogpu/compositor/renderpass"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// SoftwareRenderer composites quads on the CPU.
type SoftwareRenderer struct {
	settings compositor.Settings
	out      output.Surface
	res      *resource.Provider
	passes   renderpass.Lookup

	pool  *imgpool.Pool
	hud   *hud.HUD
	now   func() time.Time
	scale float64

	// Frame state. rootCanvas is the output surface canvas returned by
	// BeginPaint, canvas whichever framebuffer is bound.
	inFrame    bool
	rootCanvas surface.Surface
	canvas     surface.Surface
	fbLock     *resource.WriteLock
	viewport   image.Rectangle
	scissor    scissorState
	paint      surface.Paint
	frameData  *output.FrameData
	frameStart time.Time

	// backBufferDirty is set when a frame is abandoned after painting
	// into the output surface. The next frame redraws everything.
	backBufferDirty bool

	frameNumber uint64
	visible     bool
	stats       hud.Stats
}

// Option configures a SoftwareRenderer.
type Option func(*SoftwareRenderer)

// WithClock sets the time source used for frame timestamps and timings.
func WithClock(now func() time.Time) Option {
	return func(r *SoftwareRenderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDeviceScaleFactor sets the scale factor reported in frame metadata.
func WithDeviceScaleFactor(f float64) Option {
	return func(r *SoftwareRenderer) {
		if f > 0 {
			r.scale = f
		}
	}
}

// WithHUD replaces the overlay drawn when Settings.ShowHUD is set.
func WithHUD(h *hud.HUD) Option {
	return func(r *SoftwareRenderer) {
		r.hud = h
	}
}

// New creates a renderer drawing into out.
//
// res provides every bitmap quads reference; when nil, a provider is
// created from settings. passes resolves render pass quads to their
// output. When it also implements renderpass.Store, DrawFrame records the
// output of child passes in it. A nil out is accepted, but every frame
// then fails with ErrNoOutputSurface.
func New(settings compositor.Settings, out output.Surface, res *resource.Provider, passes renderpass.Lookup, opts ...Option) (*SoftwareRenderer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if res == nil {
		res = resource.NewProvider(resource.WithSettings(settings))
	}
	r := &SoftwareRenderer{
		settings: settings,
		out:      out,
		res:      res,
		passes:   passes,
		pool:     imgpool.NewPool(2),
		now:      time.Now,
		scale:    1,
		visible:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.hud == nil && settings.ShowHUD {
		r.hud = hud.New()
	}
	return r, nil
}

// Settings returns the settings the renderer was created with.
func (r *SoftwareRenderer) Settings() compositor.Settings { return r.settings }

// Capabilities reports what the renderer and its output surface support.
func (r *SoftwareRenderer) Capabilities() Capabilities {
	caps := Capabilities{
		MaxTextureSize:             r.res.MaxTextureSize(),
		BestTextureFormat:          r.res.BestTextureFormat(),
		AllowPartialTextureUpdates: r.settings.AllowPartialTextureUpdates,
	}
	if r.out != nil {
		oc := r.out.Capabilities()
		caps.UsingPartialSwap = oc.PartialSwap
		caps.UsingSetVisibility = oc.SetVisibility
		caps.UsingMapImage = r.settings.UseMapImage && oc.DeferredGPUInitialization
	}
	return caps
}

// Stats returns the counters of the last drawn frame.
func (r *SoftwareRenderer) Stats() hud.Stats { return r.stats }

// Visible reports whether the renderer is visible.
func (r *SoftwareRenderer) Visible() bool { return r.visible }

// SetVisible changes visibility. Output surfaces that can drop their back
// buffer do so while hidden.
func (r *SoftwareRenderer) SetVisible(visible bool) {
	if r.visible == visible {
		return
	}
	r.visible = visible
	compositor.Logger().Info("renderer: visibility changed", "visible", visible)

	d, ok := r.out.(output.BackbufferDiscarder)
	if !ok {
		return
	}
	if visible {
		d.EnsureBackbuffer()
	} else {
		d.DiscardBackbuffer()
	}
}
