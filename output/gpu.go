//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/program"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// GPUPresenter uploads swapped frames into a wgpu HAL texture that a
// render pipeline built from program.Blit can draw to the screen.
//
// GPU objects are created on the first Present, which is what deferred
// GPU initialization refers to.
type GPUPresenter struct {
	mu     sync.Mutex
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	texture hal.Texture
	size    image.Point
	module  hal.ShaderModule
	uploads uint64
}

var _ Presenter = (*GPUPresenter)(nil)

// NewGPUPresenter creates a presenter on device and queue. format must
// be an 8-bit RGBA or BGRA format matching the frame byte order.
func NewGPUPresenter(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *GPUPresenter {
	return &GPUPresenter{device: device, queue: queue, format: format}
}

// Present writes the damage rect of frame into the texture, recreating
// the texture when the frame size changes.
func (p *GPUPresenter) Present(frame *CompositorFrame) error {
	if frame == nil || frame.Software == nil || frame.Software.Pixels == nil {
		return ErrNoPendingFrame
	}
	data := frame.Software

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.module == nil {
		mod, err := program.Blit.CreateModule(p.device)
		if err != nil {
			return fmt.Errorf("output: blit program: %w", err)
		}
		p.module = mod
	}

	damage := data.DamageRect.Intersect(data.Pixels.Bounds())
	if p.texture == nil || p.size != data.Size {
		if err := p.recreateLocked(data.Size); err != nil {
			return err
		}
		// A new texture has no previous contents to keep.
		damage = data.Pixels.Bounds()
	}
	if damage.Empty() {
		return nil
	}

	err := p.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: p.texture,
			Origin:  hal.Origin3D{X: uint32(damage.Min.X), Y: uint32(damage.Min.Y)}, //nolint:gosec // damage is inside the frame
			Aspect:  gputypes.TextureAspectAll,
		},
		packRows(data.Pixels, damage),
		&hal.ImageDataLayout{
			BytesPerRow:  uint32(damage.Dx() * 4), //nolint:gosec // bounded by max texture size
			RowsPerImage: uint32(damage.Dy()),     //nolint:gosec // bounded by max texture size
		},
		&hal.Extent3D{Width: uint32(damage.Dx()), Height: uint32(damage.Dy()), DepthOrArrayLayers: 1}, //nolint:gosec // bounded by max texture size
	)
	if err != nil {
		return fmt.Errorf("output: write texture: %w", err)
	}
	p.uploads++
	return nil
}

func (p *GPUPresenter) recreateLocked(size image.Point) error {
	if p.texture != nil {
		p.device.DestroyTexture(p.texture)
		p.texture = nil
	}
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "compositor-frame",
		Size:          hal.Extent3D{Width: uint32(size.X), Height: uint32(size.Y), DepthOrArrayLayers: 1}, //nolint:gosec // frame sizes are positive
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        p.format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("output: create frame texture: %w", err)
	}
	compositor.Logger().Debug("output: frame texture created", "width", size.X, "height", size.Y)
	p.texture = tex
	p.size = size
	return nil
}

// Texture returns the frame texture, or nil before the first Present.
func (p *GPUPresenter) Texture() hal.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texture
}

// Uploads returns how many texture writes were issued.
func (p *GPUPresenter) Uploads() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploads
}

// Close destroys the GPU objects. Close is idempotent.
func (p *GPUPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.texture != nil {
		p.device.DestroyTexture(p.texture)
		p.texture = nil
	}
	if p.module != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
	return nil
}
