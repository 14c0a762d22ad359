//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// TextureAllocator creates and destroys GPU textures. A hal.Device
// satisfies it.
type TextureAllocator interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
}

// WithAllocator lets CreateGPUTexture allocate through a.
func WithAllocator(a TextureAllocator) Option {
	return func(p *Provider) {
		if a == nil {
			p.alloc = nil
			return
		}
		p.alloc = func(w, h int, format gputypes.TextureFormat) (func(), error) {
			tex, err := a.CreateTexture(textureDescriptor(w, h, format))
			if err != nil {
				return nil, err
			}
			return func() { a.DestroyTexture(tex) }, nil
		}
	}
}

func textureDescriptor(w, h int, format gputypes.TextureFormat) *hal.TextureDescriptor {
	return &hal.TextureDescriptor{
		Label: "compositor-resource",
		Size: hal.Extent3D{
			Width:              uint32(w), //nolint:gosec // checked against MaxTextureSize
			Height:             uint32(h), //nolint:gosec // checked against MaxTextureSize
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// CreateGPUTexture allocates a w×h texture in BestTextureFormat. The
// texture is destroyed when the resource is deleted.
func (p *Provider) CreateGPUTexture(w, h int) (ID, error) {
	if p.alloc == nil {
		return 0, ErrNoAllocator
	}
	if err := p.checkSize(w, h); err != nil {
		return 0, err
	}
	destroy, err := p.alloc(w, h, p.format)
	if err != nil {
		return 0, fmt.Errorf("resource: create texture %dx%d: %w", w, h, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.add(&entry{kind: KindGPUTexture, size: image.Pt(w, h), destroy: destroy}), nil
}
