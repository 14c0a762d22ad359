// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/gogpu/compositor"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// ID identifies a resource. Zero is never issued.
type ID uint32

// Kind tells where a resource's pixels live.
type Kind uint8

const (
	// KindBitmap is a CPU-addressable *image.RGBA.
	KindBitmap Kind = iota

	// KindGPUTexture is a texture only the GPU can address.
	KindGPUTexture
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBitmap:
		return "Bitmap"
	case KindGPUTexture:
		return "GPUTexture"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// allocFunc creates a GPU texture and returns the function destroying it.
type allocFunc func(width, height int, format gputypes.TextureFormat) (destroy func(), err error)

type entry struct {
	kind     Kind
	size     image.Point
	bitmap   *image.RGBA
	texture  gpucontext.Texture
	destroy  func()
	uploader gpucontext.TextureUpdater

	readers int
	writing bool
}

// Provider owns resources and arbitrates access to them.
//
// Provider is safe for concurrent use.
type Provider struct {
	mu      sync.Mutex
	entries map[ID]*entry
	lastID  ID

	maxTextureSize int
	format         gputypes.TextureFormat
	partial        bool
	alloc          allocFunc
}

// Option configures a Provider.
type Option func(*Provider)

// WithSettings copies texture limits and upload policy from s.
func WithSettings(s compositor.Settings) Option {
	return func(p *Provider) {
		p.maxTextureSize = s.MaxTextureSize
		p.format = s.TextureFormat
		p.partial = s.AllowPartialTextureUpdates
	}
}

// WithMaxTextureSize limits the width and height of new resources.
func WithMaxTextureSize(n int) Option {
	return func(p *Provider) {
		p.maxTextureSize = n
	}
}

// WithTextureFormat sets the format reported by BestTextureFormat and used
// for GPU textures.
func WithTextureFormat(f gputypes.TextureFormat) Option {
	return func(p *Provider) {
		p.format = f
	}
}

// WithPartialTextureUpdates allows write-lock uploads to send only the
// dirty region.
func WithPartialTextureUpdates(enabled bool) Option {
	return func(p *Provider) {
		p.partial = enabled
	}
}

// NewProvider creates an empty provider using DefaultSettings unless
// overridden.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{entries: make(map[ID]*entry)}
	WithSettings(compositor.DefaultSettings())(p)
	for _, opt := range opts {
		opt(p)
	}
	if p.maxTextureSize <= 0 {
		p.maxTextureSize = compositor.DefaultMaxTextureSize
	}
	return p
}

// MaxTextureSize returns the largest width or height a resource may have.
func (p *Provider) MaxTextureSize() int { return p.maxTextureSize }

// BestTextureFormat returns the preferred texture format.
func (p *Provider) BestTextureFormat() gputypes.TextureFormat { return p.format }

// AllowPartialTextureUpdates reports whether uploads may be partial.
func (p *Provider) AllowPartialTextureUpdates() bool { return p.partial }

func (p *Provider) checkSize(w, h int) error {
	if w <= 0 || h <= 0 || w > p.maxTextureSize || h > p.maxTextureSize {
		return fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidSize, w, h, p.maxTextureSize)
	}
	return nil
}

// add registers e and returns its new ID. The caller holds p.mu.
func (p *Provider) add(e *entry) ID {
	p.lastID++
	if p.lastID == 0 {
		p.lastID++
	}
	p.entries[p.lastID] = e
	return p.lastID
}

// CreateBitmap allocates a transparent w×h bitmap.
func (p *Provider) CreateBitmap(w, h int) (ID, error) {
	if err := p.checkSize(w, h); err != nil {
		return 0, err
	}
	bmp := image.NewRGBA(image.Rect(0, 0, w, h))

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.add(&entry{kind: KindBitmap, size: image.Pt(w, h), bitmap: bmp}), nil
}

// CreateBitmapFromImage allocates a bitmap holding a premultiplied copy of
// img, rebased to the origin.
func (p *Provider) CreateBitmapFromImage(img image.Image) (ID, error) {
	b := img.Bounds()
	if err := p.checkSize(b.Dx(), b.Dy()); err != nil {
		return 0, err
	}
	bmp := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(bmp, bmp.Bounds(), img, b.Min, draw.Src)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.add(&entry{kind: KindBitmap, size: image.Pt(b.Dx(), b.Dy()), bitmap: bmp}), nil
}

// ImportTexture registers a texture owned elsewhere. Its pixels are not
// CPU-addressable.
func (p *Provider) ImportTexture(tex gpucontext.Texture) (ID, error) {
	if tex == nil {
		return 0, fmt.Errorf("%w: nil texture", ErrInvalidSize)
	}
	if err := p.checkSize(tex.Width(), tex.Height()); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.add(&entry{kind: KindGPUTexture, size: image.Pt(tex.Width(), tex.Height()), texture: tex}), nil
}

// Delete removes a resource, destroying any GPU texture the provider
// allocated for it. Locked resources cannot be deleted.
func (p *Provider) Delete(id ID) error {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	if e.readers > 0 || e.writing {
		p.mu.Unlock()
		return fmt.Errorf("%w: delete id=%d", ErrResourceBusy, id)
	}
	delete(p.entries, id)
	p.mu.Unlock()

	if e.destroy != nil {
		e.destroy()
	}
	return nil
}

// Kind returns where the resource's pixels live.
func (p *Provider) Kind(id ID) (Kind, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return 0, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	return e.kind, nil
}

// Size returns the resource dimensions.
func (p *Provider) Size(id ID) (image.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return image.Point{}, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	return e.size, nil
}

// Len returns the number of live resources.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// AttachUploader mirrors the bitmap id into u every time a write lock on
// it is released. A nil u detaches.
func (p *Provider) AttachUploader(id ID, u gpucontext.TextureUpdater) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	if e.kind != KindBitmap {
		return fmt.Errorf("%w: id=%d is %s", ErrResourceWrongKind, id, e.kind)
	}
	e.uploader = u
	return nil
}
