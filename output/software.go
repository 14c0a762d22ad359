// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/gogpu/compositor"
	imgpool "github.com/gogpu/compositor/internal/image"
	"github.com/gogpu/compositor/surface"
)

// SoftwareDevice is an output surface backed by CPU memory.
//
// The back buffer persists between frames, so pixels outside the damage
// rect keep their previous contents. EndPaint copies the back buffer into
// a pooled frame buffer that stays valid until the frame is reclaimed.
type SoftwareDevice struct {
	mu sync.Mutex

	size      image.Point
	back      *image.RGBA
	pool      *imgpool.Pool
	presenter Presenter
	caps      Capabilities

	painting bool
	damage   image.Rectangle
	lastID   FrameID
	pending  map[FrameID]*image.RGBA
	swapped  uint64
	closed   bool
}

var (
	_ Surface             = (*SoftwareDevice)(nil)
	_ BackbufferDiscarder = (*SoftwareDevice)(nil)
	_ BitmapCopier        = (*SoftwareDevice)(nil)
)

// DeviceOption configures a SoftwareDevice.
type DeviceOption func(*SoftwareDevice)

// WithPresenter forwards swapped frames to p.
func WithPresenter(p Presenter) DeviceOption {
	return func(d *SoftwareDevice) {
		d.presenter = p
	}
}

// WithDeferredGPUInitialization reports deferred GPU initialization in
// the device capabilities.
func WithDeferredGPUInitialization(enabled bool) DeviceOption {
	return func(d *SoftwareDevice) {
		d.caps.DeferredGPUInitialization = enabled
	}
}

// WithMaxFramesPending limits how many frames may await reclaim before
// the oldest is reclaimed implicitly.
func WithMaxFramesPending(n int) DeviceOption {
	return func(d *SoftwareDevice) {
		d.caps.MaxFramesPending = n
	}
}

// NewSoftwareDevice creates a device with a w×h back buffer.
func NewSoftwareDevice(w, h int, opts ...DeviceOption) *SoftwareDevice {
	d := &SoftwareDevice{
		size:    image.Pt(max(w, 1), max(h, 1)),
		pool:    imgpool.NewPool(4),
		pending: make(map[FrameID]*image.RGBA),
		caps: Capabilities{
			PartialSwap:      true,
			SetVisibility:    true,
			MaxFramesPending: 2,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Size returns the device size.
func (d *SoftwareDevice) Size() image.Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// Capabilities returns the device capabilities.
func (d *SoftwareDevice) Capabilities() Capabilities {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caps
}

// Resize changes the device size, dropping the back buffer.
func (d *SoftwareDevice) Resize(w, h int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	size := image.Pt(max(w, 1), max(h, 1))
	if size == d.size {
		return
	}
	d.size = size
	d.back = nil
}

// BeginPaint returns a canvas over the back buffer.
func (d *SoftwareDevice) BeginPaint(damage image.Rectangle) (surface.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrSurfaceClosed
	}
	d.ensureBackLocked()
	d.painting = true
	d.damage = damage.Intersect(d.back.Bounds())
	return surface.NewImageSurfaceFromImage(d.back), nil
}

// EndPaint captures the back buffer into data.
func (d *SoftwareDevice) EndPaint(data *FrameData) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrSurfaceClosed
	}
	if !d.painting {
		return ErrNoPendingFrame
	}
	d.painting = false

	buf := d.pool.Get(d.size.X, d.size.Y)
	copy(buf.Pix, d.back.Pix)

	d.lastID++
	d.pending[d.lastID] = buf
	d.trimPendingLocked()

	if data != nil {
		*data = FrameData{ID: d.lastID, Size: d.size, DamageRect: d.damage, Pixels: buf}
	}
	return nil
}

// trimPendingLocked reclaims the oldest frames beyond MaxFramesPending.
func (d *SoftwareDevice) trimPendingLocked() {
	limit := max(d.caps.MaxFramesPending, 1)
	for len(d.pending) > limit {
		oldest := d.lastID
		for id := range d.pending {
			oldest = min(oldest, id)
		}
		compositor.Logger().Debug("output: reclaiming unacknowledged frame", "id", oldest)
		d.pool.Put(d.pending[oldest])
		delete(d.pending, oldest)
	}
}

// SwapBuffers hands frame to the presenter.
func (d *SoftwareDevice) SwapBuffers(frame *CompositorFrame) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSurfaceClosed
	}
	if frame == nil || frame.Software == nil {
		d.mu.Unlock()
		return ErrNoPendingFrame
	}
	if _, ok := d.pending[frame.Software.ID]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: id=%d", ErrUnknownFrame, frame.Software.ID)
	}
	d.swapped++
	p := d.presenter
	d.mu.Unlock()

	if p == nil {
		return nil
	}
	if err := p.Present(frame); err != nil {
		return fmt.Errorf("output: present %v: %w", frame, err)
	}
	return nil
}

// ReclaimFrame returns the buffer of frame id to the pool.
func (d *SoftwareDevice) ReclaimFrame(id FrameID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.pending[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownFrame, id)
	}
	delete(d.pending, id)
	d.pool.Put(buf)
	return nil
}

// PendingFrames returns how many frames await reclaim.
func (d *SoftwareDevice) PendingFrames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// SwapCount returns how many frames were swapped.
func (d *SoftwareDevice) SwapCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.swapped
}

// DiscardBackbuffer drops the back buffer. The next BeginPaint starts
// from a transparent one.
func (d *SoftwareDevice) DiscardBackbuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.back != nil && !d.painting {
		d.pool.Put(d.back)
		d.back = nil
	}
}

// EnsureBackbuffer allocates the back buffer if it was discarded.
func (d *SoftwareDevice) EnsureBackbuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureBackLocked()
}

// HasBackbuffer reports whether a back buffer is allocated.
func (d *SoftwareDevice) HasBackbuffer() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.back != nil
}

// CopyToBitmap copies r of the back buffer.
func (d *SoftwareDevice) CopyToBitmap(r image.Rectangle) (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrSurfaceClosed
	}
	d.ensureBackLocked()
	r = r.Intersect(d.back.Bounds())
	out := image.NewRGBA(image.Rectangle{Max: r.Size()})
	draw.Draw(out, out.Bounds(), d.back, r.Min, draw.Src)
	return out, nil
}

func (d *SoftwareDevice) ensureBackLocked() {
	if d.back == nil {
		d.back = d.pool.Get(d.size.X, d.size.Y)
	}
}

// Close releases all buffers. Close is idempotent.
func (d *SoftwareDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.back = nil
	clear(d.pending)
	return nil
}
