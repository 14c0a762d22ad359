// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/compositor"
	"github.com/gogpu/gpucontext"
)

// ReadLock guarantees a bitmap's pixels stay unwritten until Release.
type ReadLock struct {
	p        *Provider
	id       ID
	bitmap   *image.RGBA
	released bool
}

// AcquireRead locks the bitmap id for reading.
//
// It fails with ErrResourceNotFound for unknown IDs, ErrResourceWrongKind
// for GPU textures and ErrResourceBusy while a write lock is outstanding.
func (p *Provider) AcquireRead(id ID) (*ReadLock, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	if e.kind != KindBitmap {
		return nil, fmt.Errorf("%w: id=%d is %s", ErrResourceWrongKind, id, e.kind)
	}
	if e.writing {
		return nil, fmt.Errorf("%w: id=%d has a writer", ErrResourceBusy, id)
	}
	e.readers++
	return &ReadLock{p: p, id: id, bitmap: e.bitmap}, nil
}

// ID returns the locked resource.
func (l *ReadLock) ID() ID { return l.id }

// Bitmap returns the locked pixels. They must not be modified.
func (l *ReadLock) Bitmap() *image.RGBA { return l.bitmap }

// Release drops the lock. Release is idempotent.
func (l *ReadLock) Release() {
	if l == nil || l.released {
		return
	}
	l.released = true

	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	if e, ok := l.p.entries[l.id]; ok && e.readers > 0 {
		e.readers--
	}
}

// WriteLock grants exclusive access to a bitmap until Release.
type WriteLock struct {
	p        *Provider
	id       ID
	bitmap   *image.RGBA
	dirty    image.Rectangle
	flush    []func(*image.RGBA) error
	released bool
}

// AcquireWrite locks the bitmap id for writing. It fails with
// ErrResourceBusy while any read or write lock is outstanding.
func (p *Provider) AcquireWrite(id ID) (*WriteLock, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	if e.kind != KindBitmap {
		return nil, fmt.Errorf("%w: id=%d is %s", ErrResourceWrongKind, id, e.kind)
	}
	if e.writing || e.readers > 0 {
		return nil, fmt.Errorf("%w: id=%d (readers=%d, writing=%t)", ErrResourceBusy, id, e.readers, e.writing)
	}
	e.writing = true
	return &WriteLock{p: p, id: id, bitmap: e.bitmap}, nil
}

// ID returns the locked resource.
func (l *WriteLock) ID() ID { return l.id }

// Bitmap returns the locked pixels.
func (l *WriteLock) Bitmap() *image.RGBA { return l.bitmap }

// MarkDirty records that r was written. When nothing is marked the whole
// bitmap counts as dirty.
func (l *WriteLock) MarkDirty(r image.Rectangle) {
	r = r.Intersect(l.bitmap.Bounds())
	if r.Empty() {
		return
	}
	l.dirty = l.dirty.Union(r)
}

// Dirty returns the region uploaded on release.
func (l *WriteLock) Dirty() image.Rectangle {
	if l.dirty.Empty() {
		return l.bitmap.Bounds()
	}
	return l.dirty
}

// OnRelease adds a flush step run on Release, before any GPU upload.
func (l *WriteLock) OnRelease(fn func(*image.RGBA) error) {
	if fn != nil {
		l.flush = append(l.flush, fn)
	}
}

// Release runs the flush steps, uploads the dirty region to an attached
// texture and drops the lock. The lock is dropped even when a step fails.
// Release is idempotent.
func (l *WriteLock) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true

	var errs []error
	for _, fn := range l.flush {
		if err := fn(l.bitmap); err != nil {
			errs = append(errs, err)
		}
	}

	l.p.mu.Lock()
	e, ok := l.p.entries[l.id]
	var u gpucontext.TextureUpdater
	if ok {
		u = e.uploader
	}
	partial := l.p.partial
	l.p.mu.Unlock()

	if u != nil {
		if err := upload(u, l.bitmap, l.Dirty(), partial); err != nil {
			compositor.Logger().Warn("resource: upload failed", "id", l.id, "err", err)
			errs = append(errs, fmt.Errorf("resource: upload id=%d: %w", l.id, err))
		}
	}

	l.p.mu.Lock()
	if ok {
		e.writing = false
	}
	l.p.mu.Unlock()
	return errors.Join(errs...)
}

// upload sends dirty to u, as a region when allowed and supported.
func upload(u gpucontext.TextureUpdater, bmp *image.RGBA, dirty image.Rectangle, partial bool) error {
	if ru, ok := u.(gpucontext.TextureRegionUpdater); ok && partial && dirty != bmp.Bounds() {
		return ru.UpdateRegion(dirty.Min.X, dirty.Min.Y, dirty.Dx(), dirty.Dy(), packRegion(bmp, dirty))
	}
	return u.UpdateData(packRegion(bmp, bmp.Bounds()))
}

// packRegion returns r's pixels as densely packed RGBA rows.
func packRegion(bmp *image.RGBA, r image.Rectangle) []byte {
	rowBytes := r.Dx() * 4
	if bmp.Stride == rowBytes && r.Min.X == bmp.Rect.Min.X {
		start := bmp.PixOffset(r.Min.X, r.Min.Y)
		return bmp.Pix[start : start+rowBytes*r.Dy()]
	}
	out := make([]byte, 0, rowBytes*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := bmp.PixOffset(r.Min.X, y)
		out = append(out, bmp.Pix[i:i+rowBytes]...)
	}
	return out
}
