package image

import (
	"image"
	"sync"
)

// Pool is a thread-safe pool for reusing *image.RGBA frame buffers.
//
// Pool groups buffers by their dimensions so that a software output device
// resized only occasionally reuses the same few back buffers.
type Pool struct {
	mu      sync.Mutex
	buckets map[image.Point][]*image.RGBA
	maxSize int // max buffers per bucket
}

// NewPool creates a pool retaining at most maxPerBucket buffers of each
// size. Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[image.Point][]*image.RGBA),
		maxSize: maxPerBucket,
	}
}

// Get returns a cleared buffer with bounds (0, 0, w, h).
func (p *Pool) Get(w, h int) *image.RGBA {
	key := image.Pt(w, h)

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		clear(buf.Pix)
		return buf
	}
	p.mu.Unlock()

	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Put returns a buffer to the pool. Buffers whose bucket is full are
// dropped.
func (p *Pool) Put(buf *image.RGBA) {
	if buf == nil {
		return
	}
	key := buf.Bounds().Size()

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers of the given size.
func (p *Pool) Len(w, h int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[image.Pt(w, h)])
}
