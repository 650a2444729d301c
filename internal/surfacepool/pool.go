// Package surfacepool recycles RGBA8 pixel slabs used as scratch surfaces.
package surfacepool

import "sync"

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Pool keeps released pixel slabs grouped by surface dimensions so that a
// workspace re-borrowing a scratch surface of the same document size does
// not reallocate it.
//
// Thread safety: all methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[key][][]uint8
	maxSize int // max slabs per bucket, 0 = unlimited
}

type key struct {
	width  int
	height int
}

// New creates a pool retaining at most maxPerBucket slabs per size.
func New(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[key][][]uint8),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed slab for a width×height surface.
// Returns nil for non-positive dimensions.
func (p *Pool) Get(width, height int) []uint8 {
	if width <= 0 || height <= 0 {
		return nil
	}
	k := key{width, height}

	p.mu.Lock()
	bucket := p.buckets[k]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[k] = bucket[:n-1]
		p.mu.Unlock()
		clear(buf)
		return buf
	}
	p.mu.Unlock()

	return make([]uint8, width*height*BytesPerPixel)
}

// Put hands a slab back. Slabs whose length does not match the dimensions
// are dropped.
func (p *Pool) Put(width, height int, buf []uint8) {
	if buf == nil || len(buf) != width*height*BytesPerPixel {
		return
	}
	k := key{width, height}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxSize > 0 && len(p.buckets[k]) >= p.maxSize {
		return
	}
	p.buckets[k] = append(p.buckets[k], buf)
}

// Len returns the number of slabs retained for the given size.
func (p *Pool) Len(width, height int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[key{width, height}])
}
