package crt

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPoolExhausted is returned when every frame a pool may hand out is in
// use.
var ErrPoolExhausted = errors.New("crt: frame pool exhausted")

// FramePool reuses frames of identical format descriptions.
//
// Each description gets its own bucket. With a positive limit, at most
// limit frames per bucket may be out at once; Get fails with
// ErrPoolExhausted beyond that. A limit of 0 means unbounded.
//
// Thread safety: all methods are safe for concurrent use.
type FramePool struct {
	mu      sync.Mutex
	buckets map[FormatDescription]*frameBucket
	limit   int
}

type frameBucket struct {
	free        []*Frame
	outstanding int
}

// NewFramePool creates a pool allowing limit outstanding frames per
// description.
func NewFramePool(limit int) *FramePool {
	return &FramePool{
		buckets: make(map[FormatDescription]*frameBucket),
		limit:   max(limit, 0),
	}
}

// Get returns a frame matching desc. Reused frames are cleared to zero.
func (p *FramePool) Get(desc FormatDescription) (*Frame, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	b := p.buckets[desc]
	if b == nil {
		b = &frameBucket{}
		p.buckets[desc] = b
	}
	if p.limit > 0 && b.outstanding >= p.limit {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %d frames of %v in use", ErrPoolExhausted, b.outstanding, desc)
	}
	b.outstanding++

	var f *Frame
	if n := len(b.free); n > 0 {
		f = b.free[n-1]
		b.free = b.free[:n-1]
		f.pooled = false
	}
	p.mu.Unlock()

	if f != nil {
		clear(f.data)
		return f, nil
	}
	f = NewFrame(desc.Width, desc.Height, desc.PixelFormat)
	f.pool = p
	return f, nil
}

// Put returns a frame obtained from Get. Frames from other pools and
// frames already returned are ignored.
func (p *FramePool) Put(f *Frame) {
	if f == nil || f.pool != p {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if f.pooled {
		return
	}
	b := p.buckets[f.Description()]
	if b == nil {
		return
	}
	f.pooled = true
	b.outstanding--
	b.free = append(b.free, f)
}

// Len returns the number of idle frames held by the pool.
func (p *FramePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b.free)
	}
	return n
}

// Outstanding returns the number of frames handed out and not yet put back.
func (p *FramePool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += b.outstanding
	}
	return n
}

// Clear drops every idle frame. Outstanding frames can still be put back.
func (p *FramePool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.buckets {
		clear(b.free)
		b.free = b.free[:0]
	}
}

// Retain drops idle frames and empty buckets of every description other
// than desc. Outstanding frames of dropped descriptions can still be put
// back.
func (p *FramePool) Retain(desc FormatDescription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for d, b := range p.buckets {
		if d == desc {
			continue
		}
		clear(b.free)
		b.free = nil
		if b.outstanding == 0 {
			delete(p.buckets, d)
		}
	}
}
