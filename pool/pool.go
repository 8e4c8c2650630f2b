// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package pool

import (
	"sync"

	"github.com/gviegas/wallbg/internal/bitvec"
)

// Pool owns a growable shared-memory region and the ordered list of
// buffers carved from it. Every method is safe for concurrent use; a
// Pool is guarded by a single mutex, matching spec.md §5's "wallpaper
// pool: guarded by a per-wallpaper mutex."
type Pool struct {
	mu sync.Mutex

	region *region
	width  int
	height int
	chans  int // dst channel count, set by the caller's chosen pixel format

	buffers  []*buffer
	released bitvec.V  // released[i] tracks buffers[i]: held by the compositor or eligible for draw
	dead     []*buffer // buffers the compositor still owns after a resize

	lastUsed int    // index into buffers of the last selected buffer, -1 if none
	seed     []byte // snapshot of the last buffer's contents across a resize
	nextID   BufferID

	animating bool // an animation thread currently holds this pool's canvas
}

// New creates a Pool for buffers of width*height*channels bytes, with
// an empty, unmapped backing region: the region is only mapped on the
// first call to GetDrawable.
func New(width, height, channels int) (*Pool, error) {
	r, err := newRegion("wallbg-pool")
	if err != nil {
		return nil, err
	}
	return &Pool{
		region:   r,
		width:    width,
		height:   height,
		chans:    channels,
		lastUsed: -1,
	}, nil
}

// Close releases the pool's backing shared memory region. The pool
// must not be used afterwards.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.region.Close()
}

// RegionFD returns the file descriptor of the pool's backing shared
// memory region, for registering a new buffer with the compositor.
func (p *Pool) RegionFD() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.region.FD()
}

func (p *Pool) bufLen() int { return p.width * p.height * p.chans }

// GetDrawable returns a writable slice sized to width*height*channels
// whose contents equal the last slice returned (or a zero-padded copy
// of the pre-resize contents on the first call after a resize, or all
// zeros on the very first call).
func (p *Pool) GetDrawable() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.region.EnsureMapped(); err != nil {
		return nil, err
	}

	idx, ok := p.findReleased()
	if !ok {
		var err error
		idx, err = p.growOneBuffer()
		if err != nil {
			return nil, err
		}
	}

	dst := p.slice(p.buffers[idx])
	if idx != p.lastUsed {
		src := p.forwardSource()
		if src != nil {
			n := copy(dst, src)
			clear(dst[n:])
		}
	}
	p.lastUsed = idx
	p.seed = nil
	return dst, nil
}

// forwardSource returns the bytes that GetDrawable should copy
// forward into a newly selected buffer: the previous lastUsed
// buffer's contents if one exists, otherwise the pre-resize seed
// snapshot (nil on the very first call, or once the seed has already
// been consumed).
func (p *Pool) forwardSource() []byte {
	if p.lastUsed >= 0 {
		return p.slice(p.buffers[p.lastUsed])
	}
	return p.seed
}

// findReleased returns the index of the first buffer eligible for
// draw. bitvec.Grow extends the vector a whole word at a time, so it
// can hold eligible bits past len(p.buffers) with no buffer behind
// them; the search stays bounded to the real buffer range.
func (p *Pool) findReleased() (int, bool) {
	for i := range p.buffers {
		if !p.released.Held(i) {
			return i, true
		}
	}
	return 0, false
}

// growOneBuffer extends the region by one buffer's worth of bytes and
// registers a new buffer object at the new offset.
func (p *Pool) growOneBuffer() (int, error) {
	offset, err := p.region.Grow(p.bufLen())
	if err != nil {
		return 0, err
	}
	b := &buffer{
		id:     p.nextID,
		offset: offset,
		width:  p.width,
		height: p.height,
		bufLen: p.bufLen(),
	}
	p.nextID++
	idx := len(p.buffers)
	p.buffers = append(p.buffers, b)
	// Grow appends eligible bits, exactly the state a freshly created
	// buffer should start in.
	p.released.Grow(1)
	return idx, nil
}

func (p *Pool) slice(b *buffer) []byte {
	return p.region.Bytes()[b.offset : b.offset+b.bufLen]
}

// GetCommittable marks the last buffer returned by GetDrawable as
// in-flight with the compositor (no longer eligible for draw) and
// returns its id.
func (p *Pool) GetCommittable() BufferID {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.buffers[p.lastUsed]
	p.released.MarkHeld(p.lastUsed)
	return b.id
}

// SetReleased records that the compositor has released buffer id. If
// the buffer belongs to the dead list (left over from a resize), it
// is destroyed immediately. isAnimating tells the pool whether an
// animation is still in flight for this wallpaper; when every buffer
// is released and none is, the pool unmaps its backing region and
// SetReleased returns true.
func (p *Pool) SetReleased(id BufferID, isAnimating bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.animating = isAnimating

	if idx, ok := p.indexOf(id); ok {
		p.released.MarkEligible(idx)
	} else if di, ok := p.deadIndexOf(id); ok {
		p.dead = append(p.dead[:di], p.dead[di+1:]...)
	} else {
		return false, ErrUnknownBuffer
	}

	if p.allReleased() && !p.animating && len(p.dead) == 0 {
		if err := p.region.Unmap(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (p *Pool) indexOf(id BufferID) (int, bool) {
	for i, b := range p.buffers {
		if b.id == id {
			return i, true
		}
	}
	return 0, false
}

func (p *Pool) deadIndexOf(id BufferID) (int, bool) {
	for i, b := range p.dead {
		if b.id == id {
			return i, true
		}
	}
	return 0, false
}

func (p *Pool) allReleased() bool {
	for i := range p.buffers {
		if p.released.Held(i) {
			return false
		}
	}
	return true
}

// Resize changes the dimensions (and therefore the per-buffer byte
// length) future buffers are drawn at. Released buffers are destroyed
// immediately; unreleased ones move to the dead list until the
// compositor releases them. The region itself is never shrunk; it
// grows lazily on the next GetDrawable.
func (p *Pool) Resize(width, height, channels int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastUsed >= 0 {
		p.seed = append([]byte(nil), p.slice(p.buffers[p.lastUsed])...)
	}

	for i, b := range p.buffers {
		if p.released.Held(i) {
			// Still held by the compositor: keep it alive until
			// SetReleased reports it back.
			p.dead = append(p.dead, b)
		}
		// Released buffers are simply dropped; they are not carried
		// into the new buffer list.
	}

	p.buffers = nil
	p.released = bitvec.V{}
	p.lastUsed = -1
	p.width, p.height, p.chans = width, height, channels
}
