// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wallpaper implements the per-output surface state the
// scheduler drives (spec.md §4.6): a buffer pool plus the
// frame-callback rendezvous the compositor's event loop and an
// animation worker coordinate through.
package wallpaper

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/pool"
)

// state is the frame-callback rendezvous state: Waiting(none) until
// the compositor signals the previous frame was consumed, then
// Ready(timestamp) until the next canvas change consumes it and
// returns to Waiting.
type state int

const (
	waiting state = iota
	ready
)

// Image describes the output's currently displayed source image,
// for reporting back in a query response (SPEC_FULL.md supplemented
// feature 1); the daemon never interprets Path itself.
type Image struct {
	IsColor bool
	Color   [3]byte
	Path    string
}

// Scale is an output's buffer-to-logical-size ratio, either a whole
// multiplier or a fractional one expressed as a numerator over 120
// (spec.md GLOSSARY).
type Scale struct {
	Whole bool
	Value int32
}

// Wallpaper is one output's drawing surface: its buffer pool, the
// frame-callback rendezvous, and the generation tag that cancels
// stale animation workers (spec.md §4.5, §4.6).
type Wallpaper struct {
	Name string

	Pool *pool.Pool

	mu       sync.Mutex
	cond     *sync.Cond
	st       state
	readyAt  time.Time
	finished bool // the running transition has converged
	refCount int

	width, height int
	scale         Scale
	image         Image
	format        codec.PixelFormat

	generation atomic.Uint64
}

// New returns a Wallpaper backed by the given pool. name identifies
// the compositor output it belongs to.
func New(name string, p *pool.Pool) *Wallpaper {
	w := &Wallpaper{Name: name, Pool: p, st: waiting}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Generation returns the current cancellation tag. A worker spawned
// for a request captures this value and rechecks it every loop
// iteration; a mismatch means StopAnimations ran since it started.
func (w *Wallpaper) Generation() uint64 { return w.generation.Load() }

// StopAnimations bumps the generation counter, invalidating every
// worker that captured a generation before this call, and clears the
// transition-finished flag. It returns the new generation.
func (w *Wallpaper) StopAnimations() uint64 {
	w.mu.Lock()
	w.finished = false
	w.mu.Unlock()
	return w.generation.Add(1)
}

// Finished reports whether the running transition has converged.
func (w *Wallpaper) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

// SetFinished records that the running transition has converged. The
// Animation handler reads it to decide which outputs can start
// cycling frame deltas directly, without waiting for a transition.
func (w *Wallpaper) SetFinished(v bool) {
	w.mu.Lock()
	w.finished = v
	w.mu.Unlock()
}

// FrameCallbackCompleted is invoked by the event loop when the
// compositor signals that the previously committed frame was
// consumed. It wakes any task blocked in CanvasChange.
func (w *Wallpaper) FrameCallbackCompleted(at time.Time) {
	w.mu.Lock()
	w.st = ready
	w.readyAt = at
	w.cond.Broadcast()
	w.mu.Unlock()
}

// CanvasChange acquires the pool's next drawable slice, blocks until
// the compositor's previous frame has been consumed, then runs f on
// the slice and marks it committable. It returns the committable
// buffer's ID for the caller to attach/damage/commit, and the
// timestamp the frame callback reported. The rendezvous returns to
// Waiting(none) immediately: this canvas change is itself the
// request for the next frame callback (spec.md §4.6).
func (w *Wallpaper) CanvasChange(f func(canvas []byte)) (pool.BufferID, time.Time, error) {
	canvas, err := w.Pool.GetDrawable()
	if err != nil {
		return 0, time.Time{}, err
	}

	w.mu.Lock()
	for w.st != ready {
		w.cond.Wait()
	}
	at := w.readyAt
	w.st = waiting
	w.mu.Unlock()

	f(canvas)
	return w.Pool.GetCommittable(), at, nil
}

// Retain increments the wallpaper's reference count; a worker holds
// one reference for its lifetime so the daemon can order shutdown
// against any animation still draining (spec.md §4.5, §5).
func (w *Wallpaper) Retain() {
	w.mu.Lock()
	w.refCount++
	w.mu.Unlock()
}

// Release decrements the reference count and reports whether it
// reached zero.
func (w *Wallpaper) Release() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refCount--
	return w.refCount <= 0
}

// RefCount returns the current reference count.
func (w *Wallpaper) RefCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refCount
}

// SetGeometry records the output's current dimensions and scale
// factor, as reported by the compositor's configure event.
func (w *Wallpaper) SetGeometry(width, height int, scale Scale) {
	w.mu.Lock()
	w.width, w.height, w.scale = width, height, scale
	w.mu.Unlock()
}

// SetImage records the output's currently displayed source image.
func (w *Wallpaper) SetImage(img Image) {
	w.mu.Lock()
	w.image = img
	w.mu.Unlock()
}

// SetFormat records the pixel format negotiated for this output's
// most recent Image or Clear request (SPEC_FULL.md supplemented
// feature 2; Clear resets it to Bgr). A
// standalone Animation request that follows reuses this format to
// decode its frame deltas, since the wire format only travels
// alongside an Image request's raw frame.
func (w *Wallpaper) SetFormat(f codec.PixelFormat) {
	w.mu.Lock()
	w.format = f
	w.mu.Unlock()
}

// Format returns the pixel format last recorded by SetFormat.
func (w *Wallpaper) Format() codec.PixelFormat {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.format
}

// Geometry returns the output's current dimensions, scale factor,
// and source image, for a query response.
func (w *Wallpaper) Geometry() (width, height int, scale Scale, img Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height, w.scale, w.image
}
