// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import "time"

// Frame is one step of an Animation: a delta to apply to the current
// buffer contents, and how long to hold the result on screen before
// moving to the next frame.
//
// Delta is nil for the first frame of an animation loaded alongside
// its first raw image (there is nothing to diff against yet) and,
// degenerately, for any frame whose pixels are byte-identical to the
// one before it.
type Frame struct {
	Delta    *BitPack
	Duration time.Duration
}

// Animation is an ordered, cyclic sequence of frames. Applying every
// frame's delta in order, starting from the first raw frame, ends back
// on the first raw frame's pixels: the last delta transforms the last
// raw frame into the first, so cycling through the frames repeats the
// sequence seamlessly.
type Animation struct {
	Frames []Frame
}

// Len returns the number of frames in a.
func (a *Animation) Len() int { return len(a.Frames) }

// At returns the i'th frame, cycling modulo Len so that negative or
// overflowing indices still resolve to a valid frame. It panics if a
// holds no frames.
func (a *Animation) At(i int) Frame {
	n := a.Len()
	i %= n
	if i < 0 {
		i += n
	}
	return a.Frames[i]
}

// TotalDuration returns the sum of every frame's Duration, i.e. the
// wall-clock length of one full cycle.
func (a *Animation) TotalDuration() time.Duration {
	var d time.Duration
	for _, f := range a.Frames {
		d += f.Duration
	}
	return d
}
