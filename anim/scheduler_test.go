// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/pool"
	"github.com/gviegas/wallbg/transition"
	"github.com/gviegas/wallbg/wallpaper"
)

const w, h, ch = 2, 2, 3

func newMember(t *testing.T, desc transition.Descriptor, anim *codec.Animation) (Member, *wallpaper.Wallpaper) {
	p, err := pool.New(w, h, ch)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	wp := wallpaper.New("eDP-1", p)
	target := make([]byte, w*h*ch)
	for i := range target {
		target[i] = 200
	}
	tr := transition.New(desc, make([]byte, w*h*ch), target, w, h, ch)
	return Member{Wallpaper: wp, Transition: tr, Animation: anim, Format: codec.Bgr}, wp
}

// pumpFrameCallbacks repeatedly signals the wallpaper's frame
// callback until stop is closed, simulating the compositor's event
// loop consuming every committed frame immediately.
func pumpFrameCallbacks(wp *wallpaper.Wallpaper, stop <-chan struct{}) {
	t := time.NewTicker(time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			wp.FrameCallbackCompleted(now)
		}
	}
}

func TestSchedulerConvergesAndRunsAnimation(t *testing.T) {
	anim := &codec.Animation{Frames: []codec.Frame{
		{Delta: nil, Duration: time.Millisecond},
		{Delta: nil, Duration: time.Millisecond},
	}}
	m, wp := newMember(t, transition.Descriptor{Kind: transition.None}, anim)

	stop := make(chan struct{})
	go pumpFrameCallbacks(wp, stop)
	defer close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := NewScheduler(4)
	err := s.Start(ctx, []Member{m})
	assert.NoError(t, err)
	assert.True(t, m.Transition.Converged())
	assert.True(t, wp.Finished())
}

func TestSchedulerGenerationCancellation(t *testing.T) {
	m, wp := newMember(t, transition.Descriptor{Kind: transition.Simple, Step: 1}, nil)

	stop := make(chan struct{})
	go pumpFrameCallbacks(wp, stop)
	defer close(stop)

	ctx := context.Background()
	s := NewScheduler(4)

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, []Member{m}) }()

	// Let a couple of ticks land, then supersede the request: the
	// worker must stop committing further frames shortly after.
	time.Sleep(5 * time.Millisecond)
	wp.StopAnimations()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after generation bump")
	}
	assert.False(t, m.Transition.Converged(), "step=1 should need far more than a few ticks to converge on its own")
}
