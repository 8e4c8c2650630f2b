// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wallpaper

import (
	"testing"
	"time"

	"github.com/gviegas/wallbg/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallpaper(t *testing.T) *Wallpaper {
	p, err := pool.New(2, 2, 3)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return New("eDP-1", p)
}

func TestCanvasChangeBlocksUntilFrameCallback(t *testing.T) {
	w := newTestWallpaper(t)

	done := make(chan struct{})
	var ran bool
	go func() {
		_, _, err := w.CanvasChange(func(canvas []byte) { ran = true })
		assert.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("CanvasChange returned before the frame callback fired")
	case <-time.After(20 * time.Millisecond):
	}
	assert.False(t, ran)

	w.FrameCallbackCompleted(time.Now())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CanvasChange never woke up after FrameCallbackCompleted")
	}
	assert.True(t, ran)
}

func TestStopAnimationsBumpsGenerationAndClearsFinished(t *testing.T) {
	w := newTestWallpaper(t)
	w.SetFinished(true)
	gen0 := w.Generation()

	gen1 := w.StopAnimations()
	assert.Equal(t, gen0+1, gen1)
	assert.Equal(t, gen1, w.Generation())
	assert.False(t, w.Finished())
}

func TestRetainRelease(t *testing.T) {
	w := newTestWallpaper(t)
	w.Retain()
	w.Retain()
	assert.Equal(t, 2, w.RefCount())
	assert.False(t, w.Release())
	assert.True(t, w.Release())
	assert.Equal(t, 0, w.RefCount())
}
