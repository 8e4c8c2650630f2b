// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimationAtCycles(t *testing.T) {
	a := Animation{Frames: []Frame{
		{Duration: 1 * time.Second},
		{Duration: 2 * time.Second},
		{Duration: 3 * time.Second},
	}}

	assert.Equal(t, a.Frames[0], a.At(0))
	assert.Equal(t, a.Frames[1], a.At(1))
	assert.Equal(t, a.Frames[0], a.At(3))
	assert.Equal(t, a.Frames[2], a.At(-1))
	assert.Equal(t, a.Frames[1], a.At(-2))
}

func TestAnimationTotalDuration(t *testing.T) {
	a := Animation{Frames: []Frame{
		{Duration: 100 * time.Millisecond},
		{Duration: 250 * time.Millisecond},
	}}
	assert.Equal(t, 350*time.Millisecond, a.TotalDuration())
}

func TestAnimationCyclicRoundTrip(t *testing.T) {
	const npix = 64
	raw0 := randomFrame(10, npix)
	raw1 := mutateFrame(raw0, randomFrame(11, npix), 0, 5, 6, 7)
	raw2 := mutateFrame(raw1, randomFrame(12, npix), 1, 2, 8, 9, 10)

	d01, err := Encode(raw0, raw1, Bgr)
	require.NoError(t, err)
	d12, err := Encode(raw1, raw2, Bgr)
	require.NoError(t, err)
	// The last delta in a cyclic animation transforms the last raw
	// frame back into the first.
	d20, err := Encode(raw2, raw0, Bgr)
	require.NoError(t, err)

	a := Animation{Frames: []Frame{
		{Delta: nil, Duration: 100 * time.Millisecond},
		{Delta: d01, Duration: 100 * time.Millisecond},
		{Delta: d12, Duration: 100 * time.Millisecond},
		{Delta: d20, Duration: 100 * time.Millisecond},
	}}

	cur := append([]byte(nil), raw0...)
	for i := 1; i < a.Len()-1; i++ {
		require.NoError(t, Decode(a.At(i).Delta, cur, Bgr))
	}
	assert.Equal(t, raw2, cur)

	require.NoError(t, Decode(a.At(a.Len()-1).Delta, cur, Bgr))
	assert.Equal(t, raw0, cur)
}
