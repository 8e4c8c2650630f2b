// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCountBoundary(t *testing.T) {
	// A run of exactly 255 must encode as a single 0xFF escape byte
	// followed by a zero remainder, not as 0xFF followed by 0xFF.
	assert.Equal(t, []byte{0xFF, 0x00}, appendCount(nil, 255))
	assert.Equal(t, []byte{0x00}, appendCount(nil, 0))
	assert.Equal(t, []byte{0xFE}, appendCount(nil, 254))
	assert.Equal(t, []byte{0xFF, 0x01}, appendCount(nil, 256))
	assert.Equal(t, []byte{0xFF, 0xFF, 0x0A}, appendCount(nil, 520))
}

func TestEncodeIdenticalFramesIsNil(t *testing.T) {
	cur := randomFrame(1, 64)
	bp, err := Encode(cur, cur, Bgr)
	require.NoError(t, err)
	assert.Nil(t, bp)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const npix = 256
	prev := randomFrame(2, npix)
	cur := mutateFrame(prev, randomFrame(3, npix), 0, 1, 2, 40, 41, 42, 43, 255)

	for _, fmt := range []PixelFormat{Bgr, Rgb, Bgra, Rgba} {
		bp, err := Encode(prev, cur, fmt)
		require.NoError(t, err)
		require.NotNil(t, bp)

		dst := make([]byte, npix*fmt.Channels())
		for i := 0; i < npix; i++ {
			expandPixel(dst[i*fmt.Channels():i*fmt.Channels()+fmt.Channels()], prev[i*3:i*3+3], fmt)
		}

		require.NoError(t, Decode(bp, dst, fmt))

		want := make([]byte, npix*fmt.Channels())
		for i := 0; i < npix; i++ {
			expandPixel(want[i*fmt.Channels():i*fmt.Channels()+fmt.Channels()], cur[i*3:i*3+3], fmt)
		}
		assert.Equal(t, want, dst, "fmt=%v", fmt)
	}
}

func TestEncodeRunOf255Pixels(t *testing.T) {
	const npix = 300
	prev := randomFrame(4, npix)
	diff := randomFrame(5, npix)
	// Pixels 0..254 equal, then a diff run.
	idx := make([]int, 0, 45)
	for i := 255; i < npix; i++ {
		idx = append(idx, i)
	}
	cur := mutateFrame(prev, diff, idx...)

	bp, err := Encode(prev, cur, Bgr)
	require.NoError(t, err)
	require.NotNil(t, bp)

	dst := append([]byte(nil), prev...)
	require.NoError(t, Decode(bp, dst, Bgr))
	assert.Equal(t, cur, dst)
}

// TestScalarEncodeDeterministic checks that scalarEncode is a pure
// function of (prev, cur): repeated calls agree, and reusing a dst
// slice that already holds unrelated bytes (as Encoder.plain does
// across calls via e.plain[:0]) does not leak state into the result.
func TestScalarEncodeDeterministic(t *testing.T) {
	const npix = 512
	prev := randomFrame(6, npix)
	cur := mutateFrame(prev, randomFrame(7, npix), 0, 10, 11, 12, 300, 511)

	want := scalarEncode(nil, prev, cur)
	again := scalarEncode(nil, prev, cur)
	assert.Equal(t, want, again)

	stale := append([]byte(nil), randomFrame(9, 64)...)
	reused := scalarEncode(stale[:0], prev, cur)
	assert.Equal(t, want, reused)
}
