// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelFormatChannels(t *testing.T) {
	assert.Equal(t, 3, Bgr.Channels())
	assert.Equal(t, 3, Rgb.Channels())
	assert.Equal(t, 4, Bgra.Channels())
	assert.Equal(t, 4, Rgba.Channels())
}

func TestPixelFormatSwapped(t *testing.T) {
	assert.False(t, Bgr.Swapped())
	assert.True(t, Rgb.Swapped())
	assert.False(t, Bgra.Swapped())
	assert.True(t, Rgba.Swapped())
}

func TestPixelFormatIdentity(t *testing.T) {
	assert.True(t, Bgr.Identity())
	assert.False(t, Rgb.Identity())
	assert.False(t, Bgra.Identity())
	assert.False(t, Rgba.Identity())
}

func TestExpandPixel(t *testing.T) {
	src := []byte{0x10, 0x20, 0x30}

	dst := make([]byte, 3)
	expandPixel(dst, src, Bgr)
	assert.Equal(t, []byte{0x10, 0x20, 0x30}, dst)

	dst = make([]byte, 3)
	expandPixel(dst, src, Rgb)
	assert.Equal(t, []byte{0x30, 0x20, 0x10}, dst)

	dst = make([]byte, 4)
	expandPixel(dst, src, Bgra)
	assert.Equal(t, []byte{0x10, 0x20, 0x30, 0xFF}, dst)

	dst = make([]byte, 4)
	expandPixel(dst, src, Rgba)
	assert.Equal(t, []byte{0x30, 0x20, 0x10, 0xFF}, dst)
}
