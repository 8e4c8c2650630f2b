// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package codec implements the differential frame codec: RLE+LZ4
// deltas against the previous frame, plus the pixel-format-aware
// channel expansion step the decoder applies on the way to a
// compositor buffer.
package codec

// PixelFormat describes the layout of a destination pixel.
// Every format declares two orthogonal properties: how many bytes
// make up one pixel, and whether the R and B channels are swapped
// relative to the codec's native 3-byte source layout.
type PixelFormat int

// Pixel formats.
const (
	// Bgr is 3 bytes per pixel, byte-identical to the codec's source
	// layout (no channel swap). This is the only format that requires
	// no per-pixel transform on decode.
	Bgr PixelFormat = iota
	// Rgb is 3 bytes per pixel with R and B swapped.
	Rgb
	// Bgra is 4 bytes per pixel, no channel swap; the fourth byte is
	// padded to 0xFF on expansion.
	Bgra
	// Rgba is 4 bytes per pixel with R and B swapped; the fourth byte
	// is padded to 0xFF on expansion.
	Rgba
)

// Channels returns the number of bytes per pixel for f.
func (f PixelFormat) Channels() int {
	switch f {
	case Bgra, Rgba:
		return 4
	default:
		return 3
	}
}

// Swapped reports whether f stores R and B in swapped order relative
// to the codec's native source layout.
func (f PixelFormat) Swapped() bool {
	return f == Rgb || f == Rgba
}

// Identity reports whether f requires no per-pixel transform when
// expanding from the codec's 3-byte native source layout, i.e.
// whether it is safe to memcpy source pixels directly into the
// destination.
func (f PixelFormat) Identity() bool {
	return f == Bgr
}

// expandPixel writes the single 3-byte source pixel src into dst,
// which must have length f.Channels(), applying the channel swap and
// alpha padding that f requires.
func expandPixel(dst, src []byte, f PixelFormat) {
	if f.Identity() {
		dst[0], dst[1], dst[2] = src[0], src[1], src[2]
		return
	}
	if f.Swapped() {
		dst[0], dst[1], dst[2] = src[2], src[1], src[0]
	} else {
		dst[0], dst[1], dst[2] = src[0], src[1], src[2]
	}
	if f.Channels() == 4 {
		dst[3] = 0xFF
	}
}
