// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import "github.com/pierrec/lz4/v4"

// Decoder holds the scratch state reused across calls to Decode by a
// single goroutine. Callers that decode frames from multiple
// goroutines must use one Decoder per goroutine.
type Decoder struct {
	plain scratch
}

// Decode reproduces cur into dst, given that dst currently holds the
// frame bp was computed against (channel-expanded per fmt). dst must
// have length bp.ExpectedBufSize.
//
// A nil bp (as returned by Encode when two frames are identical)
// leaves dst untouched.
func (d *Decoder) Decode(bp *BitPack, dst []byte, fmt PixelFormat) error {
	if bp == nil {
		return nil
	}
	if len(dst) != bp.ExpectedBufSize {
		return ErrWrongBufferLength
	}

	plain := d.plain.ensure(bp.CompressedSize)
	n, err := lz4.UncompressBlock(bp.Bytes, plain)
	if err != nil || n != bp.CompressedSize {
		return ErrLZ4DecompressedSizeIsWrong
	}
	if n < 2 || plain[n-2] != 0 || plain[n-1] != 0 {
		return ErrLacksTrailingBytes
	}

	return decodeSegments(dst, plain, fmt)
}

// Decode is a convenience wrapper around a throwaway Decoder, for
// callers that do not need to reuse scratch state across calls.
func Decode(bp *BitPack, dst []byte, fmt PixelFormat) error {
	var d Decoder
	return d.Decode(bp, dst, fmt)
}

// decodeSegments walks the RLE stream in plain, copying diff pixels
// into dst (channel-expanding each from the 3-byte source format to
// fmt) and skipping over equal runs, which dst already holds from the
// previous frame.
//
// spec.md §4.2 and §8 properties 3-4 call for this to dispatch among
// three interchangeable scalar/SSSE3/AVX-512 expansion kernels; as
// with scalarEncode (see encode.go), no vector kernel exists
// anywhere in the retrieval pack to ground one on, so this module
// implements only the scalar core and does not pretend to dispatch
// to kernels that do not exist.
func decodeSegments(dst, plain []byte, fmt PixelFormat) error {
	dstChannels := fmt.Channels()
	srcPos, dstPos := 0, 0

	for dstPos < len(dst) {
		eq, pos, ok := readCount(plain, srcPos)
		if !ok {
			return ErrLacksTrailingBytes
		}
		srcPos = pos
		dstPos2 := dstPos + eq*dstChannels
		if dstPos2 > len(dst) {
			return ErrCopyInstructionIsTooLarge
		}
		dstPos = dstPos2

		df, pos, ok := readCount(plain, srcPos)
		if !ok {
			return ErrLacksTrailingBytes
		}
		srcPos = pos
		dstPos2 = dstPos + df*dstChannels
		if dstPos2 > len(dst) || srcPos+df*3 > len(plain) {
			return ErrCopyInstructionIsTooLarge
		}

		scalarExpand(dst[dstPos:dstPos2], plain[srcPos:srcPos+df*3], fmt)
		dstPos = dstPos2
		srcPos += df * 3
	}
	return nil
}

// scalarExpand channel-expands a run of df source pixels (3 bytes
// each) in src into dst (fmt.Channels() bytes each).
func scalarExpand(dst, src []byte, fmt PixelFormat) {
	dstChannels := fmt.Channels()
	n := len(src) / 3
	for i := 0; i < n; i++ {
		expandPixel(dst[i*dstChannels:i*dstChannels+dstChannels], src[i*3:i*3+3], fmt)
	}
}

// readCount decodes the base-255 escape encoding of a run count
// starting at pos, returning the count, the position immediately
// after it, and whether the read stayed in bounds. It stops as soon
// as it finds a byte other than 0xFF, so a malformed stream lacking
// the trailing sentinel is reported rather than read past the end of
// plain.
func readCount(plain []byte, pos int) (n, newPos int, ok bool) {
	for {
		if pos >= len(plain) {
			return 0, 0, false
		}
		b := plain[pos]
		pos++
		if b != 0xFF {
			n += int(b)
			return n, pos, true
		}
		n += 255
	}
}
