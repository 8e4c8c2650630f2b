// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

// BitPack is one compressed frame delta: an RLE-encoded byte diff
// against the previous frame, wrapped in LZ4.
type BitPack struct {
	// Bytes is the LZ4-compressed payload of the RLE stream.
	Bytes []byte

	// ExpectedBufSize is the number of bytes the caller must present
	// as the destination buffer at decode time: width * height *
	// dstChannels.
	ExpectedBufSize int

	// CompressedSize is the length the LZ4 decoder must emit, i.e. the
	// length of the plaintext RLE stream including its terminal
	// two-byte sentinel.
	CompressedSize int
}
