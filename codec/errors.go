// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import "errors"

// ErrWrongBufferLength means that the destination buffer passed to
// Decode does not have length BitPack.ExpectedBufSize.
var ErrWrongBufferLength = errors.New("codec: destination buffer has wrong length")

// ErrLZ4DecompressedSizeIsWrong means that the LZ4 decoder produced a
// plaintext shorter or longer than BitPack.CompressedSize.
var ErrLZ4DecompressedSizeIsWrong = errors.New("codec: LZ4 decompressed size does not match")

// ErrLacksTrailingBytes means that the decompressed stream does not
// end in the two-byte zero sentinel Encode always appends.
var ErrLacksTrailingBytes = errors.New("codec: stream lacks trailing sentinel bytes")

// ErrCopyInstructionIsTooLarge means that a segment's equal run or
// diff run would advance past the end of the destination buffer, or
// that a diff run claims more source bytes than the stream holds.
var ErrCopyInstructionIsTooLarge = errors.New("codec: copy instruction exceeds destination buffer")
