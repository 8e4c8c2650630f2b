// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec tracks, one bit per pool buffer index, whether that
// buffer is currently held by the compositor or eligible for the next
// draw (pool.Pool.released).
package bitvec

// wordBits is the number of buffer indices tracked by one word.
const wordBits = 64

// V is a growable vector of held/eligible flags, one bit per buffer
// index, backed by 64-bit words. The zero value is an empty vector,
// as returned after Pool.Resize drops the old buffer list.
type V struct {
	words []uint64
}

// Grow appends n more words' worth of eligible (unset) bits, enough
// capacity for n*wordBits additional buffer indices. pool.Pool only
// ever grows one buffer at a time, so n is always 1 in practice, but
// the method accepts any non-negative count.
func (v *V) Grow(n int) {
	if n > 0 {
		v.words = append(v.words, make([]uint64, n)...)
	}
}

// MarkHeld records that the compositor currently holds buffer index,
// i.e. it is not eligible for the next draw.
func (v *V) MarkHeld(index int) {
	v.words[index/wordBits] |= 1 << uint(index%wordBits)
}

// MarkEligible records that the compositor released buffer index, so
// it is once again eligible for the next draw.
func (v *V) MarkEligible(index int) {
	v.words[index/wordBits] &^= 1 << uint(index%wordBits)
}

// Held reports whether buffer index is currently held by the
// compositor.
func (v *V) Held(index int) bool {
	return v.words[index/wordBits]&(1<<uint(index%wordBits)) != 0
}
