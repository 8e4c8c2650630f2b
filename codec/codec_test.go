// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package codec

import "math/rand"

// randomFrame returns npix deterministic pseudo-random 3-byte
// pixels, for use as test fixtures.
func randomFrame(seed int64, npix int) []byte {
	r := rand.New(rand.NewSource(seed))
	buf := make([]byte, npix*3)
	r.Read(buf)
	return buf
}

// mutateFrame returns a copy of prev with n pixels (at the given
// indices) replaced by the corresponding pixels of cur.
func mutateFrame(prev []byte, cur []byte, idx ...int) []byte {
	out := append([]byte(nil), prev...)
	for _, i := range idx {
		copy(out[i*3:i*3+3], cur[i*3:i*3+3])
	}
	return out
}
