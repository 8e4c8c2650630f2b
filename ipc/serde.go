// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ipc

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Encoder builds a payload in the wire format described in spec.md
// §4.2: primitives in native endianness, length-tagged byte strings
// (4-byte length + bytes), 4-byte-counted sequences, and one
// discriminant byte ahead of tagged-variant fields.
type Encoder struct {
	buf []byte
}

// Bytes returns the encoded payload built so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// PutUint8 appends a single byte.
func (e *Encoder) PutUint8(v uint8) { e.buf = append(e.buf, v) }

// PutUint16 appends v in native endianness.
func (e *Encoder) PutUint16(v uint16) {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// PutUint32 appends v in native endianness.
func (e *Encoder) PutUint32(v uint32) {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// PutUint64 appends v in native endianness.
func (e *Encoder) PutUint64(v uint64) {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// PutFloat32 appends v in native endianness.
func (e *Encoder) PutFloat32(v float32) { e.PutUint32(math.Float32bits(v)) }

// PutFloat64 appends v in native endianness.
func (e *Encoder) PutFloat64(v float64) { e.PutUint64(math.Float64bits(v)) }

// PutCount appends a 4-byte sequence count, to be followed by that
// many serialized elements written by the caller.
func (e *Encoder) PutCount(n int) { e.PutUint32(uint32(n)) }

// PutBytes appends a 4-byte length followed by raw bytes.
func (e *Encoder) PutBytes(b []byte) {
	e.PutCount(len(b))
	e.buf = append(e.buf, b...)
}

// PutString appends a 4-byte length followed by the UTF-8 bytes of s.
func (e *Encoder) PutString(s string) { e.PutBytes([]byte(s)) }

// Decoder walks a payload produced by Encoder. Byte fields are
// returned as slices into the buffer the Decoder was constructed
// with, typically an mmap'd region, without copying; String copies
// the bytes into a new Go string.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a Decoder reading from buf.
func NewDecoder(buf []byte) *Decoder { return &Decoder{buf: buf} }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, ErrMalformedMsg
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// Uint8 reads a single byte.
func (d *Decoder) Uint8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a native-endian uint16.
func (d *Decoder) Uint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(b), nil
}

// Uint32 reads a native-endian uint32.
func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(b), nil
}

// Uint64 reads a native-endian uint64.
func (d *Decoder) Uint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(b), nil
}

// Float32 reads a native-endian float32.
func (d *Decoder) Float32() (float32, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Float64 reads a native-endian float64.
func (d *Decoder) Float64() (float64, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Count reads a 4-byte sequence count.
func (d *Decoder) Count() (int, error) {
	n, err := d.Uint32()
	return int(n), err
}

// Bytes reads a length-tagged byte string, returning a slice into the
// Decoder's backing buffer.
func (d *Decoder) Bytes() ([]byte, error) {
	n, err := d.Count()
	if err != nil {
		return nil, err
	}
	return d.take(n)
}

// String reads a length-tagged byte string and validates it as UTF-8.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrMalformedMsg
	}
	return string(b), nil
}
