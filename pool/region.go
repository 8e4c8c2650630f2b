// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// region is the growable shared-memory object a Pool's buffers are
// carved from. It is backed by a memfd so its file descriptor can be
// passed to the compositor for each buffer registered at an offset
// within it.
type region struct {
	fd      int
	mapping []byte // nil when unmapped
	size    int    // current backing file size, independent of mapping
}

// newRegion creates an empty, unmapped memfd-backed region.
func newRegion(name string) (*region, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("pool: memfd_create: %w", err)
	}
	return &region{fd: fd}, nil
}

// FD returns the region's file descriptor, for registering a new
// buffer with the compositor at a given offset.
func (r *region) FD() int { return r.fd }

// Bytes returns the current mapping, or nil if the region is
// unmapped.
func (r *region) Bytes() []byte { return r.mapping }

// Grow extends the region by extra bytes and remaps it, preserving
// existing contents and zero-filling the new extent. It returns the
// offset at which the new extent begins.
//
// In-place remap primitives (Linux's mremap) would avoid the
// unmap/remap round trip; this implementation always takes the
// portable path spec.md §4.3 allows for systems without one, since
// golang.org/x/sys/unix exposes ftruncate/mmap/munmap uniformly
// across platforms this pool needs to run on.
func (r *region) Grow(extra int) (offset int, err error) {
	offset = r.size
	newSize := r.size + extra
	if err := unix.Ftruncate(r.fd, int64(newSize)); err != nil {
		return 0, fmt.Errorf("pool: ftruncate: %w", err)
	}
	if r.mapping != nil {
		if err := unix.Munmap(r.mapping); err != nil {
			return 0, fmt.Errorf("pool: munmap: %w", err)
		}
		r.mapping = nil
	}
	mapping, err := unix.Mmap(r.fd, 0, newSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return 0, fmt.Errorf("pool: mmap: %w", err)
	}
	r.mapping = mapping
	r.size = newSize
	return offset, nil
}

// EnsureMapped remaps the region at its current size if it is
// currently unmapped, a no-op otherwise. This is the cheap remap
// spec.md §9 describes: the fd is retained across Unmap, so there is
// nothing to recreate, only to map again.
func (r *region) EnsureMapped() error {
	if r.mapping != nil || r.size == 0 {
		return nil
	}
	mapping, err := unix.Mmap(r.fd, 0, r.size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("pool: mmap: %w", err)
	}
	r.mapping = mapping
	return nil
}

// Unmap releases the region's mapping without destroying the
// backing memfd, so a subsequent Grow/remap is cheap (spec.md §9,
// "shared-memory lifecycle").
func (r *region) Unmap() error {
	if r.mapping == nil {
		return nil
	}
	if err := unix.Munmap(r.mapping); err != nil {
		return fmt.Errorf("pool: munmap: %w", err)
	}
	r.mapping = nil
	return nil
}

// Close unmaps the region and closes its file descriptor.
func (r *region) Close() error {
	if err := r.Unmap(); err != nil {
		return err
	}
	return unix.Close(r.fd)
}
