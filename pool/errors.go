// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package pool implements the buffer pool (spec.md §4.3): a growable
// shared-memory region carved into fixed-dimension buffers, tracking
// which ones the compositor currently holds and copying prior
// contents forward so double-buffering never exposes stale pixels.
package pool

import "errors"

// ErrUnknownBuffer means SetReleased named a BufferID the pool never
// handed out (or has already forgotten).
var ErrUnknownBuffer = errors.New("pool: unknown buffer id")

// ErrRegionUnmapped means an operation needed the backing region
// mapped but the pool had unmapped it after full release.
var ErrRegionUnmapped = errors.New("pool: region is unmapped")
