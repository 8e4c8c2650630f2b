// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package cache documents the on-disk animation cache boundary. The
// cache itself is an external collaborator (spec.md §1 Non-goals): a
// client-side tool, not the daemon, hashes a source image plus its
// target dimensions and decides whether to decode it again or replay
// a previously recorded sequence of frame deltas. This package exists
// so the daemon's wire contract for that boundary is written down
// somewhere, not so the daemon can implement caching itself.
//
// Grounded on original_source/src/animation_cache.rs: the same
// (path, dimensions, fill/resize parameters)-keyed, versioned record shape,
// adapted to the codec package's types instead of bincode+serde.
package cache

import (
	"time"

	"github.com/gviegas/wallbg/codec"
)

// Version identifies the on-disk record layout. A Store implementation
// that finds a mismatched version must treat the record as absent
// rather than attempt to interpret it.
const Version uint32 = 1

// Key identifies one cached animation: the source image's path, the
// output dimensions it was encoded for, and any resize/fill parameters
// that change the decoded pixels (spec.md GLOSSARY; original
// AnimationCache::hash hashes the same fields).
type Key struct {
	Path      string
	Width     int
	Height    int
	FillColor [3]byte
	NoResize  bool
}

// Record is one cached animation: the frame sequence a prior run
// decoded, stored so a future request for the same Key can skip
// re-decoding the source image.
type Record struct {
	Version uint32
	Frames  []codec.Frame
}

// Store is the boundary the daemon's CLI-only cache-adjacent
// subcommands (clear-cache, restore) constrain themselves to. The
// daemon never calls Store itself — the wire contract only requires
// that a Kill-adjacent acknowledgement path exist for callers that
// issue these subcommands without a running daemon (SPEC_FULL.md
// supplemented feature 3) — but any real implementation of this
// interface must honor the semantics documented on each method.
type Store interface {
	// Load returns the cached Record for key, or ok == false if no
	// cache entry exists or it failed validation (stale Version, or
	// any integrity check the implementation performs).
	Load(key Key) (rec Record, ok bool, err error)

	// Save persists rec under key, replacing any prior entry.
	Save(key Key, rec Record) error

	// Clear removes every cached entry. Used by the CLI's
	// clear-cache subcommand; the daemon is not involved.
	Clear() error
}

// RestoreRequest is what the CLI's restore subcommand needs in order
// to ask a running daemon to redisplay the last image set per output,
// without itself touching the Store — restoration reads the cache
// directly and issues an ordinary Image/Animation request.
type RestoreRequest struct {
	Outputs []string
	Since   time.Duration // 0 means "no staleness limit"
}
