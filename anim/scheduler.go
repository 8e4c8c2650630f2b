// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package anim implements the Animator/Scheduler (spec.md §4.5): one
// worker goroutine per output, supervised as one group per
// multi-output request, cooperatively cancelled through
// each wallpaper's generation counter.
package anim

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/transition"
	"github.com/gviegas/wallbg/wallpaper"
)

// Member is one output's share of a request: the wallpaper it draws
// to, the transition that morphs its canvas to the new image, and,
// optionally, the animation to cycle once the transition converges.
type Member struct {
	Wallpaper  *wallpaper.Wallpaper
	Transition *transition.Transition
	Animation  *codec.Animation
	Format     codec.PixelFormat
}

// Scheduler bounds the number of concurrently active per-output
// workers across every request the daemon is currently serving.
type Scheduler struct {
	sem *semaphore.Weighted
}

// NewScheduler returns a Scheduler that admits at most maxWorkers
// concurrently running output workers.
func NewScheduler(maxWorkers int64) *Scheduler {
	return &Scheduler{sem: semaphore.NewWeighted(maxWorkers)}
}

// Start stops any animation currently running on every member's
// wallpaper, then spawns and supervises one worker per member. It
// blocks until every worker has either converged-and-looped to
// completion, observed cancellation via ctx, or exited due to a
// newer request superseding it. A single member's unrecoverable
// error (e.g. a pool fault) fails the whole group, matching
// errgroup's fail-fast semantics; a stale generation is not an
// error, so a superseded worker returns nil.
func (s *Scheduler) Start(ctx context.Context, members []Member) error {
	gens := make([]uint64, len(members))
	for i, m := range members {
		gens[i] = m.Wallpaper.StopAnimations()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range members {
		m, gen := members[i], gens[i]
		g.Go(func() error { return s.runWorker(gctx, m, gen) })
	}
	return g.Wait()
}

// runWorker drives one output's transition to convergence and, if
// the request carried an animation, cycles its frame deltas
// thereafter. It rechecks the wallpaper's generation every
// iteration and exits silently the instant it goes stale (spec.md
// §4.5 step 5, §8 property 8).
func (s *Scheduler) runWorker(ctx context.Context, m Member, gen uint64) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer s.sem.Release(1)

	m.Wallpaper.Retain()
	defer func() {
		// If this worker holds the last reference, the output was
		// unregistered (daemon.UnregisterOutput released its own
		// reference already) while this worker was still running;
		// close the pool rather than leak it (spec.md §3, §4.5).
		if m.Wallpaper.Release() {
			if err := m.Wallpaper.Pool.Close(); err != nil {
				log.Printf("anim: %s: failed to close pool: %v", m.Wallpaper.Name, err)
			}
		}
	}()

	// A nil Transition means this member is resuming an animation
	// whose transition already converged in an earlier request
	// (spec.md §4.5 step 4's "frame-delta loop" entered directly).
	if m.Transition != nil {
		for !m.Transition.Converged() {
			if m.Wallpaper.Generation() != gen {
				return nil
			}
			_, _, err := m.Wallpaper.CanvasChange(func(canvas []byte) {
				m.Transition.Rebind(canvas)
				m.Transition.Advance(time.Now())
			})
			if err != nil {
				log.Printf("anim: %s: transition advance failed: %v", m.Wallpaper.Name, err)
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
		}
	}
	m.Wallpaper.SetFinished(true)

	if m.Animation == nil || m.Animation.Len() == 0 {
		return nil
	}
	return s.runAnimation(ctx, m, gen)
}

// runAnimation cycles m.Animation's frame deltas once the transition
// has converged, pacing each commit by the declared frame duration
// minus the time already spent decoding and drawing it (spec.md
// §4.5 "Timing"). A decode error is logged and ends this worker's
// loop without killing the daemon (spec.md §7).
func (s *Scheduler) runAnimation(ctx context.Context, m Member, gen uint64) error {
	idx := 0
	for {
		if m.Wallpaper.Generation() != gen {
			return nil
		}

		frame := m.Animation.At(idx)
		tick := time.Now()
		var decodeErr error
		_, _, err := m.Wallpaper.CanvasChange(func(canvas []byte) {
			if frame.Delta != nil {
				decodeErr = codec.Decode(frame.Delta, canvas, m.Format)
			}
		})
		if err != nil {
			log.Printf("anim: %s: commit failed: %v", m.Wallpaper.Name, err)
			return err
		}
		if decodeErr != nil {
			log.Printf("anim: %s: frame decode failed: %v", m.Wallpaper.Name, decodeErr)
			return nil
		}
		idx++

		if sleep := frame.Duration - time.Since(tick); sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil
			}
		} else if ctx.Err() != nil {
			return nil
		}
	}
}
