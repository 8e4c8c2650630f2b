// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package daemon wires the codec, ipc, pool, transition, anim, and
// wallpaper packages into the running wallbgd process: the Unix
// socket lifecycle, per-output wallpaper registry, and request
// dispatch (spec.md §6).
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/gviegas/wallbg/anim"
	"github.com/gviegas/wallbg/wallpaper"
)

// ErrAlreadyRunning means the socket path is already occupied by a
// live daemon (spec.md §6 exit codes).
var ErrAlreadyRunning = errors.New("daemon: socket already in use")

// Daemon owns the IPC listener and the registry of wallpapers it
// draws to, one per compositor output. The registry follows the
// reference driver registry's shape: a map keyed by output name,
// protected by a single mutex.
type Daemon struct {
	cfg  *Config
	path string

	sched *anim.Scheduler

	mu    sync.Mutex
	walls map[string]*wallpaper.Wallpaper

	ln *net.UnixListener
}

// New returns a Daemon configured from cfg. It does not yet listen
// on a socket; call Listen to do so.
func New(cfg *Config) *Daemon {
	return &Daemon{
		cfg:   cfg,
		path:  socketPath(cfg),
		sched: anim.NewScheduler(cfg.MaxWorkers),
		walls: make(map[string]*wallpaper.Wallpaper),
	}
}

// socketPath resolves the control socket's filesystem path:
// cfg.SocketPath if set, otherwise
// $XDG_RUNTIME_DIR/swww-<WAYLAND_DISPLAY>.socket (spec.md §6).
func socketPath(cfg *Config) string {
	if cfg.SocketPath != "" {
		return cfg.SocketPath
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("swww-%s.socket", os.Getenv("WAYLAND_DISPLAY")))
}

// SocketPath returns the path the daemon listens on, or will listen
// on once Listen succeeds.
func (d *Daemon) SocketPath() string { return d.path }

// Listen creates the control socket, removing a stale one left
// behind by an unclean shutdown. It returns ErrAlreadyRunning if a
// live daemon already holds the path.
func (d *Daemon) Listen() error {
	if conn, err := net.Dial("unix", d.path); err == nil {
		conn.Close()
		return ErrAlreadyRunning
	}
	os.Remove(d.path)

	addr, err := net.ResolveUnixAddr("unix", d.path)
	if err != nil {
		return err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return err
	}
	d.ln = ln
	log.Printf("daemon: listening on %s", d.path)
	return nil
}

// Serve accepts connections until ctx is cancelled or the listener
// is closed, dispatching each to handleConn on its own goroutine. A
// per-connection failure is logged and does not stop the loop
// (spec.md §7 IPC error policy).
func (d *Daemon) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		d.ln.Close()
	}()

	for {
		conn, err := d.ln.AcceptUnix()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go func() {
			defer conn.Close()
			if err := d.handleConn(conn); err != nil {
				log.Printf("daemon: connection handler: %v", err)
			}
		}()
	}
}

// Close removes the control socket and releases every registered
// wallpaper's pool.
func (d *Daemon) Close() error {
	var err error
	if d.ln != nil {
		err = d.ln.Close()
	}
	os.Remove(d.path)

	d.mu.Lock()
	defer d.mu.Unlock()
	for name, w := range d.walls {
		if cerr := w.Pool.Close(); cerr != nil && err == nil {
			err = cerr
		}
		delete(d.walls, name)
	}
	return err
}

// RegisterOutput adds or replaces the wallpaper tracked for the
// named output, mirroring the reference driver registry's
// replace-by-name semantics. The daemon holds its own reference on
// every registered wallpaper (spec.md §3's "daemon's main structure
// holds the strong references"), released on UnregisterOutput or on
// replacement here.
func (d *Daemon) RegisterOutput(w *wallpaper.Wallpaper) {
	d.mu.Lock()
	old, replaced := d.walls[w.Name]
	d.walls[w.Name] = w
	d.mu.Unlock()

	if replaced {
		log.Printf("daemon: output '%s' replaced", w.Name)
		if old.Release() {
			old.Pool.Close()
		}
	} else {
		log.Printf("daemon: output '%s' registered", w.Name)
	}
	w.Retain()
}

// UnregisterOutput drops the wallpaper tracked for name, e.g. when
// the compositor reports the output was removed, and releases the
// daemon's own reference on it. If no animation worker still holds a
// reference, its pool is closed immediately; otherwise the worker
// that holds the last reference closes it on exit (anim.Scheduler).
func (d *Daemon) UnregisterOutput(name string) {
	d.mu.Lock()
	w, ok := d.walls[name]
	delete(d.walls, name)
	d.mu.Unlock()

	if !ok {
		return
	}
	if w.Release() {
		if err := w.Pool.Close(); err != nil {
			log.Printf("daemon: output '%s': failed to close pool: %v", name, err)
		}
	}
}

// Output returns the wallpaper registered for name, if any.
func (d *Daemon) Output(name string) (*wallpaper.Wallpaper, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.walls[name]
	return w, ok
}

// Outputs returns every currently registered wallpaper. If names is
// non-empty, only those present in names are returned.
func (d *Daemon) Outputs(names ...string) []*wallpaper.Wallpaper {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(names) == 0 {
		out := make([]*wallpaper.Wallpaper, 0, len(d.walls))
		for _, w := range d.walls {
			out = append(out, w)
		}
		return out
	}
	out := make([]*wallpaper.Wallpaper, 0, len(names))
	for _, n := range names {
		if w, ok := d.walls[n]; ok {
			out = append(out, w)
		}
	}
	return out
}
