// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package daemon

import (
	"log"

	"github.com/gviegas/wallbg/pool"
	"github.com/gviegas/wallbg/wallpaper"
	"github.com/gviegas/wallbg/wsi"
)

// outputHandler adapts wsi's output lifecycle events onto the
// daemon's wallpaper registry: a new output gets a freshly sized
// pool and wallpaper, geometry changes resize the pool in place, and
// a removed output's wallpaper is dropped from the registry and has
// the daemon's own reference released (Daemon.UnregisterOutput). Its
// pool is closed immediately if no animation worker is still running
// against it, or by that worker's own deferred release otherwise
// (anim.Scheduler.runWorker) — either way exactly once, never leaked.
type outputHandler struct {
	d *Daemon
}

// BindOutputs installs the daemon as wsi's OutputHandler, so every
// compositor output discovered from here on gets a registered
// wallpaper automatically.
func (d *Daemon) BindOutputs() {
	wsi.SetOutputHandler(outputHandler{d})
}

func (h outputHandler) OutputAdded(out wsi.Output) {
	geom := out.Geometry()
	width, height := geom.Width, geom.Height
	if width == 0 || height == 0 {
		// Geometry not yet staged in; a 1x1 placeholder pool is
		// resized once the done event reports real dimensions.
		width, height = 1, 1
	}
	p, err := pool.New(width, height, 3)
	if err != nil {
		log.Printf("daemon: output '%s': failed to create pool: %v", out.Name(), err)
		return
	}
	w := wallpaper.New(out.Name(), p)
	w.SetGeometry(width, height, wallpaper.Scale{Whole: geom.Scale.Whole, Value: geom.Scale.Value})
	h.d.RegisterOutput(w)
}

func (h outputHandler) OutputRemoved(out wsi.Output) {
	h.d.UnregisterOutput(out.Name())
}

func (h outputHandler) OutputGeometryChanged(out wsi.Output, geom wsi.Geometry) {
	w, ok := h.d.Output(out.Name())
	if !ok {
		return
	}
	_, _, _, img := w.Geometry()
	scale := wallpaper.Scale{Whole: geom.Scale.Whole, Value: geom.Scale.Value}
	w.Pool.Resize(geom.Width, geom.Height, 3)
	w.SetGeometry(geom.Width, geom.Height, scale)
	w.SetImage(img)
}
