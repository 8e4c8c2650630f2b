// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wsi specifies the compositor-facing interface boundary: the
// set of Wayland events and requests the daemon needs from an output
// and its background layer surface. Per spec.md §1, the wire protocol
// itself (object IDs, marshaling, the event loop polling the Wayland
// fd) is an external collaborator; this package only names the shape
// of that boundary, adapted from the teacher's window-system
// integration package (Window -> Output/LayerSurface, no keyboard or
// pointer handling, since input is explicitly out of scope).
package wsi

import (
	"errors"
)

// Scale is an output's buffer-to-logical-size ratio. Whole is a plain
// integer multiplier; fractional scales are expressed as Value/120
// (spec.md GLOSSARY, "fractional scaling").
type Scale struct {
	Whole bool
	Value int32
}

// Geometry is an output's staged or live surface parameters, as
// reported by a stream of compositor events terminated by a done
// event (spec.md §9 "double-buffered state on the wallpaper").
type Geometry struct {
	Name   string
	Width  int
	Height int
	Scale  Scale
}

// Output is a single compositor output the daemon draws a background
// layer surface onto. It owns the staging/live geometry swap and the
// layer surface's lifecycle; it does not itself draw pixels.
type Output interface {
	// Name identifies the output (e.g. "HDMI-A-1"), stable for the
	// output's lifetime.
	Name() string

	// Geometry returns the output's current live geometry: the
	// values last swapped in at a done event, not any pending
	// staged values still arriving.
	Geometry() Geometry

	// CreateLayerSurface creates the wl_layer_shell background
	// surface for this output, if one does not already exist.
	CreateLayerSurface() (LayerSurface, error)

	// Close destroys the output and any layer surface it owns.
	Close()
}

// LayerSurface is the wl_layer_shell background-layer role bound to
// one Output. Its only event of interest to the daemon, beyond the
// output's own configure/done stream, is the frame callback.
type LayerSurface interface {
	// Attach attaches a committable buffer (identified by the pool's
	// BufferID, opaque to this package) at the given offset.
	Attach(bufID uint32, offsetX, offsetY int)

	// Damage marks a region of the most recently attached buffer as
	// needing recomposite.
	Damage(x, y, width, height int)

	// Commit submits the attached buffer and requests the next
	// frame callback; FrameCallback fires once the compositor has
	// consumed it (spec.md §4.6).
	Commit()

	// SetFrameCallback installs the function invoked when the
	// compositor signals that the previously committed buffer was
	// consumed. Only one callback is ever pending at a time, mirroring
	// the Waiting/Ready rendezvous spec.md §4.6 describes.
	SetFrameCallback(fn func())

	// Destroy destroys the layer surface. The underlying Output
	// survives and may create a new one.
	Destroy()
}

// OutputHandler receives output lifecycle and geometry-change events
// from the event loop. Geometry is only reported once the compositor's
// configure/done stream completes a staged update, never mid-stream
// (spec.md §9).
type OutputHandler interface {
	// OutputAdded is called when a new output becomes available.
	OutputAdded(out Output)

	// OutputRemoved is called when an output is gone; any surface it
	// owned is implicitly destroyed.
	OutputRemoved(out Output)

	// OutputGeometryChanged is called after a done event swaps staged
	// geometry into the live record.
	OutputGeometryChanged(out Output, geom Geometry)
}

// SetOutputHandler sets the global OutputHandler. It must be called
// before Dispatch is first invoked.
func SetOutputHandler(oh OutputHandler) {
	outputHandler = oh
}

var outputHandler OutputHandler

// Outputs returns every output currently known to the platform
// backend. The returned slice becomes stale after the next Dispatch.
func Outputs() []Output {
	if outputCount == 0 {
		return nil
	}
	outs := make([]Output, 0, outputCount)
	for i := range createdOutputs {
		if createdOutputs[i] != nil {
			outs = append(outs, createdOutputs[i])
		}
	}
	return outs
}

// MaxOutputs bounds the number of outputs a platform backend tracks
// simultaneously (spec.md's DefaultMaxOutputs mirrors this).
const MaxOutputs = 16

var (
	outputCount    int
	createdOutputs [MaxOutputs]Output
)

// registerOutput records a newly discovered output. Platform backends
// call this as part of handling a wl_registry global for wl_output.
func registerOutput(out Output) error {
	if outputCount >= MaxOutputs {
		return errors.New("wsi: too many outputs")
	}
	for i := range createdOutputs {
		if createdOutputs[i] == nil {
			createdOutputs[i] = out
			outputCount++
			return nil
		}
	}
	return errors.New("wsi: too many outputs")
}

// unregisterOutput removes out, e.g. on a wl_registry global_remove.
func unregisterOutput(out Output) {
	for i := range createdOutputs {
		if createdOutputs[i] == out {
			createdOutputs[i] = nil
			outputCount--
			return
		}
	}
}

// Dispatch dispatches queued Wayland events (configure/done, frame
// callbacks, registry changes) onto the registered handlers.
func Dispatch() {
	dispatch()
}

var dispatch func()

// Platform identifies the underlying backend wsi is using.
type Platform int

// Platforms.
const (
	// None means wsi is not available: CreateLayerSurface always
	// fails and Dispatch does nothing. Used in headless test
	// environments and builds without a compositor present.
	None Platform = iota
	Wayland
)

// PlatformInUse identifies the underlying platform which wsi is
// using.
func PlatformInUse() Platform {
	return platform
}

var platform Platform
