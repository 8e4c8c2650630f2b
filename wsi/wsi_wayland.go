// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build linux && !android

package wsi

// #cgo linux LDFLAGS: -ldl
// #include <dlfcn.h>
// #include <stdlib.h>
// #include <wsi_wayland.h>
import "C"

import (
	"errors"
	"unsafe"
)

// Handle for the shared object.
var hWayland unsafe.Pointer

// openWayland opens the shared library and gets function pointers.
// It is not safe to call any of the C wrappers unless this
// function succeeds.
func openWayland() error {
	if hWayland == nil {
		lib := C.CString("libwayland-client.so.0")
		defer C.free(unsafe.Pointer(lib))
		hWayland = C.dlopen(lib, C.RTLD_LAZY|C.RTLD_GLOBAL)
		if hWayland == nil {
			return errors.New("wsi: failed to open libwayland")
		}
		for i := range C.nameWayland {
			C.ptrWayland[i] = C.dlsym(hWayland, C.nameWayland[i])
			if C.ptrWayland[i] == nil {
				C.dlclose(hWayland)
				hWayland = nil
				return errors.New("wsi: failed to fetch Wayland symbol")
			}
		}
	}
	return nil
}

// closeWayland closes the shared library.
// It is not safe to call any of the C wrappers after
// calling this function.
func closeWayland() {
	if hWayland != nil {
		C.dlclose(hWayland)
		hWayland = nil
	}
}

// initWayland always returns an error: it does not connect to the
// compositor, bind wl_output/wl_layer_shell globals, or wire Dispatch
// to wl_display_dispatch. The wire protocol glue is an external
// collaborator (spec.md §1); this module specifies the
// Output/LayerSurface boundary without the registry binding behind it.
// Returning an error rather than panicking lets init_linux.go's init
// fall back to the dummy platform instead of crashing the daemon.
func initWayland() error {
	// TODO: bind wl_registry and wl_output/zwlr_layer_shell_v1
	// globals via the dlsym'd function pointers.
	return errors.New("wsi: Wayland backend not yet implemented")
}

// deinitWayland deinitializes the Wayland platform.
func deinitWayland() {
	// TODO
	panic("not implemented")
}

// outputWayland implements Output.
type outputWayland struct {
	name string
	geom Geometry // live
	pend Geometry // staged, swapped in at done
	ls   *layerSurfaceWayland
}

func (o *outputWayland) Name() string     { return o.name }
func (o *outputWayland) Geometry() Geometry { return o.geom }

func (o *outputWayland) CreateLayerSurface() (LayerSurface, error) {
	// TODO: zwlr_layer_shell_v1.get_layer_surface against o's
	// wl_output, anchored to all four edges, layer "background".
	panic("not implemented")
}

func (o *outputWayland) Close() {
	if o.ls != nil {
		o.ls.Destroy()
	}
	unregisterOutput(o)
}

// layerSurfaceWayland implements LayerSurface.
type layerSurfaceWayland struct {
	out      *outputWayland
	onFrame  func()
}

func (l *layerSurfaceWayland) Attach(bufID uint32, offsetX, offsetY int) {
	// TODO: wl_surface.attach + offset via the dlsym'd symbol table.
	panic("not implemented")
}

func (l *layerSurfaceWayland) Damage(x, y, width, height int) {
	// TODO: wl_surface.damage_buffer
	panic("not implemented")
}

func (l *layerSurfaceWayland) Commit() {
	// TODO: wl_surface.frame (request next callback) + wl_surface.commit
	panic("not implemented")
}

func (l *layerSurfaceWayland) SetFrameCallback(fn func()) {
	l.onFrame = fn
}

func (l *layerSurfaceWayland) Destroy() {
	// TODO: wl_surface.destroy / layer_surface.destroy
	panic("not implemented")
}

// dispatchWayland dispatches queued events.
func dispatchWayland() {
	// TODO: wl_display_dispatch, routing configure/done/frame events
	// to outputHandler and each layerSurfaceWayland.onFrame.
	panic("not implemented")
}
