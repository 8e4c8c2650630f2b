// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build linux && !android

package wsi

import (
	"os"
)

// The daemon requires a compositor; there is no X11/XCB fallback the
// way the teacher's GPU-driver windowing layer has one; spec.md §1
// scopes this module to Wayland only.
func init() {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if err := initWayland(); err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
		} else {
			platform = Wayland
			return
		}
	}
	initDummy()
}
