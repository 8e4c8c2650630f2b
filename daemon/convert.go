// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package daemon

import (
	"time"

	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/ipc"
	"github.com/gviegas/wallbg/transition"
	"github.com/gviegas/wallbg/wallpaper"
)

// toDescriptor converts a Transition as it traveled on the wire into
// the transition package's runtime Descriptor. The two Kind and
// PositionUnit enumerations share the same ordering by construction,
// so the conversion is a plain reinterpretation, not a lookup table.
func toDescriptor(t ipc.Transition) transition.Descriptor {
	return transition.Descriptor{
		Kind:     transition.Kind(t.Kind),
		Duration: time.Duration(float64(t.Duration) * float64(time.Second)),
		Step:     t.Step,
		FPS:      t.FPS,
		Angle:    t.Angle,
		Position: transition.Position{
			X: transition.Axis{Unit: transition.Unit(t.Position.X.Unit), Value: t.Position.X.Value},
			Y: transition.Axis{Unit: transition.Unit(t.Position.Y.Unit), Value: t.Position.Y.Value},
		},
		Bezier:  t.Bezier,
		Wave:    t.Wave,
		InvertY: t.InvertY,
	}
}

// toAnimation converts the wire form of an Animation into a
// codec.Animation ready for the scheduler to cycle.
func toAnimation(a ipc.Animation) *codec.Animation {
	frames := make([]codec.Frame, len(a.Frames))
	for i, f := range a.Frames {
		frames[i] = codec.Frame{
			Delta:    f.Delta,
			Duration: time.Duration(float64(f.Duration) * float64(time.Second)),
		}
	}
	return &codec.Animation{Frames: frames}
}

// toIPCScale converts a wallpaper Scale into its wire form, for
// query responses.
func toIPCScale(s wallpaper.Scale) ipc.Scale {
	kind := ipc.ScaleWhole
	if !s.Whole {
		kind = ipc.ScaleFractional
	}
	return ipc.Scale{Kind: kind, Value: s.Value}
}

// toIPCImgDescriptor converts a wallpaper Image into its wire form,
// for query responses.
func toIPCImgDescriptor(img wallpaper.Image) ipc.ImgDescriptor {
	if img.IsColor {
		return ipc.ImgDescriptor{Kind: ipc.ImgColor, Color: img.Color}
	}
	return ipc.ImgDescriptor{Kind: ipc.ImgPath, Path: img.Path}
}
