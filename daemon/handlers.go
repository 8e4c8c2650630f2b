// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/gviegas/wallbg/anim"
	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/ipc"
	"github.com/gviegas/wallbg/transition"
	"github.com/gviegas/wallbg/wallpaper"
)

// handleConn receives exactly one request, dispatches it, and
// replies. A malformed or unexpected message is reported to the
// client as an Err payload rather than closing the connection
// abruptly (spec.md §7).
func (d *Daemon) handleConn(conn *net.UnixConn) error {
	code, payload, release, err := ipc.Receive(conn)
	if err != nil {
		if errors.Is(err, ipc.ErrBadCode) || errors.Is(err, ipc.ErrMalformedMsg) {
			d.sendErr(conn, err.Error())
		}
		return err
	}
	defer release()

	if !code.IsRequest() {
		return d.sendErr(conn, fmt.Sprintf("unexpected code %s on a request connection", code))
	}

	switch code {
	case ipc.Ping:
		return d.handlePing(conn)
	case ipc.Query:
		return d.handleQuery(conn)
	case ipc.Clear:
		return d.handleClear(conn, payload)
	case ipc.Image:
		return d.handleImage(conn, payload)
	case ipc.Animation:
		return d.handleAnimation(conn, payload)
	case ipc.Kill:
		return d.handleKill(conn)
	default:
		return d.sendErr(conn, fmt.Sprintf("unknown request code %s", code))
	}
}

// sendOk replies with a zero-payload Ok response: unqualified
// success.
func (d *Daemon) sendOk(conn *net.UnixConn) error {
	return ipc.Send(conn, ipc.Ok, nil)
}

// sendErr replies with an Ok-coded message carrying a non-empty
// ErrResponse payload. spec.md §6 reserves only four response codes
// (Ok, PingConfigured, PingAwait, Info); Err is not one of them, so
// this module piggybacks it on Ok, which otherwise always carries an
// empty payload — the client tells the two apart by payload length.
func (d *Daemon) sendErr(conn *net.UnixConn, msg string) error {
	return ipc.Send(conn, ipc.Ok, ipc.ErrResponse{Message: msg}.Encode())
}

func (d *Daemon) handlePing(conn *net.UnixConn) error {
	if len(d.Outputs()) == 0 {
		return ipc.Send(conn, ipc.PingAwait, nil)
	}
	return ipc.Send(conn, ipc.PingConfigured, nil)
}

func (d *Daemon) handleKill(conn *net.UnixConn) error {
	if err := d.sendOk(conn); err != nil {
		return err
	}
	go d.Close()
	return nil
}

func (d *Daemon) handleQuery(conn *net.UnixConn) error {
	outs := d.Outputs()
	infos := make([]ipc.OutputInfo, len(outs))
	for i, w := range outs {
		width, height, scale, img := w.Geometry()
		infos[i] = ipc.OutputInfo{
			Name:        w.Name,
			Width:       uint32(width),
			Height:      uint32(height),
			ScaleFactor: toIPCScale(scale),
			Img:         toIPCImgDescriptor(img),
		}
	}
	return ipc.Send(conn, ipc.Info, ipc.InfoResponse{Outputs: infos}.Encode())
}

func (d *Daemon) handleClear(conn *net.UnixConn, payload []byte) error {
	req, err := ipc.DecodeClearRequest(payload)
	if err != nil {
		return d.sendErr(conn, err.Error())
	}

	for _, w := range d.Outputs(req.Outputs...) {
		width, height, _, _ := w.Geometry()
		channels := 3
		solid := make([]byte, width*height*channels)
		for i := 0; i < len(solid); i += channels {
			copy(solid[i:i+channels], req.Color[:])
		}
		w.SetImage(wallpaper.Image{IsColor: true, Color: req.Color})
		w.SetFormat(codec.Bgr)
		tr := transition.New(transition.Descriptor{Kind: transition.None}, make([]byte, len(solid)), solid, width, height, channels)
		members := []anim.Member{{Wallpaper: w, Transition: tr, Format: codec.Bgr}}
		go d.runGroup(members)
	}
	return d.sendOk(conn)
}

func (d *Daemon) handleImage(conn *net.UnixConn, payload []byte) error {
	req, err := ipc.DecodeImageRequest(payload)
	if err != nil {
		return d.sendErr(conn, err.Error())
	}
	if len(req.Images) != len(req.Groups) {
		return d.sendErr(conn, "image count does not match group count")
	}

	for i, group := range req.Groups {
		img := req.Images[i]
		desc := toDescriptor(req.Transition)

		var delta *codec.Animation
		if req.Animations != nil {
			delta = toAnimation(req.Animations[i])
		}

		var members []anim.Member
		for _, w := range d.Outputs(group.Outputs...) {
			w.Pool.Resize(int(img.Width), int(img.Height), img.Format.Channels())
			_, _, scale, _ := w.Geometry()
			w.SetGeometry(int(img.Width), int(img.Height), scale)
			w.SetFormat(img.Format)
			canvas := make([]byte, len(img.Pixels))
			tr := transition.New(desc, canvas, img.Pixels, int(img.Width), int(img.Height), img.Format.Channels())
			members = append(members, anim.Member{Wallpaper: w, Transition: tr, Animation: delta, Format: img.Format})
		}
		go d.runGroup(members)
	}
	return d.sendOk(conn)
}

func (d *Daemon) handleAnimation(conn *net.UnixConn, payload []byte) error {
	req, err := ipc.DecodeAnimationRequest(payload)
	if err != nil {
		return d.sendErr(conn, err.Error())
	}
	if len(req.Animations) != len(req.Groups) {
		return d.sendErr(conn, "animation count does not match group count")
	}

	for i, group := range req.Groups {
		delta := toAnimation(req.Animations[i])
		var members []anim.Member
		for _, w := range d.Outputs(group.Outputs...) {
			if !w.Finished() {
				continue // a transition is still running; it will chain into its own delta loop
			}
			members = append(members, anim.Member{Wallpaper: w, Animation: delta, Format: w.Format()})
		}
		go d.runGroup(members)
	}
	return d.sendOk(conn)
}

// runGroup runs the scheduler for one request's members, logging any
// unrecoverable failure rather than propagating it: a bad group
// never takes down the daemon (spec.md §7).
func (d *Daemon) runGroup(members []anim.Member) {
	if len(members) == 0 {
		return
	}
	if err := d.sched.Start(context.Background(), members); err != nil {
		log.Printf("daemon: group failed: %v", err)
	}
}
