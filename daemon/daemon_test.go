// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package daemon

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/wallbg/ipc"
	"github.com/gviegas/wallbg/pool"
	"github.com/gviegas/wallbg/wallpaper"
)

// pumpFrameCallbacksForTest simulates the compositor consuming every
// committed frame immediately, so a worker blocked in CanvasChange
// always makes progress. It stops once stop is closed.
func pumpFrameCallbacksForTest(w *wallpaper.Wallpaper, stop <-chan struct{}) {
	t := time.NewTicker(time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			w.FrameCallbackCompleted(now)
		}
	}
}

func newTestDaemon(t *testing.T) *Daemon {
	cfg := defaultConfig()
	cfg.SocketPath = filepath.Join(t.TempDir(), "wallbgd.socket")
	d := New(cfg)
	require.NoError(t, d.Listen())
	t.Cleanup(func() { d.Close() })
	return d
}

func dial(t *testing.T, d *Daemon) *net.UnixConn {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: d.SocketPath(), Net: "unix"})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// S1: ping before any output is registered reports ping-await; once
// one is registered it reports ping-configured.
func TestPingAwaitThenConfigured(t *testing.T) {
	d := newTestDaemon(t)
	go d.Serve(context.Background())

	conn := dial(t, d)
	require.NoError(t, ipc.Send(conn, ipc.Ping, nil))
	code, _, release, err := ipc.Receive(conn)
	require.NoError(t, err)
	release()
	assert.Equal(t, ipc.PingAwait, code)

	p, err := pool.New(4, 4, 3)
	require.NoError(t, err)
	// d.Close (via newTestDaemon's cleanup) closes every registered
	// wallpaper's pool; no separate cleanup needed here.
	d.RegisterOutput(wallpaper.New("HDMI-A-1", p))

	conn2 := dial(t, d)
	require.NoError(t, ipc.Send(conn2, ipc.Ping, nil))
	code, _, release, err = ipc.Receive(conn2)
	require.NoError(t, err)
	release()
	assert.Equal(t, ipc.PingConfigured, code)
}

// S2 (partial): a clear request reports Ok, and a subsequent query
// reports the output's image as the requested color once the
// transition (None, here) has had time to converge.
func TestClearThenQueryReportsColor(t *testing.T) {
	d := newTestDaemon(t)
	go d.Serve(context.Background())

	p, err := pool.New(4, 4, 3)
	require.NoError(t, err)
	w := wallpaper.New("HDMI-A-1", p)
	w.SetGeometry(4, 4, wallpaper.Scale{Whole: true, Value: 1})
	d.RegisterOutput(w)
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go pumpFrameCallbacksForTest(w, stop)

	conn := dial(t, d)
	req := ipc.ClearRequest{Color: [3]byte{0x11, 0x22, 0x33}, Outputs: []string{"HDMI-A-1"}}
	require.NoError(t, ipc.Send(conn, ipc.Clear, req.Encode()))
	code, _, release, err := ipc.Receive(conn)
	require.NoError(t, err)
	release()
	assert.Equal(t, ipc.Ok, code)

	require.Eventually(t, w.Finished, time.Second, time.Millisecond)

	conn2 := dial(t, d)
	require.NoError(t, ipc.Send(conn2, ipc.Query, nil))
	code, payload, release, err := ipc.Receive(conn2)
	require.NoError(t, err)
	defer release()
	require.Equal(t, ipc.Info, code)

	resp, err := ipc.DecodeInfoResponse(payload)
	require.NoError(t, err)
	require.Len(t, resp.Outputs, 1)
	assert.Equal(t, ipc.ImgColor, resp.Outputs[0].Img.Kind)
	assert.Equal(t, [3]byte{0x11, 0x22, 0x33}, resp.Outputs[0].Img.Color)
}

func TestKillClosesSocket(t *testing.T) {
	d := newTestDaemon(t)
	go d.Serve(context.Background())

	conn := dial(t, d)
	require.NoError(t, ipc.Send(conn, ipc.Kill, nil))
	code, _, release, err := ipc.Receive(conn)
	require.NoError(t, err)
	release()
	assert.Equal(t, ipc.Ok, code)

	require.Eventually(t, func() bool {
		_, err := net.Dial("unix", d.SocketPath())
		return err != nil
	}, time.Second, time.Millisecond)
}
