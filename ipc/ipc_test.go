// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ipc

import (
	"testing"

	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Code: Image, PayloadLen: 1 << 20}
	buf := h.Encode()
	assert.Equal(t, h, DecodeHeader(buf[:]))
}

func TestClearRequestRoundTrip(t *testing.T) {
	want := ClearRequest{
		Color:   [3]byte{0x11, 0x22, 0x33},
		Outputs: []string{"HDMI-A-1", "eDP-1"},
	}
	got, err := DecodeClearRequest(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func sampleTransition() Transition {
	return Transition{
		Kind:     TransitionWave,
		Duration: 1.5,
		Step:     8,
		FPS:      60,
		Angle:    0.75,
		Position: Position{
			X: Axis{Unit: UnitPercent, Value: 50},
			Y: Axis{Unit: UnitPixel, Value: 10},
		},
		Bezier:  linear.Bezier{P1: linear.V2{0.25, 0.1}, P2: linear.V2{0.25, 1}},
		Wave:    [2]float32{20, 100},
		InvertY: true,
	}
}

func TestImageRequestRoundTrip(t *testing.T) {
	want := ImageRequest{
		Transition: sampleTransition(),
		Images: []RawImage{
			{Width: 2, Height: 2, Format: codec.Bgr, Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		},
		Groups: []OutputGroup{{Outputs: []string{"HDMI-A-1"}}},
		Animations: []Animation{{Frames: []AnimFrame{
			{Delta: &codec.BitPack{Bytes: []byte{9, 9, 9}, ExpectedBufSize: 12, CompressedSize: 6}, Duration: 0.1},
		}}},
	}
	got, err := DecodeImageRequest(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImageRequestRoundTripNoAnimations(t *testing.T) {
	want := ImageRequest{
		Transition: sampleTransition(),
		Images: []RawImage{
			{Width: 1, Height: 1, Format: codec.Rgba, Pixels: []byte{9, 8, 7}},
		},
		Groups: []OutputGroup{{Outputs: []string{"eDP-1"}}},
	}
	got, err := DecodeImageRequest(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Nil(t, got.Animations)
}

func TestAnimationRequestRoundTrip(t *testing.T) {
	want := AnimationRequest{
		Groups: []OutputGroup{{Outputs: []string{"HDMI-A-1"}}},
		Animations: []Animation{{Frames: []AnimFrame{
			{Delta: &codec.BitPack{Bytes: []byte{1}, ExpectedBufSize: 3, CompressedSize: 3}, Duration: 0.1},
			{Delta: &codec.BitPack{Bytes: []byte{2, 3}, ExpectedBufSize: 3, CompressedSize: 4}, Duration: 0.2},
		}}},
	}
	got, err := DecodeAnimationRequest(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInfoResponseRoundTrip(t *testing.T) {
	want := InfoResponse{Outputs: []OutputInfo{
		{
			Name:        "HDMI-A-1",
			Width:       1920,
			Height:      1080,
			ScaleFactor: Scale{Kind: ScaleWhole, Value: 1},
			Img:         ImgDescriptor{Kind: ImgColor, Color: [3]byte{0x11, 0x22, 0x33}},
		},
		{
			Name:        "eDP-1",
			Width:       2560,
			Height:      1600,
			ScaleFactor: Scale{Kind: ScaleFractional, Value: 150},
			Img:         ImgDescriptor{Kind: ImgPath, Path: "/tmp/wall.png"},
		},
	}}
	got, err := DecodeInfoResponse(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestErrResponseRoundTrip(t *testing.T) {
	want := ErrResponse{Message: "socket already occupied by a live daemon"}
	got, err := DecodeErrResponse(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecoderRejectsTruncatedPayload(t *testing.T) {
	want := ClearRequest{Color: [3]byte{1, 2, 3}, Outputs: []string{"HDMI-A-1"}}
	buf := want.Encode()
	_, err := DecodeClearRequest(buf[:len(buf)-2])
	assert.ErrorIs(t, err, ErrMalformedMsg)
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	var e Encoder
	e.PutBytes([]byte{0xFF, 0xFE, 0xFD})
	d := NewDecoder(e.Bytes())
	_, err := d.String()
	assert.ErrorIs(t, err, ErrMalformedMsg)
}

func TestMessageCodeString(t *testing.T) {
	assert.Equal(t, "image", Image.String())
	assert.Equal(t, "ping-await", PingAwait.String())
	assert.True(t, Ping.IsRequest())
	assert.False(t, Ok.IsRequest())
}
