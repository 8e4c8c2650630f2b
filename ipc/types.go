// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ipc

import (
	"github.com/gviegas/wallbg/codec"
	"github.com/gviegas/wallbg/linear"
)

// TransitionKind is the discriminant of a Transition descriptor.
type TransitionKind uint8

// Transition kinds.
const (
	TransitionNone TransitionKind = iota
	TransitionSimple
	TransitionFade
	TransitionWipe
	TransitionGrow
	TransitionOuter
	TransitionWave
)

// PositionUnit tags one axis of a Position as either an absolute
// pixel offset or a percentage of the output dimension.
type PositionUnit uint8

// Position units.
const (
	UnitPixel PositionUnit = iota
	UnitPercent
)

// Axis is one coordinate of a Position: a unit tag plus the value in
// that unit.
type Axis struct {
	Unit  PositionUnit
	Value float32
}

// Position is a 2-D origin for Grow/Outer, with each axis
// independently tagged as pixel or percent.
type Position struct {
	X, Y Axis
}

// Transition is the wire layout of a transition descriptor: one
// discriminant byte followed by the parameters every effect shares,
// even though a given effect only consults a subset of them.
type Transition struct {
	Kind     TransitionKind
	Duration float32
	Step     uint8 // non-zero
	FPS      uint16
	Angle    float64
	Position Position
	Bezier   linear.Bezier
	Wave     [2]float32 // amplitude, wavelength / 2π
	InvertY  bool
}

func (a Axis) encode(e *Encoder) {
	e.PutUint8(uint8(a.Unit))
	e.PutFloat32(a.Value)
}

func decodeAxis(d *Decoder) (Axis, error) {
	u, err := d.Uint8()
	if err != nil {
		return Axis{}, err
	}
	v, err := d.Float32()
	if err != nil {
		return Axis{}, err
	}
	return Axis{Unit: PositionUnit(u), Value: v}, nil
}

func (t Transition) encode(e *Encoder) {
	e.PutUint8(uint8(t.Kind))
	e.PutFloat32(t.Duration)
	e.PutUint8(t.Step)
	e.PutUint16(t.FPS)
	e.PutFloat64(t.Angle)
	t.Position.X.encode(e)
	t.Position.Y.encode(e)
	e.PutFloat32(t.Bezier.P1[0])
	e.PutFloat32(t.Bezier.P1[1])
	e.PutFloat32(t.Bezier.P2[0])
	e.PutFloat32(t.Bezier.P2[1])
	e.PutFloat32(t.Wave[0])
	e.PutFloat32(t.Wave[1])
	if t.InvertY {
		e.PutUint8(1)
	} else {
		e.PutUint8(0)
	}
}

func decodeTransition(d *Decoder) (Transition, error) {
	var t Transition
	kind, err := d.Uint8()
	if err != nil {
		return t, err
	}
	t.Kind = TransitionKind(kind)
	if t.Duration, err = d.Float32(); err != nil {
		return t, err
	}
	if t.Step, err = d.Uint8(); err != nil {
		return t, err
	}
	if t.FPS, err = d.Uint16(); err != nil {
		return t, err
	}
	if t.Angle, err = d.Float64(); err != nil {
		return t, err
	}
	if t.Position.X, err = decodeAxis(d); err != nil {
		return t, err
	}
	if t.Position.Y, err = decodeAxis(d); err != nil {
		return t, err
	}
	if t.Bezier.P1[0], err = d.Float32(); err != nil {
		return t, err
	}
	if t.Bezier.P1[1], err = d.Float32(); err != nil {
		return t, err
	}
	if t.Bezier.P2[0], err = d.Float32(); err != nil {
		return t, err
	}
	if t.Bezier.P2[1], err = d.Float32(); err != nil {
		return t, err
	}
	if t.Wave[0], err = d.Float32(); err != nil {
		return t, err
	}
	if t.Wave[1], err = d.Float32(); err != nil {
		return t, err
	}
	invert, err := d.Uint8()
	if err != nil {
		return t, err
	}
	t.InvertY = invert != 0
	return t, nil
}

// RawImage is one fully-decoded frame as it travels on the wire:
// dimensions, pixel format, and the tightly packed pixel buffer.
type RawImage struct {
	Width, Height uint32
	Format        codec.PixelFormat
	Pixels        []byte
}

func (img RawImage) encode(e *Encoder) {
	e.PutUint32(img.Width)
	e.PutUint32(img.Height)
	e.PutUint8(uint8(img.Format))
	e.PutBytes(img.Pixels)
}

func decodeRawImage(d *Decoder) (RawImage, error) {
	var img RawImage
	var err error
	if img.Width, err = d.Uint32(); err != nil {
		return img, err
	}
	if img.Height, err = d.Uint32(); err != nil {
		return img, err
	}
	fmtByte, err := d.Uint8()
	if err != nil {
		return img, err
	}
	img.Format = codec.PixelFormat(fmtByte)
	if img.Pixels, err = d.Bytes(); err != nil {
		return img, err
	}
	return img, nil
}

// encodeBitPack writes a codec.BitPack as it travels on the wire: a
// 4-byte length, the LZ4 bytes themselves, then the two size fields the
// decoder needs, each as a 4-byte count (spec.md §6).
func encodeBitPack(e *Encoder, bp *codec.BitPack) {
	e.PutBytes(bp.Bytes)
	e.PutCount(bp.ExpectedBufSize)
	e.PutCount(bp.CompressedSize)
}

func decodeBitPack(d *Decoder) (*codec.BitPack, error) {
	b, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	expected, err := d.Count()
	if err != nil {
		return nil, err
	}
	compressed, err := d.Count()
	if err != nil {
		return nil, err
	}
	return &codec.BitPack{
		Bytes:           append([]byte(nil), b...),
		ExpectedBufSize: expected,
		CompressedSize:  compressed,
	}, nil
}

// AnimFrame is one (delta, duration) pair of an Animation on the
// wire.
type AnimFrame struct {
	Delta    *codec.BitPack
	Duration float32 // seconds
}

// Animation is the wire form of codec.Animation for one output
// group: an ordered, cyclic list of frame deltas.
type Animation struct {
	Frames []AnimFrame
}

func (a Animation) encode(e *Encoder) {
	e.PutCount(len(a.Frames))
	for _, f := range a.Frames {
		encodeBitPack(e, f.Delta)
		e.PutFloat32(f.Duration)
	}
}

func decodeAnimation(d *Decoder) (Animation, error) {
	n, err := d.Count()
	if err != nil {
		return Animation{}, err
	}
	frames := make([]AnimFrame, n)
	for i := range frames {
		bp, err := decodeBitPack(d)
		if err != nil {
			return Animation{}, err
		}
		dur, err := d.Float32()
		if err != nil {
			return Animation{}, err
		}
		frames[i] = AnimFrame{Delta: bp, Duration: dur}
	}
	return Animation{Frames: frames}, nil
}

func encodeStrings(e *Encoder, ss []string) {
	e.PutCount(len(ss))
	for _, s := range ss {
		e.PutString(s)
	}
}

func decodeStrings(d *Decoder) ([]string, error) {
	n, err := d.Count()
	if err != nil {
		return nil, err
	}
	ss := make([]string, n)
	for i := range ss {
		if ss[i], err = d.String(); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

// ClearRequest fills every buffer of the named outputs with a solid
// color.
type ClearRequest struct {
	Color   [3]byte
	Outputs []string
}

// Encode appends r's wire encoding to a fresh Encoder and returns the
// resulting payload bytes.
func (r ClearRequest) Encode() []byte {
	var e Encoder
	e.PutUint8(r.Color[0])
	e.PutUint8(r.Color[1])
	e.PutUint8(r.Color[2])
	encodeStrings(&e, r.Outputs)
	return e.Bytes()
}

// DecodeClearRequest parses a ClearRequest payload.
func DecodeClearRequest(payload []byte) (ClearRequest, error) {
	d := NewDecoder(payload)
	var r ClearRequest
	var err error
	for i := range r.Color {
		if r.Color[i], err = d.Uint8(); err != nil {
			return r, err
		}
	}
	if r.Outputs, err = decodeStrings(d); err != nil {
		return r, err
	}
	return r, nil
}

// OutputGroup names the outputs one image or animation in a request
// applies to.
type OutputGroup struct {
	Outputs []string
}

// ImageRequest transitions one or more images onto their respective
// output groups, optionally handing off to a per-group animation once
// the transition converges.
type ImageRequest struct {
	Transition Transition
	Images     []RawImage
	Groups     []OutputGroup
	Animations []Animation // nil if the request carries no animations
}

// Encode appends r's wire encoding and returns the resulting payload
// bytes.
func (r ImageRequest) Encode() []byte {
	var e Encoder
	r.Transition.encode(&e)
	e.PutCount(len(r.Images))
	for _, img := range r.Images {
		img.encode(&e)
	}
	e.PutCount(len(r.Groups))
	for _, g := range r.Groups {
		encodeStrings(&e, g.Outputs)
	}
	if r.Animations == nil {
		e.PutUint8(0)
	} else {
		e.PutUint8(1)
		e.PutCount(len(r.Animations))
		for _, a := range r.Animations {
			a.encode(&e)
		}
	}
	return e.Bytes()
}

// DecodeImageRequest parses an ImageRequest payload.
func DecodeImageRequest(payload []byte) (ImageRequest, error) {
	d := NewDecoder(payload)
	var r ImageRequest
	var err error
	if r.Transition, err = decodeTransition(d); err != nil {
		return r, err
	}
	nImg, err := d.Count()
	if err != nil {
		return r, err
	}
	r.Images = make([]RawImage, nImg)
	for i := range r.Images {
		if r.Images[i], err = decodeRawImage(d); err != nil {
			return r, err
		}
	}
	nGrp, err := d.Count()
	if err != nil {
		return r, err
	}
	r.Groups = make([]OutputGroup, nGrp)
	for i := range r.Groups {
		outputs, err := decodeStrings(d)
		if err != nil {
			return r, err
		}
		r.Groups[i] = OutputGroup{Outputs: outputs}
	}
	hasAnim, err := d.Uint8()
	if err != nil {
		return r, err
	}
	if hasAnim != 0 {
		nAnim, err := d.Count()
		if err != nil {
			return r, err
		}
		r.Animations = make([]Animation, nAnim)
		for i := range r.Animations {
			if r.Animations[i], err = decodeAnimation(d); err != nil {
				return r, err
			}
		}
	}
	return r, nil
}

// AnimationRequest replaces the running animation on each named
// output group with a new cyclic sequence of precompressed deltas.
type AnimationRequest struct {
	Groups     []OutputGroup
	Animations []Animation // one per group, same length as Groups
}

// Encode appends r's wire encoding and returns the resulting payload
// bytes.
func (r AnimationRequest) Encode() []byte {
	var e Encoder
	e.PutCount(len(r.Groups))
	for i, g := range r.Groups {
		encodeStrings(&e, g.Outputs)
		r.Animations[i].encode(&e)
	}
	return e.Bytes()
}

// DecodeAnimationRequest parses an AnimationRequest payload.
func DecodeAnimationRequest(payload []byte) (AnimationRequest, error) {
	d := NewDecoder(payload)
	var r AnimationRequest
	n, err := d.Count()
	if err != nil {
		return r, err
	}
	r.Groups = make([]OutputGroup, n)
	r.Animations = make([]Animation, n)
	for i := 0; i < n; i++ {
		outputs, err := decodeStrings(d)
		if err != nil {
			return r, err
		}
		r.Groups[i] = OutputGroup{Outputs: outputs}
		if r.Animations[i], err = decodeAnimation(d); err != nil {
			return r, err
		}
	}
	return r, nil
}

// ImgKind tags an ImgDescriptor as a solid color or a path to a
// decoded image file.
type ImgKind uint8

// Img descriptor kinds.
const (
	ImgColor ImgKind = iota
	ImgPath
)

// ImgDescriptor is the wire form of a wallpaper's active image: the
// daemon never interprets Path itself, it only reports it back to
// the client (the client-side decoder, an external collaborator per
// spec.md §1, resolved it originally).
type ImgDescriptor struct {
	Kind  ImgKind
	Color [3]byte
	Path  string
}

func (d ImgDescriptor) encode(e *Encoder) {
	e.PutUint8(uint8(d.Kind))
	switch d.Kind {
	case ImgColor:
		e.PutUint8(d.Color[0])
		e.PutUint8(d.Color[1])
		e.PutUint8(d.Color[2])
	case ImgPath:
		e.PutString(d.Path)
	}
}

func decodeImgDescriptor(d *Decoder) (ImgDescriptor, error) {
	kind, err := d.Uint8()
	if err != nil {
		return ImgDescriptor{}, err
	}
	desc := ImgDescriptor{Kind: ImgKind(kind)}
	switch desc.Kind {
	case ImgColor:
		for i := range desc.Color {
			if desc.Color[i], err = d.Uint8(); err != nil {
				return desc, err
			}
		}
	case ImgPath:
		if desc.Path, err = d.String(); err != nil {
			return desc, err
		}
	}
	return desc, nil
}

// ScaleKind tags a Scale as a whole-number multiplier or a fractional
// one expressed as a numerator over 120 (spec.md GLOSSARY).
type ScaleKind uint8

// Scale kinds.
const (
	ScaleWhole ScaleKind = iota
	ScaleFractional
)

// Scale is an output's buffer-to-logical-size ratio.
type Scale struct {
	Kind  ScaleKind
	Value int32 // whole multiplier, or numerator over 120 when Kind == ScaleFractional
}

func (s Scale) encode(e *Encoder) {
	e.PutUint8(uint8(s.Kind))
	e.PutUint32(uint32(s.Value))
}

func decodeScale(d *Decoder) (Scale, error) {
	kind, err := d.Uint8()
	if err != nil {
		return Scale{}, err
	}
	v, err := d.Uint32()
	if err != nil {
		return Scale{}, err
	}
	return Scale{Kind: ScaleKind(kind), Value: int32(v)}, nil
}

// OutputInfo is the per-output record the daemon reports in an Info
// response: the image description, current dimensions, and scale
// factor (SPEC_FULL.md supplemented feature 1).
type OutputInfo struct {
	Name          string
	Width, Height uint32
	ScaleFactor   Scale
	Img           ImgDescriptor
}

func (o OutputInfo) encode(e *Encoder) {
	e.PutString(o.Name)
	e.PutUint32(o.Width)
	e.PutUint32(o.Height)
	o.ScaleFactor.encode(e)
	o.Img.encode(e)
}

func decodeOutputInfo(d *Decoder) (OutputInfo, error) {
	var o OutputInfo
	var err error
	if o.Name, err = d.String(); err != nil {
		return o, err
	}
	if o.Width, err = d.Uint32(); err != nil {
		return o, err
	}
	if o.Height, err = d.Uint32(); err != nil {
		return o, err
	}
	if o.ScaleFactor, err = decodeScale(d); err != nil {
		return o, err
	}
	if o.Img, err = decodeImgDescriptor(d); err != nil {
		return o, err
	}
	return o, nil
}

// InfoResponse answers a Query request with one record per configured
// output.
type InfoResponse struct {
	Outputs []OutputInfo
}

// Encode appends r's wire encoding and returns the resulting payload
// bytes.
func (r InfoResponse) Encode() []byte {
	var e Encoder
	e.PutCount(len(r.Outputs))
	for _, o := range r.Outputs {
		o.encode(&e)
	}
	return e.Bytes()
}

// DecodeInfoResponse parses an InfoResponse payload.
func DecodeInfoResponse(payload []byte) (InfoResponse, error) {
	d := NewDecoder(payload)
	n, err := d.Count()
	if err != nil {
		return InfoResponse{}, err
	}
	outputs := make([]OutputInfo, n)
	for i := range outputs {
		if outputs[i], err = decodeOutputInfo(d); err != nil {
			return InfoResponse{}, err
		}
	}
	return InfoResponse{Outputs: outputs}, nil
}

// ErrResponse carries a human-readable failure message back to the
// client; there are no partial successes (spec.md §7).
type ErrResponse struct {
	Message string
}

// Encode appends r's wire encoding and returns the resulting payload
// bytes.
func (r ErrResponse) Encode() []byte {
	var e Encoder
	e.PutString(r.Message)
	return e.Bytes()
}

// DecodeErrResponse parses an ErrResponse payload.
func DecodeErrResponse(payload []byte) (ErrResponse, error) {
	d := NewDecoder(payload)
	msg, err := d.String()
	if err != nil {
		return ErrResponse{}, err
	}
	return ErrResponse{Message: msg}, nil
}
