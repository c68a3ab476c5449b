// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2bitstream is the top-level bitstream type: a device, its
// speed grade and package, a complete configuration for every function
// block, the device-wide global nets, the I/O bank voltage record, and
// (on larger devices) the GCK predivider. It composes pkg/xc2fb (per
// function block) and pkg/xc2global (device-wide nets, bank voltage) to
// encode to and decode from both fuse-plane representations named by the
// reference source: encode_logical/decode_logical
// (lib/fuseplane.Plane1D, the ".jed" layout) and encode_physical/
// decode_physical (lib/fuseplane.Plane2D, the ".cr" layout), grounded on
// bitstream.rs's top-level XC2Bitstream::{to,from}_jed and
// XC2Bitstream::{to,from}_crbit.
package xc2bitstream

import (
	"fmt"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2fb"
	"github.com/xc2cpld/xc2bit/pkg/xc2global"
	"github.com/xc2cpld/xc2bit/pkg/xc2iob"
)

// SpeedGrade and Package are free-form annotations carried alongside the
// device name in a .jed/.cr file's header comment; the reference source
// does not constrain their values beyond "a string", so neither does
// this package.
type SpeedGrade string
type Package string

// Bitstream is a fully decoded Coolrunner-II configuration.
type Bitstream struct {
	Device      xc2device.Device
	Speed       SpeedGrade
	Pkg         Package
	FBs         []*xc2fb.FunctionBlock
	Global      xc2global.GlobalNets
	ClockDiv    xc2global.ClockDiv // zero value if !Geometry.HasClockDiv
	ExtraIBuf   xc2iob.ExtraIBuf   // zero value if !Geometry.HasExtraIBuf
	BankVoltage xc2global.BankVoltage
}

// Blank returns a bitstream for d with every field at its device default
// (spec: "blank"), one FunctionBlock per the device's FBCount.
func Blank(d xc2device.Device, speed SpeedGrade, pkg Package) *Bitstream {
	g := xc2device.GeometryOf(d)
	bs := &Bitstream{
		Device: d, Speed: speed, Pkg: pkg,
		FBs:         make([]*xc2fb.FunctionBlock, g.FBCount),
		Global:      xc2global.DefaultGlobalNets(),
		BankVoltage: xc2global.DefaultBankVoltage(),
	}
	for i := range bs.FBs {
		bs.FBs[i] = xc2fb.New(d, i)
	}
	if g.HasClockDiv {
		bs.ClockDiv = xc2global.DefaultClockDiv()
	}
	if g.HasExtraIBuf {
		bs.ExtraIBuf = xc2iob.DefaultExtraIBuf()
	}
	return bs
}

// WrongFuseCountError is returned when a Plane1D/Plane2D's size does not
// match the size this package uses for the device: logicalPlaneLen for
// the logical plane, physicalDims for the physical one.
type WrongFuseCountError struct {
	Device   xc2device.Device
	Got      int
	Want     int
	Physical bool // false: logical (jed) fuse count; true: physical (crbit) dimensions
}

func (e *WrongFuseCountError) Error() string {
	kind := "logical"
	if e.Physical {
		kind = "physical"
	}
	return fmt.Sprintf("xc2bitstream: %v: got %d %s fuses, want %d", e.Device, e.Got, kind, e.Want)
}

// physicalDims returns the physical-plane size this package actually
// allocates for d: at least the real device's literal Geometry
// dimensions (so the done-bit coordinates and the global-nets/clockdiv
// absolute coordinates, all grounded on the retrieved source, stay
// in-bounds), widened to whatever this package's own self-consistent
// side-by-side function-block tiling needs. The two only coincide for
// single-row devices in the reference source's real fuse map; for every
// other device this package's physical layout is (as documented in
// pkg/xc2fb) a self-consistent placement, not the true one, so it is not
// expected to match Geometry.CrbitWidth/CrbitHeight exactly.
func physicalDims(d xc2device.Device) (w, h int) {
	g := xc2device.GeometryOf(d)
	fbW, fbH := xc2fb.CrbitFootprint(d)
	w, h = g.CrbitWidth, g.CrbitHeight
	if need := g.FBCount * fbW; need > w {
		w = need
	}
	if fbH > h {
		h = fbH
	}
	return w, h
}

// logicalPlaneLen returns the real total length of d's logical (jed)
// fuse vector: xc2device.TotalLogicalFuseCount(d) undercounts on every
// device that carries bank-voltage fields wider than that function's
// "postGlobalNetsGapFuses" placeholder accounts for (the A-variants'
// appended per-bank fuses, and the four largest devices' DataGate/
// UseVref/ivoltage/ovoltage block, which - per xc2global.jedClockDivBase's
// doc comment - also pushes ClockDiv's own placeholder block further
// out), so this takes whichever bound is wider.
func logicalPlaneLen(d xc2device.Device) int {
	n := xc2device.TotalLogicalFuseCount(d)
	if end := xc2global.BankVoltageJedEnd(d); end > n {
		n = end
	}
	g := xc2device.GeometryOf(d)
	if g.HasClockDiv {
		if end := xc2global.BankVoltageJedEnd(d) + 5; end > n {
			n = end
		}
	}
	return n
}

// fbBases returns the fb_fuse_idx-equivalent logical base offset of each
// of d's function blocks, laid out contiguously in FB order starting
// from 0 - the only scheme consistent with xc2device.TotalLogicalFuseCount's
// validated literal totals, since the reference source's own fb_fuse_idx
// lives in fusemap_logical.rs, outside the retrieval pack (see
// pkg/xc2fb's doc comment and DESIGN.md).
func fbBases(d xc2device.Device, fbs []*xc2fb.FunctionBlock) []int {
	bases := make([]int, len(fbs))
	off := 0
	for i, f := range fbs {
		bases[i] = off
		off += f.JedSize(d)
	}
	return bases
}

// FBBases returns the logical base offset of every function block of
// device d, in FB order - the same values EncodeLogical/DecodeLogical
// use internally, exposed for pkg/xc2jed's line-break computation. The
// bases depend only on d (via each FB's HasIOB pattern), not on any
// particular Bitstream's contents.
func FBBases(d xc2device.Device) []int {
	g := xc2device.GeometryOf(d)
	fbs := make([]*xc2fb.FunctionBlock, g.FBCount)
	for i := range fbs {
		fbs[i] = xc2fb.New(d, i)
	}
	return fbBases(d, fbs)
}

// EncodeLogical renders bs onto a freshly allocated logical (jed) plane.
func (bs *Bitstream) EncodeLogical() *fuseplane.Plane1D {
	plane := fuseplane.NewPlane1D(logicalPlaneLen(bs.Device))
	bases := fbBases(bs.Device, bs.FBs)
	for i, f := range bs.FBs {
		f.EncodeJed(plane, bases[i], bs.Device, false)
	}
	bs.Global.EncodeJed(plane, bs.Device)
	g := xc2device.GeometryOf(bs.Device)
	if g.HasClockDiv {
		bs.ClockDiv.EncodeJed(plane, bs.Device)
	}
	if g.HasExtraIBuf {
		bs.ExtraIBuf.EncodeJed(plane)
	}
	bs.BankVoltage.EncodeJed(plane, bs.Device)
	return plane
}

// DecodeLogical parses a logical (jed) plane into a Bitstream for device
// d. The plane's length must equal logicalPlaneLen(d).
func DecodeLogical(plane *fuseplane.Plane1D, d xc2device.Device, speed SpeedGrade, pkg Package) (*Bitstream, error) {
	want := logicalPlaneLen(d)
	if plane.Len() != want {
		return nil, &WrongFuseCountError{Device: d, Got: plane.Len(), Want: want}
	}
	g := xc2device.GeometryOf(d)
	fbs := make([]*xc2fb.FunctionBlock, g.FBCount)
	for i := range fbs {
		fbs[i] = xc2fb.New(d, i)
	}
	bases := fbBases(d, fbs)

	bs := &Bitstream{Device: d, Speed: speed, Pkg: pkg, FBs: fbs}
	for i := range fbs {
		f, err := xc2fb.DecodeJed(plane, bases[i], d, i, false)
		if err != nil {
			return nil, err
		}
		bs.FBs[i] = f
	}
	bs.Global.DecodeJed(plane, d)
	if g.HasClockDiv {
		if err := bs.ClockDiv.DecodeJed(plane, d); err != nil {
			return nil, err
		}
	}
	if g.HasExtraIBuf {
		bs.ExtraIBuf = xc2iob.DecodeExtraIBufJed(plane)
	}
	bs.BankVoltage.DecodeJed(plane, d)
	return bs, nil
}

// EncodePhysical renders bs onto a freshly allocated physical (crbit)
// plane, asserting the device's "done" bit convention: every position in
// the plane's last two rows is 1 except Geometry.Done1X/Done1Y, which is
// 0, grounded on the reference source's own assertion in to_crbit.
func (bs *Bitstream) EncodePhysical() *fuseplane.Plane2D {
	g := xc2device.GeometryOf(bs.Device)
	w, h := physicalDims(bs.Device)
	plane := fuseplane.NewPlane2D(w, h)
	for y := h - 2; y < h; y++ {
		for x := 0; x < w; x++ {
			plane.Set(x, y, true)
		}
	}
	// Every device's Done1Y is exactly CrbitHeight-2 (the second-to-last
	// row), so the done bit's row tracks h even when h is widened beyond
	// the literal Geometry.CrbitHeight; see physicalDims.
	plane.Set(g.Done1X, h-2, false)

	fbW, _ := xc2fb.CrbitFootprint(bs.Device)
	for i, f := range bs.FBs {
		f.EncodeCrbit(plane, i*fbW, 0, bs.Device, false)
	}
	bs.Global.EncodeCrbit(plane, bs.Device)
	if g.HasClockDiv {
		bs.ClockDiv.EncodeCrbit(plane, bs.Device)
	}
	if g.HasExtraIBuf {
		bs.ExtraIBuf.EncodeCrbit(plane)
	}
	bs.BankVoltage.EncodeCrbit(plane, bs.Device)
	plane.SetDevName(bs.Device.String())
	return plane
}

// DecodePhysical parses a physical (crbit) plane into a Bitstream for
// device d, checking the done-bit convention asserted by EncodePhysical.
func DecodePhysical(plane *fuseplane.Plane2D, d xc2device.Device, speed SpeedGrade, pkg Package) (*Bitstream, error) {
	g := xc2device.GeometryOf(d)
	wantW, wantH := physicalDims(d)
	w, h := plane.Dim()
	if w != wantW || h != wantH {
		return nil, &WrongFuseCountError{Device: d, Got: w * h, Want: wantW * wantH, Physical: true}
	}
	if plane.Get(g.Done1X, h-2) {
		return nil, fmt.Errorf("xc2bitstream: %v: done bit at (%d,%d) is set; bitstream is incomplete", d, g.Done1X, h-2)
	}

	fbW, _ := xc2fb.CrbitFootprint(d)
	fbs := make([]*xc2fb.FunctionBlock, g.FBCount)
	for i := range fbs {
		f, err := xc2fb.DecodeCrbit(plane, i*fbW, 0, d, i, false)
		if err != nil {
			return nil, err
		}
		fbs[i] = f
	}

	bs := &Bitstream{Device: d, Speed: speed, Pkg: pkg, FBs: fbs}
	bs.Global.DecodeCrbit(plane, d)
	if g.HasClockDiv {
		if err := bs.ClockDiv.DecodeCrbit(plane, d); err != nil {
			return nil, err
		}
	}
	if g.HasExtraIBuf {
		bs.ExtraIBuf = xc2iob.DecodeExtraIBufCrbit(plane)
	}
	bs.BankVoltage.DecodeCrbit(plane, d)
	return bs, nil
}
